// Package memory repositorios en memoria con la misma semántica transaccional que Postgres
// (restricciones únicas al confirmar, locks de asignación y capacidad hasta el fin de la tx).
// Se usa en tests de casos de uso y de la capa HTTP.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/basar-api/internal/domain"
	"github.com/jhoicas/basar-api/internal/domain/entity"
	"github.com/jhoicas/basar-api/internal/domain/repository"
)

// SellerStore tabla sellers en memoria. Implementa repository.SellerRepository (autocommit)
// y ports.SellerTxRunner.
type SellerStore struct {
	mu         sync.Mutex
	byPublic   map[int]*entity.Seller
	allocation sync.Mutex
	capacity   sync.Mutex

	// BeforeCommit si no es nil se llama antes de aplicar cada tx (para simular carreras).
	BeforeCommit func()
}

// NewSellerStore crea un almacén vacío.
func NewSellerStore() *SellerStore {
	return &SellerStore{byPublic: make(map[int]*entity.Seller)}
}

var (
	_ repository.SellerRepository = (*SellerStore)(nil)
	_ repository.SellerRepository = (*sellerTx)(nil)
)

// RunSellers ejecuta fn sobre una vista transaccional. Los cambios se validan y aplican al final;
// si fn falla no se aplica nada.
func (s *SellerStore) RunSellers(ctx context.Context, fn func(repo repository.SellerRepository) error) error {
	tx := &sellerTx{
		store:   s,
		updates: make(map[int]*entity.Seller),
		changed: make(map[int]fieldSet),
	}
	defer tx.release()
	if err := fn(tx); err != nil {
		return err
	}
	if s.BeforeCommit != nil {
		s.BeforeCommit()
	}
	return tx.commit()
}

// Seed inserta registros directamente (datos de prueba).
func (s *SellerStore) Seed(sellers ...*entity.Seller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, seller := range sellers {
		cp := *seller
		s.byPublic[cp.PublicID] = &cp
	}
}

// All copia ordenada por public_id.
func (s *SellerStore) All() []entity.Seller {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Seller, 0, len(s.byPublic))
	for _, seller := range s.byPublic {
		out = append(out, *seller)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublicID < out[j].PublicID })
	return out
}

func (s *SellerStore) Create(ctx context.Context, seller *entity.Seller) error {
	return s.RunSellers(ctx, func(repo repository.SellerRepository) error {
		return repo.Create(ctx, seller)
	})
}

func (s *SellerStore) GetByPublicID(_ context.Context, publicID int) (*entity.Seller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seller, ok := s.byPublic[publicID]; ok {
		cp := *seller
		return &cp, nil
	}
	return nil, nil
}

func (s *SellerStore) GetByPublicIDForUpdate(ctx context.Context, publicID int) (*entity.Seller, error) {
	return s.GetByPublicID(ctx, publicID)
}

func (s *SellerStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emailTaken(entity.NormalizeEmail(email)), nil
}

func (s *SellerStore) UsedPublicIDs(_ context.Context, min, max int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int
	for id := range s.byPublic {
		if id >= min && id <= max {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids, nil
}

func (s *SellerStore) CountInRange(ctx context.Context, min, max int) (int, error) {
	ids, err := s.UsedPublicIDs(ctx, min, max)
	return len(ids), err
}

// LockAllocation y LockCapacity fuera de una tx no tienen efecto.
func (s *SellerStore) LockAllocation(context.Context) error { return nil }

func (s *SellerStore) LockCapacity(context.Context) error { return nil }

func (s *SellerStore) CountActive(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, seller := range s.byPublic {
		if seller.Active {
			n++
		}
	}
	return n, nil
}

func (s *SellerStore) SetActive(_ context.Context, publicID int, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seller, ok := s.byPublic[publicID]
	if !ok {
		return domain.ErrNotFound
	}
	seller.Active = active
	return nil
}

func (s *SellerStore) ResetAllActive(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, seller := range s.byPublic {
		if seller.Active {
			seller.Active = false
			n++
		}
	}
	return n, nil
}

func (s *SellerStore) SetRole(_ context.Context, publicID int, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seller, ok := s.byPublic[publicID]
	if !ok {
		return domain.ErrNotFound
	}
	seller.Role = role
	return nil
}

func (s *SellerStore) emailTaken(normalized string) bool {
	for _, seller := range s.byPublic {
		if entity.NormalizeEmail(seller.Email) == normalized {
			return true
		}
	}
	return false
}

// fieldSet columnas que una tx modificó en una fila.
type fieldSet uint8

const (
	fieldActive fieldSet = 1 << iota
	fieldRole
)

// sellerTx vista de una transacción: lee lo confirmado más sus propios cambios.
// Al confirmar sólo escribe las columnas tocadas, como un UPDATE ... SET col.
type sellerTx struct {
	store   *SellerStore
	creates []*entity.Seller
	updates map[int]*entity.Seller
	changed map[int]fieldSet
	held    []*sync.Mutex
}

func (t *sellerTx) release() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.held[i].Unlock()
	}
	t.held = nil
}

// lock toma m hasta el fin de la tx; repetirlo en la misma tx no bloquea.
func (t *sellerTx) lock(ctx context.Context, m *sync.Mutex) error {
	for _, h := range t.held {
		if h == m {
			return nil
		}
	}
	m.Lock()
	t.held = append(t.held, m)
	return ctx.Err()
}

func (t *sellerTx) commit() error {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range t.creates {
		if _, taken := s.byPublic[c.PublicID]; taken {
			return domain.ErrAllocationConflict
		}
		if s.emailTaken(entity.NormalizeEmail(c.Email)) {
			return domain.ErrDuplicateIdentity
		}
	}
	for _, c := range t.creates {
		cp := *c
		s.byPublic[cp.PublicID] = &cp
	}
	for id, u := range t.updates {
		seller, ok := s.byPublic[id]
		if !ok {
			continue
		}
		fields := t.changed[id]
		if fields&fieldActive != 0 {
			seller.Active = u.Active
		}
		if fields&fieldRole != 0 {
			seller.Role = u.Role
		}
	}
	return nil
}

func (t *sellerTx) current(publicID int) *entity.Seller {
	if u, ok := t.updates[publicID]; ok {
		return u
	}
	for _, c := range t.creates {
		if c.PublicID == publicID {
			return c
		}
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	if seller, ok := t.store.byPublic[publicID]; ok {
		cp := *seller
		return &cp
	}
	return nil
}

func (t *sellerTx) Create(_ context.Context, seller *entity.Seller) error {
	cp := *seller
	t.creates = append(t.creates, &cp)
	return nil
}

func (t *sellerTx) GetByPublicID(_ context.Context, publicID int) (*entity.Seller, error) {
	if seller := t.current(publicID); seller != nil {
		cp := *seller
		return &cp, nil
	}
	return nil, nil
}

func (t *sellerTx) GetByPublicIDForUpdate(ctx context.Context, publicID int) (*entity.Seller, error) {
	return t.GetByPublicID(ctx, publicID)
}

func (t *sellerTx) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	normalized := entity.NormalizeEmail(email)
	for _, c := range t.creates {
		if entity.NormalizeEmail(c.Email) == normalized {
			return true, nil
		}
	}
	return t.store.ExistsByEmail(ctx, email)
}

func (t *sellerTx) UsedPublicIDs(ctx context.Context, min, max int) ([]int, error) {
	ids, err := t.store.UsedPublicIDs(ctx, min, max)
	if err != nil {
		return nil, err
	}
	for _, c := range t.creates {
		if c.PublicID >= min && c.PublicID <= max {
			ids = append(ids, c.PublicID)
		}
	}
	return ids, nil
}

func (t *sellerTx) CountInRange(ctx context.Context, min, max int) (int, error) {
	ids, err := t.UsedPublicIDs(ctx, min, max)
	return len(ids), err
}

// LockAllocation y LockCapacity se mantienen hasta que RunSellers termina.
func (t *sellerTx) LockAllocation(ctx context.Context) error {
	return t.lock(ctx, &t.store.allocation)
}

func (t *sellerTx) LockCapacity(ctx context.Context) error {
	return t.lock(ctx, &t.store.capacity)
}

func (t *sellerTx) CountActive(ctx context.Context) (int, error) {
	t.store.mu.Lock()
	n := 0
	for id, seller := range t.store.byPublic {
		active := seller.Active
		if u, ok := t.updates[id]; ok {
			active = u.Active
		}
		if active {
			n++
		}
	}
	t.store.mu.Unlock()
	for _, c := range t.creates {
		if c.Active {
			n++
		}
	}
	return n, nil
}

func (t *sellerTx) SetActive(_ context.Context, publicID int, active bool) error {
	seller := t.current(publicID)
	if seller == nil {
		return domain.ErrNotFound
	}
	seller.Active = active
	t.updates[publicID] = seller
	t.changed[publicID] |= fieldActive
	return nil
}

func (t *sellerTx) ResetAllActive(ctx context.Context) (int64, error) {
	return t.store.ResetAllActive(ctx)
}

func (t *sellerTx) SetRole(_ context.Context, publicID int, role string) error {
	seller := t.current(publicID)
	if seller == nil {
		return domain.ErrNotFound
	}
	seller.Role = role
	t.updates[publicID] = seller
	t.changed[publicID] |= fieldRole
	return nil
}
