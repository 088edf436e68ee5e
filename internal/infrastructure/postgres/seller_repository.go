package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/basar-api/internal/domain"
	"github.com/jhoicas/basar-api/internal/domain/entity"
	"github.com/jhoicas/basar-api/internal/domain/repository"
)

var _ repository.SellerRepository = (*SellerRepo)(nil)

// Nombres de constraint definidos en migrations/001_sellers.sql.
const (
	constraintPublicID = "sellers_public_id_key"
	constraintEmail    = "sellers_email_normalized_key"
)

// capacityLockKey clave del pg_advisory_xact_lock que serializa activaciones.
const capacityLockKey int64 = 0x6261736172 // "basar"

// allocationLockKey clave del lock que serializa la lectura de números usados y el INSERT.
const allocationLockKey int64 = 0x6261736173

const sellerColumns = `id, public_id, email, first_name, last_name, role, active, created_at, updated_at`

// SellerRepo implementación de SellerRepository sobre PostgreSQL (usable con pool o tx).
type SellerRepo struct {
	q Querier
}

// NewSellerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSellerRepository(q Querier) *SellerRepo {
	return &SellerRepo{q: q}
}

// Create inserta el registro. Las restricciones únicas se traducen a errores de dominio.
func (r *SellerRepo) Create(ctx context.Context, s *entity.Seller) error {
	query := `
		INSERT INTO sellers (id, public_id, email, email_normalized, first_name, last_name, role, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.PublicID, s.Email, entity.NormalizeEmail(s.Email), s.FirstName, s.LastName,
		s.Role, s.Active, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return mapSellerWriteError(err)
	}
	return nil
}

// GetByPublicID devuelve nil, nil si no existe.
func (r *SellerRepo) GetByPublicID(ctx context.Context, publicID int) (*entity.Seller, error) {
	return r.get(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE public_id = $1`, publicID)
}

// GetByPublicIDForUpdate bloquea la fila hasta el fin de la transacción.
func (r *SellerRepo) GetByPublicIDForUpdate(ctx context.Context, publicID int) (*entity.Seller, error) {
	return r.get(ctx, `SELECT `+sellerColumns+` FROM sellers WHERE public_id = $1 FOR UPDATE`, publicID)
}

func (r *SellerRepo) get(ctx context.Context, query string, publicID int) (*entity.Seller, error) {
	var s entity.Seller
	err := r.q.QueryRow(ctx, query, publicID).Scan(
		&s.ID, &s.PublicID, &s.Email, &s.FirstName, &s.LastName, &s.Role, &s.Active,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get seller: %w", err)
	}
	return &s, nil
}

// ExistsByEmail compara sobre email_normalized.
func (r *SellerRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sellers WHERE email_normalized = $1)`,
		entity.NormalizeEmail(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists seller email: %w", err)
	}
	return exists, nil
}

// UsedPublicIDs números ocupados en [min, max], ordenados.
func (r *SellerRepo) UsedPublicIDs(ctx context.Context, min, max int) ([]int, error) {
	rows, err := r.q.Query(ctx,
		`SELECT public_id FROM sellers WHERE public_id BETWEEN $1 AND $2 ORDER BY public_id`, min, max)
	if err != nil {
		return nil, fmt.Errorf("used public ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("scan public ids: %w", err)
	}
	return ids, nil
}

// CountInRange cuántos números de [min, max] están ocupados.
func (r *SellerRepo) CountInRange(ctx context.Context, min, max int) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM sellers WHERE public_id BETWEEN $1 AND $2`, min, max).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count public ids: %w", err)
	}
	return n, nil
}

// LockAllocation pg_advisory_xact_lock sobre una clave distinta de la de capacidad:
// registros y activaciones no se esperan entre sí.
func (r *SellerRepo) LockAllocation(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, allocationLockKey); err != nil {
		return fmt.Errorf("allocation lock: %w", err)
	}
	return nil
}

// LockCapacity pg_advisory_xact_lock: todas las activaciones pasan por el mismo lock,
// que Postgres libera en el commit o rollback. Fuera de una tx no tiene efecto útil.
func (r *SellerRepo) LockCapacity(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, capacityLockKey); err != nil {
		return fmt.Errorf("capacity lock: %w", err)
	}
	return nil
}

func (r *SellerRepo) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM sellers WHERE active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active sellers: %w", err)
	}
	return n, nil
}

func (r *SellerRepo) SetActive(ctx context.Context, publicID int, active bool) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE sellers SET active = $2, updated_at = NOW() WHERE public_id = $1`, publicID, active)
	if err != nil {
		return fmt.Errorf("set seller active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ResetAllActive un único UPDATE; idempotente.
func (r *SellerRepo) ResetAllActive(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `UPDATE sellers SET active = FALSE, updated_at = NOW() WHERE active`)
	if err != nil {
		return 0, fmt.Errorf("reset seller status: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *SellerRepo) SetRole(ctx context.Context, publicID int, role string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE sellers SET role = $2, updated_at = NOW() WHERE public_id = $1`, publicID, role)
	if err != nil {
		return fmt.Errorf("set seller role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// mapSellerWriteError traduce violaciones de unicidad según el constraint.
func mapSellerWriteError(err error) error {
	if !isUniqueViolation(err) {
		return fmt.Errorf("insert seller: %w", err)
	}
	switch violatedConstraint(err) {
	case constraintPublicID:
		return domain.ErrAllocationConflict
	case constraintEmail:
		return domain.ErrDuplicateIdentity
	default:
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
}
