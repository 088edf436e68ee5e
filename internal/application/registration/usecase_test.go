package registration_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/basar-api/internal/application/dto"
	"github.com/jhoicas/basar-api/internal/application/ports"
	"github.com/jhoicas/basar-api/internal/application/registration"
	"github.com/jhoicas/basar-api/internal/application/settings"
	"github.com/jhoicas/basar-api/internal/domain"
	"github.com/jhoicas/basar-api/internal/domain/entity"
	"github.com/jhoicas/basar-api/internal/domain/repository"
	"github.com/jhoicas/basar-api/internal/infrastructure/memory"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type recordingNotifier struct {
	mu      sync.Mutex
	notices []ports.RegistrationNotice
	err     error
}

func (n *recordingNotifier) NotifyRegistration(_ context.Context, notice ports.RegistrationNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return n.err
}

// 15/10/2026 12:00 en Berlín (CEST).
var now = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

func openWindows() map[string]string {
	return map[string]string{
		entity.SettingSellerRegistrationStart:   "2026-03-01T00:00",
		entity.SettingSellerRegistrationEnd:     "2026-12-31T23:59",
		entity.SettingEmployeeRegistrationStart: "2025-01-01",
		entity.SettingEmployeeRegistrationEnd:   "2026-01-01",
	}
}

type fixture struct {
	uc       *registration.UseCase
	store    *memory.SellerStore
	notifier *recordingNotifier
}

func newFixture(t *testing.T, cfg registration.Config) fixture {
	t.Helper()
	store := memory.NewSellerStore()
	clock := fixedClock{t: now}
	windows := settings.NewUseCase(memory.NewSettingsStore(openWindows()), clock)
	notifier := &recordingNotifier{}
	uc, err := registration.NewUseCase(store, store, windows, notifier, clock, cfg, zerolog.Nop())
	require.NoError(t, err)
	return fixture{uc: uc, store: store, notifier: notifier}
}

func request(email string) dto.RegisterSellerRequest {
	return dto.RegisterSellerRequest{Email: email, FirstName: "Anna", LastName: "Schmidt"}
}

func TestRegister_AsignaMenorNumeroLibreEInactivo(t *testing.T) {
	f := newFixture(t, registration.Config{RangeMin: 1000, RangeMax: 9999})
	f.store.Seed(&entity.Seller{ID: "x", PublicID: 1000, Email: "alt@example.de", Role: entity.RoleSeller})

	out, err := f.uc.Register(context.Background(), request("anna@example.de"))
	require.NoError(t, err)
	assert.Equal(t, 1001, out.PublicID)
	assert.Equal(t, entity.RoleSeller, out.Role)
	assert.NotEmpty(t, out.Message)

	s, err := f.store.GetByPublicID(context.Background(), 1001)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.False(t, s.Active, "un registro nuevo nunca queda activo")
	assert.Equal(t, "anna@example.de", s.Email)

	require.NoError(t, f.uc.WaitNotifications(context.Background()))
	require.Len(t, f.notifier.notices, 1)
	assert.Equal(t, 1001, f.notifier.notices[0].PublicID)
}

func TestRegister_EmailDuplicadoSinDistinguirMayusculas(t *testing.T) {
	f := newFixture(t, registration.Config{RangeMin: 1000, RangeMax: 9999})
	_, err := f.uc.Register(context.Background(), request("Anna@Example.de"))
	require.NoError(t, err)

	_, err = f.uc.Register(context.Background(), request("anna@example.DE"))
	assert.True(t, errors.Is(err, domain.ErrDuplicateIdentity))
	assert.Len(t, f.store.All(), 1)
}

func TestRegister_VentanaCerrada(t *testing.T) {
	f := newFixture(t, registration.Config{RangeMin: 1000, RangeMax: 9999})
	in := request("helfer@example.de")
	in.Role = entity.RoleEmployee

	_, err := f.uc.Register(context.Background(), in)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrWindowClosed))
	var closed *domain.WindowClosedError
	require.True(t, errors.As(err, &closed))
	assert.Equal(t, entity.WindowEmployeeRegistration, closed.Window)
	assert.Empty(t, f.store.All(), "no se asigna número con la ventana cerrada")
	require.NoError(t, f.uc.WaitNotifications(context.Background()))
	assert.Empty(t, f.notifier.notices)
}

func TestRegister_AgotamientoDelRango(t *testing.T) {
	f := newFixture(t, registration.Config{RangeMin: 1000, RangeMax: 1002})
	f.store.Seed(
		&entity.Seller{ID: "a", PublicID: 1000, Email: "a@example.de"},
		&entity.Seller{ID: "b", PublicID: 1001, Email: "b@example.de"},
	)

	out, err := f.uc.Register(context.Background(), request("c@example.de"))
	require.NoError(t, err)
	assert.Equal(t, 1002, out.PublicID)

	_, err = f.uc.Register(context.Background(), request("d@example.de"))
	assert.True(t, errors.Is(err, domain.ErrPoolExhausted))
	assert.Len(t, f.store.All(), 3)
}

func TestRegister_FalloDeCorreoNoInvalidaElRegistro(t *testing.T) {
	f := newFixture(t, registration.Config{RangeMin: 1000, RangeMax: 9999})
	f.notifier.err = errors.New("smtp caído")

	out, err := f.uc.Register(context.Background(), request("anna@example.de"))
	require.NoError(t, err)
	assert.Equal(t, 1000, out.PublicID)
	assert.Len(t, f.store.All(), 1)
	require.NoError(t, f.uc.WaitNotifications(context.Background()))
}

// blockingNotifier retiene el envío hasta que se cierra release.
type blockingNotifier struct {
	release chan struct{}
	ctxErr  error
}

func (n *blockingNotifier) NotifyRegistration(ctx context.Context, _ ports.RegistrationNotice) error {
	<-n.release
	n.ctxErr = ctx.Err()
	return nil
}

func TestRegister_CorreoNoBloqueaLaRespuesta(t *testing.T) {
	store := memory.NewSellerStore()
	clock := fixedClock{t: now}
	windows := settings.NewUseCase(memory.NewSettingsStore(openWindows()), clock)
	notifier := &blockingNotifier{release: make(chan struct{})}
	uc, err := registration.NewUseCase(store, store, windows, notifier, clock,
		registration.Config{RangeMin: 1000, RangeMax: 9999}, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	out, err := uc.Register(ctx, request("anna@example.de"))
	require.NoError(t, err)
	assert.Equal(t, 1000, out.PublicID)
	cancel()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer waitCancel()
	assert.ErrorIs(t, uc.WaitNotifications(waitCtx), context.DeadlineExceeded, "el correo sigue pendiente")

	close(notifier.release)
	require.NoError(t, uc.WaitNotifications(context.Background()))
	assert.NoError(t, notifier.ctxErr, "cancelar la petición no cancela el correo")
}

func TestRegister_EntradaInvalida(t *testing.T) {
	f := newFixture(t, registration.Config{RangeMin: 1000, RangeMax: 9999})
	cases := []dto.RegisterSellerRequest{
		{Email: "", FirstName: "A", LastName: "B"},
		{Email: "sin-arroba", FirstName: "A", LastName: "B"},
		{Email: "a@example.de", FirstName: " ", LastName: "B"},
		{Email: "a@example.de", FirstName: "A", LastName: "B", Role: "admin"},
	}
	for _, in := range cases {
		_, err := f.uc.Register(context.Background(), in)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "%+v", in)
	}
	assert.Empty(t, f.store.All())
}

func TestRegister_ReintentaTrasColision(t *testing.T) {
	f := newFixture(t, registration.Config{RangeMin: 1000, RangeMax: 9999})
	var once sync.Once
	f.store.BeforeCommit = func() {
		once.Do(func() {
			f.store.Seed(&entity.Seller{ID: "otro", PublicID: 1000, Email: "otro@example.de"})
		})
	}

	out, err := f.uc.Register(context.Background(), request("anna@example.de"))
	require.NoError(t, err)
	assert.Equal(t, 1001, out.PublicID)
}

// conflictRunner simula una colisión en cada intento.
type conflictRunner struct {
	attempts int
}

func (r *conflictRunner) RunSellers(context.Context, func(repository.SellerRepository) error) error {
	r.attempts++
	return domain.ErrAllocationConflict
}

func TestRegister_LimiteDeReintentos(t *testing.T) {
	store := memory.NewSellerStore()
	clock := fixedClock{t: now}
	windows := settings.NewUseCase(memory.NewSettingsStore(openWindows()), clock)
	runner := &conflictRunner{}
	uc, err := registration.NewUseCase(runner, store, windows, nil, clock,
		registration.Config{RangeMin: 1000, RangeMax: 9999, MaxAttempts: 3}, zerolog.Nop())
	require.NoError(t, err)

	_, err = uc.Register(context.Background(), request("anna@example.de"))
	assert.True(t, errors.Is(err, domain.ErrAllocationConflict))
	assert.Equal(t, 3, runner.attempts)
}

func TestRegister_ConcurrenteNumerosDistintos(t *testing.T) {
	const n = 20
	// Reintentos por defecto y latencia de commit: todos deben entrar sin agotar reintentos.
	f := newFixture(t, registration.Config{RangeMin: 1000, RangeMax: 9999})
	f.store.BeforeCommit = func() { time.Sleep(2 * time.Millisecond) }

	var wg sync.WaitGroup
	ids := make(chan int, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := f.uc.Register(context.Background(), request(fmt.Sprintf("v%d@example.de", i)))
			if err != nil {
				errs <- err
				return
			}
			ids <- out.PublicID
		}(i)
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Errorf("registro concurrente falló: %v", err)
	}
	seen := make(map[int]bool)
	for id := range ids {
		assert.False(t, seen[id], "número %d repetido", id)
		seen[id] = true
		assert.GreaterOrEqual(t, id, 1000)
		assert.Less(t, id, 1000+n)
	}
	assert.Len(t, seen, n)
	assert.Len(t, f.store.All(), n)
	require.NoError(t, f.uc.WaitNotifications(context.Background()))
}

func TestIsPublicIDInUse(t *testing.T) {
	f := newFixture(t, registration.Config{RangeMin: 1000, RangeMax: 9999})
	ctx := context.Background()

	inUse, err := f.uc.IsPublicIDInUse(ctx, 1000)
	require.NoError(t, err)
	assert.False(t, inUse)

	out, err := f.uc.Register(ctx, request("anna@example.de"))
	require.NoError(t, err)

	inUse, err = f.uc.IsPublicIDInUse(ctx, out.PublicID)
	require.NoError(t, err)
	assert.True(t, inUse)
}

func TestNewUseCase_RangoInvalido(t *testing.T) {
	store := memory.NewSellerStore()
	_, err := registration.NewUseCase(store, store, nil, nil, nil,
		registration.Config{RangeMin: 10, RangeMax: 5}, zerolog.Nop())
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
