package registration

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/basar-api/internal/application/dto"
	"github.com/jhoicas/basar-api/internal/application/ports"
	"github.com/jhoicas/basar-api/internal/domain"
	"github.com/jhoicas/basar-api/internal/domain/entity"
	"github.com/jhoicas/basar-api/internal/domain/identity"
	"github.com/jhoicas/basar-api/internal/domain/repository"
	"github.com/jhoicas/basar-api/internal/domain/schedule"
	"github.com/jhoicas/basar-api/pkg/metrics"
)

// DefaultMaxAttempts intentos de asignación ante colisiones de public_id.
const DefaultMaxAttempts = 5

// notifyTimeout tope de cada envío de correo en segundo plano.
const notifyTimeout = 30 * time.Second

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Config valores planos del rango de identificadores (sin lectura de env aquí).
type Config struct {
	RangeMin    int
	RangeMax    int
	MaxAttempts int
}

// UseCase orquesta el registro: ventana abierta → email libre → número asignado → persistencia
// → correo de bienvenida (sin afectar al resultado).
type UseCase struct {
	txRunner ports.SellerTxRunner
	sellers  repository.SellerRepository
	windows  WindowSource
	notifier ports.Notifier
	clock    ports.Clock
	cfg      Config
	log      zerolog.Logger

	pending sync.WaitGroup
}

// NewUseCase construye el caso de uso. notifier puede ser nil (sin correo).
func NewUseCase(
	txRunner ports.SellerTxRunner,
	sellers repository.SellerRepository,
	windows WindowSource,
	notifier ports.Notifier,
	clock ports.Clock,
	cfg Config,
	log zerolog.Logger,
) (*UseCase, error) {
	if err := identity.ValidateRange(cfg.RangeMin, cfg.RangeMax); err != nil {
		return nil, err
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &UseCase{
		txRunner: txRunner,
		sellers:  sellers,
		windows:  windows,
		notifier: notifier,
		clock:    clock,
		cfg:      cfg,
		log:      log,
	}, nil
}

// Register registra un vendedor o empleado nuevo con active=false.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterSellerRequest) (*dto.RegisterSellerResponse, error) {
	seller, err := uc.newSeller(in)
	if err != nil {
		return nil, err
	}

	windowName := entity.RegistrationWindowFor(seller.Role)
	w, err := uc.windows.Window(ctx, windowName)
	if err != nil {
		uc.count(seller.Role, "error")
		return nil, err
	}
	if !schedule.IsOpen(w, uc.clock.Now()) {
		uc.count(seller.Role, "window_closed")
		return nil, &domain.WindowClosedError{Window: windowName}
	}

	if err := uc.allocateAndCreate(ctx, seller); err != nil {
		uc.count(seller.Role, resultOf(err))
		return nil, err
	}
	uc.count(seller.Role, "success")
	uc.log.Info().
		Int("public_id", seller.PublicID).
		Str("role", seller.Role).
		Msg("registro completado")

	uc.notify(ctx, seller)

	return &dto.RegisterSellerResponse{
		PublicID: seller.PublicID,
		Role:     seller.Role,
		Message:  "Registrierung erfolgreich. Bitte prüfen Sie Ihre E-Mails.",
	}, nil
}

// IsPublicIDInUse indica si el número ya pertenece a un registro.
func (uc *UseCase) IsPublicIDInUse(ctx context.Context, publicID int) (bool, error) {
	s, err := uc.sellers.GetByPublicID(ctx, publicID)
	if err != nil {
		return false, err
	}
	return s != nil, nil
}

// allocateAndCreate cada intento es una transacción completa: tomar el lock de asignación,
// comprobar email, leer números usados, elegir el menor libre e insertar. El lock serializa a
// los registros concurrentes; si aun así otro escritor ganó el número (p. ej. un import manual)
// la restricción única aborta la tx y se vuelve a leer.
func (uc *UseCase) allocateAndCreate(ctx context.Context, seller *entity.Seller) error {
	for attempt := 1; attempt <= uc.cfg.MaxAttempts; attempt++ {
		err := uc.txRunner.RunSellers(ctx, func(repo repository.SellerRepository) error {
			if err := repo.LockAllocation(ctx); err != nil {
				return err
			}
			exists, err := repo.ExistsByEmail(ctx, seller.Email)
			if err != nil {
				return err
			}
			if exists {
				return domain.ErrDuplicateIdentity
			}
			used, err := repo.UsedPublicIDs(ctx, uc.cfg.RangeMin, uc.cfg.RangeMax)
			if err != nil {
				return err
			}
			id, err := identity.Allocate(identity.UsedSet(used), uc.cfg.RangeMin, uc.cfg.RangeMax)
			if err != nil {
				return err
			}
			seller.PublicID = id
			return repo.Create(ctx, seller)
		})
		if !errors.Is(err, domain.ErrAllocationConflict) {
			if err != nil {
				seller.PublicID = 0
			}
			return err
		}
		metrics.AllocationConflictsTotal.Inc()
		uc.log.Debug().
			Int("attempt", attempt).
			Int("public_id", seller.PublicID).
			Msg("colisión de número de vendedor, reintentando")
		seller.PublicID = 0
	}
	return fmt.Errorf("%w: %d intentos", domain.ErrAllocationConflict, uc.cfg.MaxAttempts)
}

func (uc *UseCase) newSeller(in dto.RegisterSellerRequest) (*entity.Seller, error) {
	email := strings.TrimSpace(in.Email)
	first := strings.TrimSpace(in.FirstName)
	last := strings.TrimSpace(in.LastName)
	if email == "" || first == "" || last == "" {
		return nil, fmt.Errorf("%w: email, nombre y apellido son requeridos", domain.ErrInvalidInput)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleSeller
	}
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, role)
	}
	now := uc.clock.Now().UTC()
	return &entity.Seller{
		ID:        uuid.New().String(),
		Email:     email,
		FirstName: first,
		LastName:  last,
		Role:      role,
		Active:    false,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// notify el registro ya está confirmado: el correo sale en segundo plano y un fallo sólo
// se registra. El envío no hereda la cancelación de la petición HTTP.
func (uc *UseCase) notify(ctx context.Context, seller *entity.Seller) {
	if uc.notifier == nil {
		return
	}
	notice := ports.RegistrationNotice{
		Email:     seller.Email,
		FirstName: seller.FirstName,
		LastName:  seller.LastName,
		PublicID:  seller.PublicID,
		Role:      seller.Role,
	}
	uc.pending.Add(1)
	go func() {
		defer uc.pending.Done()
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := uc.notifier.NotifyRegistration(notifyCtx, notice); err != nil {
			metrics.NotificationFailuresTotal.Inc()
			uc.log.Error().Err(err).
				Int("public_id", notice.PublicID).
				Msg("envío de correo de registro fallido")
		}
	}()
}

// WaitNotifications espera a los correos en curso o a que ctx termine (apagado ordenado).
func (uc *UseCase) WaitNotifications(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		uc.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (uc *UseCase) count(role, result string) {
	metrics.RegistrationsTotal.WithLabelValues(role, result).Inc()
}

func resultOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateIdentity):
		return "duplicate"
	case errors.Is(err, domain.ErrPoolExhausted):
		return "pool_exhausted"
	case errors.Is(err, domain.ErrAllocationConflict):
		return "conflict"
	default:
		return "error"
	}
}
