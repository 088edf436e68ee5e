package sellerstatus

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/basar-api/internal/application/dto"
	"github.com/jhoicas/basar-api/internal/application/ports"
	"github.com/jhoicas/basar-api/internal/domain"
	"github.com/jhoicas/basar-api/internal/domain/capacity"
	"github.com/jhoicas/basar-api/internal/domain/entity"
	"github.com/jhoicas/basar-api/internal/domain/identity"
	"github.com/jhoicas/basar-api/internal/domain/repository"
	"github.com/jhoicas/basar-api/pkg/metrics"
)

// Config máximo de activos y rango de números (sólo para el resumen de ocupación).
type Config struct {
	MaxActive int
	RangeMin  int
	RangeMax  int
}

// UseCase activa/desactiva vendedores respetando el máximo de activos.
type UseCase struct {
	txRunner ports.SellerTxRunner
	sellers  repository.SellerRepository
	cfg      Config
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner ports.SellerTxRunner, sellers repository.SellerRepository, cfg Config, log zerolog.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, sellers: sellers, cfg: cfg, log: log}
}

// Activate activa el vendedor si cabe bajo MaxActive. Ya activo: éxito sin cambios.
// Bloqueo de capacidad, lectura de la fila, recuento y update ocurren en una sola transacción.
func (uc *UseCase) Activate(ctx context.Context, publicID int) (*dto.SellerStatusResponse, error) {
	changed := false
	err := uc.txRunner.RunSellers(ctx, func(repo repository.SellerRepository) error {
		if err := repo.LockCapacity(ctx); err != nil {
			return err
		}
		s, err := repo.GetByPublicIDForUpdate(ctx, publicID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if s.Active {
			return nil
		}
		active, err := repo.CountActive(ctx)
		if err != nil {
			return err
		}
		metrics.ActiveSellers.Set(float64(active))
		if d := capacity.TryActivate(active, uc.cfg.MaxActive); !d.Allowed {
			return fmt.Errorf("%w: %s", domain.ErrCapacityExceeded, d.Reason)
		}
		if err := repo.SetActive(ctx, publicID, true); err != nil {
			return err
		}
		metrics.ActiveSellers.Set(float64(active + 1))
		changed = true
		return nil
	})
	if err != nil {
		uc.record("activate", err, false)
		return nil, err
	}
	uc.record("activate", nil, changed)
	if changed {
		uc.log.Info().Int("public_id", publicID).Msg("vendedor activado")
	}
	return statusResponse(publicID, true, changed), nil
}

// Deactivate desactiva sin comprobar capacidad. Ya inactivo: éxito sin cambios.
func (uc *UseCase) Deactivate(ctx context.Context, publicID int) (*dto.SellerStatusResponse, error) {
	changed := false
	err := uc.txRunner.RunSellers(ctx, func(repo repository.SellerRepository) error {
		s, err := repo.GetByPublicIDForUpdate(ctx, publicID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if !s.Active {
			return nil
		}
		if err := repo.SetActive(ctx, publicID, false); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		uc.record("deactivate", err, false)
		return nil, err
	}
	uc.record("deactivate", nil, changed)
	if changed {
		uc.log.Info().Int("public_id", publicID).Msg("vendedor desactivado")
	}
	return statusResponse(publicID, false, changed), nil
}

// SetStatus activa o desactiva según active.
func (uc *UseCase) SetStatus(ctx context.Context, publicID int, active bool) (*dto.SellerStatusResponse, error) {
	if active {
		return uc.Activate(ctx, publicID)
	}
	return uc.Deactivate(ctx, publicID)
}

// SetOwnStatus cambio pedido por el propio vendedor: número y email deben corresponder al
// mismo registro. Un email distinto responde igual que un número inexistente.
func (uc *UseCase) SetOwnStatus(ctx context.Context, publicID int, email string, active bool) (*dto.SellerStatusResponse, error) {
	s, err := uc.sellers.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if s == nil || entity.NormalizeEmail(s.Email) != entity.NormalizeEmail(email) {
		return nil, domain.ErrNotFound
	}
	return uc.SetStatus(ctx, publicID, active)
}

// Toggle invierte el estado actual (botón Akt/Deakt del panel).
func (uc *UseCase) Toggle(ctx context.Context, publicID int) (*dto.SellerStatusResponse, error) {
	s, err := uc.sellers.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return uc.SetStatus(ctx, publicID, !s.Active)
}

// ResetAll pone a todos inactivos para un nuevo basar. Idempotente; no consulta capacidad.
// La confirmación en dos pasos se exige en la frontera HTTP.
func (uc *UseCase) ResetAll(ctx context.Context) (*dto.ResetStatusResponse, error) {
	n, err := uc.sellers.ResetAllActive(ctx)
	if err != nil {
		metrics.StatusChangesTotal.WithLabelValues("reset", "error").Inc()
		return nil, fmt.Errorf("reiniciar estados: %w", err)
	}
	metrics.StatusChangesTotal.WithLabelValues("reset", "changed").Inc()
	metrics.ActiveSellers.Set(0)
	uc.log.Warn().Int64("reset", n).Msg("estado de todos los vendedores reiniciado")
	return &dto.ResetStatusResponse{
		Reset:   n,
		Message: "Alle Verkäufer Status wurden zurückgesetzt.",
	}, nil
}

// ToggleRole cambia entre vendedor y empleado. No toca el estado activo ni el número.
func (uc *UseCase) ToggleRole(ctx context.Context, publicID int) (*dto.SellerRoleResponse, error) {
	var role string
	err := uc.txRunner.RunSellers(ctx, func(repo repository.SellerRepository) error {
		s, err := repo.GetByPublicIDForUpdate(ctx, publicID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		role = entity.RoleEmployee
		if s.IsEmployee() {
			role = entity.RoleSeller
		}
		return repo.SetRole(ctx, publicID, role)
	})
	if err != nil {
		return nil, err
	}
	msg := "Rolle wurde geändert zu Verkäufer"
	if role == entity.RoleEmployee {
		msg = "Rolle wurde geändert zu Mitarbeiter"
	}
	return &dto.SellerRoleResponse{PublicID: publicID, Role: role, Message: msg}, nil
}

// Overview activos, plazas libres y ocupación del rango de números.
func (uc *UseCase) Overview(ctx context.Context) (*dto.SellerOverviewResponse, error) {
	active, err := uc.sellers.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	used, err := uc.sellers.CountInRange(ctx, uc.cfg.RangeMin, uc.cfg.RangeMax)
	if err != nil {
		return nil, err
	}
	metrics.ActiveSellers.Set(float64(active))
	u := identity.NewUsage(used, uc.cfg.RangeMin, uc.cfg.RangeMax)
	return &dto.SellerOverviewResponse{
		Active:    active,
		MaxActive: uc.cfg.MaxActive,
		Remaining: capacity.Remaining(active, uc.cfg.MaxActive),
		Pool: dto.PoolUsageResponse{
			Min:       u.Min,
			Max:       u.Max,
			Total:     u.Total,
			Used:      u.Used,
			Free:      u.Free,
			Exhausted: u.Exhausted,
		},
	}, nil
}

func (uc *UseCase) record(action string, err error, changed bool) {
	result := "noop"
	switch {
	case err != nil && isDenied(err):
		result = "denied"
	case err != nil:
		result = "error"
	case changed:
		result = "changed"
	}
	metrics.StatusChangesTotal.WithLabelValues(action, result).Inc()
}

func isDenied(err error) bool {
	return errors.Is(err, domain.ErrCapacityExceeded)
}

func statusResponse(publicID int, active, changed bool) *dto.SellerStatusResponse {
	msg := "Verkäufer Status deaktiviert"
	if active {
		msg = "Verkäufer Status aktiviert"
	}
	return &dto.SellerStatusResponse{PublicID: publicID, Active: active, Changed: changed, Message: msg}
}
