package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/basar-api/internal/application/dto"
	"github.com/jhoicas/basar-api/internal/application/ports"
	"github.com/jhoicas/basar-api/internal/domain"
	"github.com/jhoicas/basar-api/internal/domain/entity"
	"github.com/jhoicas/basar-api/internal/domain/repository"
	"github.com/jhoicas/basar-api/internal/domain/schedule"
)

// UseCase lectura y edición de las ventanas de tiempo guardadas en settings.
type UseCase struct {
	repo  repository.SettingsRepository
	zone  schedule.Zone
	clock ports.Clock
}

// NewUseCase construye el caso de uso con la zona civil de Europa Central.
func NewUseCase(repo repository.SettingsRepository, clock ports.Clock) *UseCase {
	return &UseCase{repo: repo, zone: schedule.CentralEuropean, clock: clock}
}

// Window devuelve la ventana indicada. Claves ausentes = límite sin configurar.
func (uc *UseCase) Window(ctx context.Context, name string) (schedule.Window, error) {
	values, err := uc.repo.GetAll(ctx)
	if err != nil {
		return schedule.Window{}, fmt.Errorf("leer settings: %w", err)
	}
	return windowFrom(values, name), nil
}

// Get devuelve todos los valores y el estado actual de cada ventana conocida.
func (uc *UseCase) Get(ctx context.Context) (*dto.SettingsResponse, error) {
	values, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer settings: %w", err)
	}
	return uc.toResponse(values), nil
}

// Update valida y guarda las claves recibidas. Sólo se aceptan claves de ventanas conocidas;
// cada ventana resultante debe ser legible y cumplir inicio <= fin.
func (uc *UseCase) Update(ctx context.Context, in map[string]string) (*dto.SettingsResponse, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: sin cambios", domain.ErrInvalidInput)
	}
	changes := make(map[string]string, len(in))
	for k, v := range in {
		if !isWindowKey(k) {
			return nil, fmt.Errorf("%w: clave desconocida %q", domain.ErrInvalidInput, k)
		}
		changes[k] = strings.TrimSpace(v)
	}

	current, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer settings: %w", err)
	}
	merged := make(map[string]string, len(current)+len(changes))
	for k, v := range current {
		merged[k] = v
	}
	for k, v := range changes {
		if v == "" {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}
	for _, name := range entity.WindowNames {
		if err := uc.zone.Validate(windowFrom(merged, name)); err != nil {
			return nil, err
		}
	}

	if err := uc.repo.Upsert(ctx, changes); err != nil {
		return nil, fmt.Errorf("guardar settings: %w", err)
	}
	return uc.toResponse(merged), nil
}

// RegistrationStatus indica si los registros de vendedor y empleado están abiertos ahora.
func (uc *UseCase) RegistrationStatus(ctx context.Context) (*dto.RegistrationStatusResponse, error) {
	values, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("leer settings: %w", err)
	}
	now := uc.clock.Now()
	return &dto.RegistrationStatusResponse{
		SellerOpen:   uc.zone.IsOpen(windowFrom(values, entity.WindowSellerRegistration), now),
		EmployeeOpen: uc.zone.IsOpen(windowFrom(values, entity.WindowEmployeeRegistration), now),
	}, nil
}

func (uc *UseCase) toResponse(values map[string]string) *dto.SettingsResponse {
	now := uc.clock.Now()
	out := &dto.SettingsResponse{Values: values}
	for _, name := range entity.WindowNames {
		w := windowFrom(values, name)
		out.Windows = append(out.Windows, dto.WindowDTO{
			Name:  name,
			Start: w.Start,
			End:   w.End,
			Open:  uc.zone.IsOpen(w, now),
		})
	}
	return out
}

func windowFrom(values map[string]string, name string) schedule.Window {
	return schedule.Window{
		Name:  name,
		Start: values[entity.StartKey(name)],
		End:   values[entity.EndKey(name)],
	}
}

func isWindowKey(key string) bool {
	for _, name := range entity.WindowNames {
		if key == entity.StartKey(name) || key == entity.EndKey(name) {
			return true
		}
	}
	return false
}
