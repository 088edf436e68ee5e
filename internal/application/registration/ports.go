package registration

import (
	"context"

	"github.com/jhoicas/basar-api/internal/domain/schedule"
)

// WindowSource entrega la ventana de tiempo configurada por nombre.
// Lo implementa *settings.UseCase.
type WindowSource interface {
	Window(ctx context.Context, name string) (schedule.Window, error)
}
