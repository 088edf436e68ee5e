package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/basar-api/internal/domain"
)

// Window par (inicio, fin) con nombre. Los límites se guardan como texto local.
type Window struct {
	Name  string
	Start string
	End   string
}

// Configured es false si falta algún límite; una ventana sin configurar está siempre abierta.
func (w Window) Configured() bool {
	return strings.TrimSpace(w.Start) != "" && strings.TrimSpace(w.End) != ""
}

// Bounds devuelve los límites como instantes absolutos en la zona z.
func (z Zone) Bounds(w Window) (start, end time.Time, err error) {
	start, err = z.Parse(w.Start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%s inicio: %w", w.Name, err)
	}
	end, err = z.Parse(w.End)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%s fin: %w", w.Name, err)
	}
	return start, end, nil
}

// Validate comprueba que cada límite presente sea legible y que inicio <= fin.
// Se usa al guardar configuración; IsOpen no devuelve errores.
func (z Zone) Validate(w Window) error {
	for _, v := range []string{w.Start, w.End} {
		if strings.TrimSpace(v) == "" {
			continue
		}
		if _, err := z.Parse(v); err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, w.Name, err)
		}
	}
	if !w.Configured() {
		return nil
	}
	start, end, err := z.Bounds(w)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if start.After(end) {
		return fmt.Errorf("%w: %s: inicio posterior al fin", domain.ErrInvalidInput, w.Name)
	}
	return nil
}

// IsOpen true si start <= now <= end (límites inclusivos). Sin configurar: abierta.
// Un límite ilegible cierra la ventana.
func (z Zone) IsOpen(w Window, now time.Time) bool {
	if !w.Configured() {
		return true
	}
	start, end, err := z.Bounds(w)
	if err != nil {
		return false
	}
	return !now.Before(start) && !now.After(end)
}

// IsOpen evalúa la ventana en hora de Europa Central.
func IsOpen(w Window, now time.Time) bool {
	return CentralEuropean.IsOpen(w, now)
}
