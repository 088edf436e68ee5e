// Package identity asigna el número público de vendedor (Verkäufer-ID) dentro de un rango cerrado.
package identity

import (
	"fmt"

	"github.com/jhoicas/basar-api/internal/domain"
)

// Rango por defecto de números de vendedor.
const (
	DefaultRangeMin = 1000
	DefaultRangeMax = 9999
)

// PoolExhaustedError no queda hueco en [Min, Max]. errors.Is(err, domain.ErrPoolExhausted) es true.
type PoolExhaustedError struct {
	Min int
	Max int
}

func (e *PoolExhaustedError) Error() string {
	return fmt.Sprintf("%s: %d-%d", domain.ErrPoolExhausted.Error(), e.Min, e.Max)
}

func (e *PoolExhaustedError) Unwrap() error { return domain.ErrPoolExhausted }

// ValidateRange comprueba que el rango sea utilizable.
func ValidateRange(min, max int) error {
	if min < 0 || min > max {
		return fmt.Errorf("%w: rango de identificadores [%d, %d]", domain.ErrInvalidInput, min, max)
	}
	return nil
}

// Allocate devuelve el menor identificador de [min, max] que no está en used.
// Política "menor hueco libre": empaqueta el rango y hace el agotamiento determinista.
// Debe llamarse dentro de la misma transacción que persiste el identificador elegido.
func Allocate(used map[int]struct{}, min, max int) (int, error) {
	if err := ValidateRange(min, max); err != nil {
		return 0, err
	}
	for id := min; id <= max; id++ {
		if _, taken := used[id]; !taken {
			return id, nil
		}
	}
	return 0, &PoolExhaustedError{Min: min, Max: max}
}

// UsedSet construye el conjunto a partir de la lectura del repositorio.
func UsedSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Usage ocupación del rango (para el aviso del panel de administración).
type Usage struct {
	Min       int
	Max       int
	Total     int
	Used      int
	Free      int
	Exhausted bool
}

// NewUsage calcula la ocupación a partir del número de identificadores usados dentro del rango.
func NewUsage(used, min, max int) Usage {
	total := max - min + 1
	if total < 0 {
		total = 0
	}
	if used > total {
		used = total
	}
	return Usage{
		Min:       min,
		Max:       max,
		Total:     total,
		Used:      used,
		Free:      total - used,
		Exhausted: used >= total,
	}
}
