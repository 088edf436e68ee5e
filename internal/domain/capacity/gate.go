// Package capacity decide si una activación más cabe bajo el máximo de vendedores activos.
package capacity

import "fmt"

// DefaultMaxActive máximo de vendedores activos si no se configura otro valor.
const DefaultMaxActive = 200

// Decision resultado de TryActivate.
type Decision struct {
	Allowed bool
	Reason  string
}

// TryActivate permite la activación sólo si tras ella el total sigue <= max.
// currentActive debe haberse leído en la misma transacción que aplicará el cambio.
func TryActivate(currentActive, max int) Decision {
	if max <= 0 {
		return Decision{Reason: "no se permiten vendedores activos"}
	}
	if currentActive >= max {
		return Decision{Reason: fmt.Sprintf("%d de %d vendedores activos", currentActive, max)}
	}
	return Decision{Allowed: true}
}

// Remaining plazas libres (nunca negativo).
func Remaining(currentActive, max int) int {
	if currentActive >= max {
		return 0
	}
	return max - currentActive
}
