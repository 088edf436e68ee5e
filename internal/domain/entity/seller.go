package entity

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Roles válidos para Seller.
const (
	RoleSeller   = "seller"
	RoleEmployee = "employee"
)

// Seller representa a un registrado del basar (vendedor o ayudante/empleado).
// PublicID es el número visible (Verkäufer-ID); ID es la clave interna de persistencia.
type Seller struct {
	ID        string
	PublicID  int
	Email     string
	FirstName string
	LastName  string
	Role      string // seller, employee
	Active    bool   // participa en el basar actual; limitado por MAX_ACTIVE
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsEmployee indica si el registro tiene rol de empleado/ayudante.
func (s *Seller) IsEmployee() bool {
	return s.Role == RoleEmployee
}

// ValidRole valida el rol recibido desde la frontera HTTP.
func ValidRole(role string) bool {
	return role == RoleSeller || role == RoleEmployee
}

// NormalizeEmail forma canónica para la unicidad sin distinguir mayúsculas (case folding Unicode).
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}
