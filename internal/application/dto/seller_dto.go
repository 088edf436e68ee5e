package dto

import "time"

// RegisterSellerRequest entrada del registro público (vendedor o empleado).
type RegisterSellerRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
	Role      string `json:"role" validate:"omitempty,oneof=seller employee"`
}

// RegisterSellerResponse salida del registro. PublicID es el número de vendedor asignado.
type RegisterSellerResponse struct {
	PublicID int    `json:"public_id"`
	Role     string `json:"role"`
	Message  string `json:"message"`
}

// SetSellerStatusRequest cambio de estado desde la página del vendedor.
// El email registrado identifica al vendedor junto con su número.
type SetSellerStatusRequest struct {
	PublicID int    `json:"public_id" validate:"required,min=1"`
	Email    string `json:"email" validate:"required,email"`
	Active   *bool  `json:"active" validate:"required"`
}

// SellerStatusResponse resultado de activar/desactivar. Changed es false si ya estaba en ese estado.
type SellerStatusResponse struct {
	PublicID int    `json:"public_id"`
	Active   bool   `json:"active"`
	Changed  bool   `json:"changed"`
	Message  string `json:"message"`
}

// SellerRoleResponse resultado de cambiar el rol vendedor/empleado.
type SellerRoleResponse struct {
	PublicID int    `json:"public_id"`
	Role     string `json:"role"`
	Message  string `json:"message"`
}

// ResetStatusResponse resultado del reinicio global de estados.
type ResetStatusResponse struct {
	Reset   int64  `json:"reset"`
	Message string `json:"message"`
}

// ResetConfirmationResponse primer paso del reinicio: token de confirmación de corta vida.
type ResetConfirmationResponse struct {
	Token     string    `json:"token"`
	Phrase    string    `json:"phrase"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ResetConfirmRequest segundo paso: token del primer paso y frase escrita por el admin.
type ResetConfirmRequest struct {
	Token  string `json:"token" validate:"required"`
	Phrase string `json:"phrase" validate:"required"`
}

// PoolUsageResponse ocupación del rango de números de vendedor.
type PoolUsageResponse struct {
	Min       int  `json:"min"`
	Max       int  `json:"max"`
	Total     int  `json:"total"`
	Used      int  `json:"used"`
	Free      int  `json:"free"`
	Exhausted bool `json:"exhausted"`
}

// SellerOverviewResponse resumen para el panel de administración.
type SellerOverviewResponse struct {
	Active    int               `json:"active"`
	MaxActive int               `json:"max_active"`
	Remaining int               `json:"remaining"`
	Pool      PoolUsageResponse `json:"pool"`
}
