package dto

// LoginRequest credenciales del administrador.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT del administrador.
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}
