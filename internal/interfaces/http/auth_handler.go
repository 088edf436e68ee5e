package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/basar-api/internal/application/auth"
	"github.com/jhoicas/basar-api/internal/application/dto"
)

// AuthHandler login del administrador.
type AuthHandler struct {
	uc       *auth.AuthUseCase
	validate *requestValidator
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc, validate: newRequestValidator()}
}

// Login godoc
// @Summary      Iniciar sesión (admin)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Validate(in); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.uc.Login(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
