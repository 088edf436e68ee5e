package http

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/basar-api/internal/application/auth"
	"github.com/jhoicas/basar-api/internal/application/dto"
	"github.com/jhoicas/basar-api/internal/application/sellerstatus"
	"github.com/jhoicas/basar-api/internal/domain"
)

// Reinicio global en dos pasos.
const (
	resetPurpose = "reset-status"
	resetPhrase  = "RESET"
	resetTTL     = 2 * time.Minute
)

// SellerHandler estado activo/inactivo y rol de los vendedores.
type SellerHandler struct {
	uc       *sellerstatus.UseCase
	auth     *auth.AuthUseCase
	validate *requestValidator
}

// NewSellerHandler construye el handler.
func NewSellerHandler(uc *sellerstatus.UseCase, authUC *auth.AuthUseCase) *SellerHandler {
	return &SellerHandler{uc: uc, auth: authUC, validate: newRequestValidator()}
}

// SetStatus godoc
// @Summary      El vendedor activa o desactiva su participación
// @Tags         sellers
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetSellerStatusRequest  true  "public_id, email, active"
// @Success      200   {object}  dto.SellerStatusResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "CAPACITY_EXCEEDED"
// @Router       /api/sellers/status [put]
func (h *SellerHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.SetSellerStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Validate(in); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.uc.SetOwnStatus(c.UserContext(), in.PublicID, in.Email, *in.Active)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Activate godoc
// @Summary      Activar vendedor (respeta el máximo de activos)
// @Tags         admin
// @Produce      json
// @Param        public_id  path  int  true  "número de vendedor"
// @Success      200  {object}  dto.SellerStatusResponse
// @Failure      409  {object}  dto.ErrorResponse  "CAPACITY_EXCEEDED"
// @Security     BearerAuth
// @Router       /api/admin/sellers/{public_id}/activate [post]
func (h *SellerHandler) Activate(c *fiber.Ctx) error {
	return h.withPublicID(c, h.uc.Activate)
}

// Deactivate godoc
// @Summary      Desactivar vendedor
// @Tags         admin
// @Produce      json
// @Param        public_id  path  int  true  "número de vendedor"
// @Success      200  {object}  dto.SellerStatusResponse
// @Security     BearerAuth
// @Router       /api/admin/sellers/{public_id}/deactivate [post]
func (h *SellerHandler) Deactivate(c *fiber.Ctx) error {
	return h.withPublicID(c, h.uc.Deactivate)
}

// Toggle godoc
// @Summary      Invertir el estado del vendedor
// @Tags         admin
// @Produce      json
// @Param        public_id  path  int  true  "número de vendedor"
// @Success      200  {object}  dto.SellerStatusResponse
// @Security     BearerAuth
// @Router       /api/admin/sellers/{public_id}/toggle [post]
func (h *SellerHandler) Toggle(c *fiber.Ctx) error {
	return h.withPublicID(c, h.uc.Toggle)
}

// ToggleRole godoc
// @Summary      Cambiar entre vendedor y empleado
// @Tags         admin
// @Produce      json
// @Param        public_id  path  int  true  "número de vendedor"
// @Success      200  {object}  dto.SellerRoleResponse
// @Security     BearerAuth
// @Router       /api/admin/sellers/{public_id}/toggle-role [post]
func (h *SellerHandler) ToggleRole(c *fiber.Ctx) error {
	id, err := publicIDParam(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ToggleRole(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Overview godoc
// @Summary      Activos, plazas libres y ocupación del rango de números
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.SellerOverviewResponse
// @Security     BearerAuth
// @Router       /api/admin/sellers/overview [get]
func (h *SellerHandler) Overview(c *fiber.Ctx) error {
	out, err := h.uc.Overview(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RequestReset godoc
// @Summary      Paso 1 del reinicio global: token de confirmación
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.ResetConfirmationResponse
// @Security     BearerAuth
// @Router       /api/admin/sellers/reset-status/request [post]
func (h *SellerHandler) RequestReset(c *fiber.Ctx) error {
	token, exp, err := h.auth.IssueConfirmation(GetSubject(c), resetPurpose, resetTTL)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ResetConfirmationResponse{Token: token, Phrase: resetPhrase, ExpiresAt: exp})
}

// ConfirmReset godoc
// @Summary      Paso 2 del reinicio global: pone a todos inactivos
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ResetConfirmRequest  true  "token del paso 1 y frase RESET"
// @Success      200  {object}  dto.ResetStatusResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/sellers/reset-status/confirm [post]
func (h *SellerHandler) ConfirmReset(c *fiber.Ctx) error {
	var in dto.ResetConfirmRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Validate(in); err != nil {
		return validationFailed(c, err)
	}
	if strings.TrimSpace(in.Phrase) != resetPhrase {
		return respondError(c, fmt.Errorf("%w: escriba %s para confirmar", domain.ErrInvalidInput, resetPhrase))
	}
	if err := h.auth.VerifyConfirmation(in.Token, GetSubject(c), resetPurpose); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ResetAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *SellerHandler) withPublicID(c *fiber.Ctx, fn func(ctx context.Context, publicID int) (*dto.SellerStatusResponse, error)) error {
	id, err := publicIDParam(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := fn(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func publicIDParam(c *fiber.Ctx) (int, error) {
	id, err := c.ParamsInt("public_id")
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: public_id inválido", domain.ErrInvalidInput)
	}
	return id, nil
}
