package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/basar-api/internal/application/dto"
	"github.com/jhoicas/basar-api/internal/application/registration"
	"github.com/jhoicas/basar-api/internal/application/settings"
)

// RegistrationHandler registro público y estado de las ventanas.
type RegistrationHandler struct {
	uc       *registration.UseCase
	settings *settings.UseCase
	validate *requestValidator
}

// NewRegistrationHandler construye el handler.
func NewRegistrationHandler(uc *registration.UseCase, settingsUC *settings.UseCase) *RegistrationHandler {
	return &RegistrationHandler{uc: uc, settings: settingsUC, validate: newRequestValidator()}
}

// Register godoc
// @Summary      Registrar vendedor o empleado
// @Tags         registration
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterSellerRequest  true  "email, first_name, last_name, role"
// @Success      201   {object}  dto.RegisterSellerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse  "WINDOW_CLOSED"
// @Failure      409   {object}  dto.ErrorResponse  "DUPLICATE_IDENTITY | POOL_EXHAUSTED"
// @Failure      503   {object}  dto.ErrorResponse  "TRY_AGAIN"
// @Router       /api/register [post]
func (h *RegistrationHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterSellerRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.validate.Validate(in); err != nil {
		return validationFailed(c, err)
	}
	out, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Status godoc
// @Summary      Ventanas de registro abiertas ahora
// @Tags         registration
// @Produce      json
// @Success      200  {object}  dto.RegistrationStatusResponse
// @Router       /api/registration/status [get]
func (h *RegistrationHandler) Status(c *fiber.Ctx) error {
	out, err := h.settings.RegistrationStatus(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PublicIDInUse godoc
// @Summary      Indica si un número de vendedor ya está asignado
// @Tags         admin
// @Produce      json
// @Param        public_id  path  int  true  "número de vendedor"
// @Success      200  {object}  map[string]interface{}
// @Security     BearerAuth
// @Router       /api/admin/sellers/{public_id}/in-use [get]
func (h *RegistrationHandler) PublicIDInUse(c *fiber.Ctx) error {
	id, err := publicIDParam(c)
	if err != nil {
		return respondError(c, err)
	}
	inUse, err := h.uc.IsPublicIDInUse(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"public_id": id, "in_use": inUse})
}
