package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/basar-api/internal/application/settings"
)

// SettingsHandler edición de ventanas de tiempo por el admin.
type SettingsHandler struct {
	uc *settings.UseCase
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(uc *settings.UseCase) *SettingsHandler {
	return &SettingsHandler{uc: uc}
}

// Get godoc
// @Summary      Valores guardados y estado de cada ventana
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.SettingsResponse
// @Security     BearerAuth
// @Router       /api/admin/settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Guardar límites de ventana (hora local, "2006-01-02T15:04"); vacío borra
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  map[string]string  true  "clave → valor"
// @Success      200  {object}  dto.SettingsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /api/admin/settings [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var in map[string]string
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
