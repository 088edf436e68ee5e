package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/basar-api/internal/application/dto"
	"github.com/jhoicas/basar-api/internal/domain"
	"github.com/jhoicas/basar-api/internal/domain/entity"
)

// respondError traduce errores de dominio a HTTP. Los mensajes al cliente están en alemán,
// como la interfaz del basar; el detalle interno no se expone.
func respondError(c *fiber.Ctx, err error) error {
	var closed *domain.WindowClosedError
	switch {
	case errors.As(err, &closed):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "WINDOW_CLOSED", Message: windowClosedMessage(closed.Window)})
	case errors.Is(err, domain.ErrWindowClosed):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "WINDOW_CLOSED", Message: "Die Registrierung ist derzeit geschlossen."})
	case errors.Is(err, domain.ErrDuplicateIdentity):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_IDENTITY", Message: "Diese E-Mail Adresse ist bereits registriert"})
	case errors.Is(err, domain.ErrPoolExhausted):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "POOL_EXHAUSTED", Message: "Alle Verkäufernummern sind vergeben."})
	case errors.Is(err, domain.ErrCapacityExceeded):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CAPACITY_EXCEEDED", Message: "Die maximale Anzahl aktiver Verkäufer ist erreicht."})
	case errors.Is(err, domain.ErrAllocationConflict):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "TRY_AGAIN", Message: "Bitte versuchen Sie es später erneut."})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "Verkäufer nicht gefunden"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto con el estado actual"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "Interner Fehler. Bitte versuchen Sie es später erneut."})
	}
}

func windowClosedMessage(window string) string {
	switch window {
	case entity.WindowEmployeeRegistration:
		return "Die Mitarbeiter-Registrierung ist derzeit geschlossen."
	default:
		return "Die Verkäufer-Registrierung ist derzeit geschlossen."
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func validationFailed(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
}
