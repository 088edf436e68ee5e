package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/basar-api/internal/application/auth"
	"github.com/jhoicas/basar-api/internal/application/registration"
	"github.com/jhoicas/basar-api/internal/application/sellerstatus"
	"github.com/jhoicas/basar-api/internal/application/settings"
)

// HealthCheck comprobación de una dependencia (DB, Redis) para /health.
type HealthCheck func(ctx context.Context) error

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName        string
	RegistrationUC *registration.UseCase
	SellerStatusUC *sellerstatus.UseCase
	SettingsUC     *settings.UseCase
	AuthUC         *auth.AuthUseCase
	JWTSecret      string
	HealthChecks   map[string]HealthCheck
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps.AppName, deps.HealthChecks))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	registrationHandler := NewRegistrationHandler(deps.RegistrationUC, deps.SettingsUC)
	sellerHandler := NewSellerHandler(deps.SellerStatusUC, deps.AuthUC)
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	authHandler := NewAuthHandler(deps.AuthUC)

	// Público
	api.Post("/register", registrationHandler.Register)
	api.Get("/registration/status", registrationHandler.Status)
	api.Put("/sellers/status", sellerHandler.SetStatus)

	// Auth (público)
	api.Post("/auth/login", authHandler.Login)

	// Admin (Bearer Token + rol admin)
	admin := api.Group("/admin", AuthMiddleware(deps.JWTSecret), RequireRole(auth.RoleAdmin))

	sellers := admin.Group("/sellers")
	sellers.Get("/overview", sellerHandler.Overview)
	sellers.Post("/reset-status/request", sellerHandler.RequestReset)
	sellers.Post("/reset-status/confirm", sellerHandler.ConfirmReset)
	sellers.Get("/:public_id/in-use", registrationHandler.PublicIDInUse)
	sellers.Post("/:public_id/activate", sellerHandler.Activate)
	sellers.Post("/:public_id/deactivate", sellerHandler.Deactivate)
	sellers.Post("/:public_id/toggle", sellerHandler.Toggle)
	sellers.Post("/:public_id/toggle-role", sellerHandler.ToggleRole)

	admin.Get("/settings", settingsHandler.Get)
	admin.Put("/settings", settingsHandler.Update)
}

func healthHandler(service string, checks map[string]HealthCheck) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		status := fiber.StatusOK
		deps := fiber.Map{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = fiber.StatusServiceUnavailable
				deps[name] = fiber.Map{"status": "unhealthy", "error": err.Error()}
				continue
			}
			deps[name] = fiber.Map{"status": "ok"}
		}
		overall := "ok"
		if status != fiber.StatusOK {
			overall = "degraded"
		}
		return c.Status(status).JSON(fiber.Map{"status": overall, "service": service, "dependencies": deps})
	}
}
