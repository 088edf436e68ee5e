package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/basar-api/internal/application/auth"
	"github.com/jhoicas/basar-api/internal/application/ports"
	"github.com/jhoicas/basar-api/internal/application/registration"
	"github.com/jhoicas/basar-api/internal/application/sellerstatus"
	"github.com/jhoicas/basar-api/internal/application/settings"
	"github.com/jhoicas/basar-api/internal/domain/repository"
	"github.com/jhoicas/basar-api/internal/infrastructure/cache"
	"github.com/jhoicas/basar-api/internal/infrastructure/mail"
	"github.com/jhoicas/basar-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/basar-api/internal/interfaces/http"
	"github.com/jhoicas/basar-api/pkg/config"
	"github.com/jhoicas/basar-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Int("seller_id_min", cfg.Sellers.IDMin).
		Int("seller_id_max", cfg.Sellers.IDMax).
		Int("max_active", cfg.Sellers.MaxActive).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}
	if cfg.Admin.PasswordHash == "" {
		log.Warn().Msg("ADMIN_PASSWORD_HASH vacío: el panel de administración queda deshabilitado")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, log.Component("postgres")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	healthChecks := map[string]httpRouter.HealthCheck{
		"database": pool.Ping,
	}

	sellerRepo := postgres.NewSellerRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	var settingsRepo repository.SettingsRepository = postgres.NewSettingsRepository(pool)
	if cfg.Redis.Addr != "" {
		rdb, err := cache.Connect(ctx, cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			// Sin caché se sigue funcionando contra la DB.
			log.Warn().Err(err).Msg("Redis no disponible, settings sin caché")
		} else {
			defer rdb.Close()
			settingsRepo = cache.NewSettingsCache(settingsRepo, rdb, cfg.Redis.TTL, log.Component("cache"))
			healthChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
	}

	var notifier ports.Notifier
	if cfg.Mail.Enabled() {
		notifier = mail.NewNotifier(mail.Config{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			User:     cfg.Mail.User,
			Password: cfg.Mail.Password,
			From:     cfg.Mail.From,
		})
	} else {
		log.Warn().Msg("SMTP_HOST vacío: no se enviarán correos de registro")
	}

	clock := ports.SystemClock{}
	settingsUC := settings.NewUseCase(settingsRepo, clock)

	registrationUC, err := registration.NewUseCase(txRunner, sellerRepo, settingsUC, notifier, clock,
		registration.Config{
			RangeMin:    cfg.Sellers.IDMin,
			RangeMax:    cfg.Sellers.IDMax,
			MaxAttempts: cfg.Sellers.AllocationRetries,
		}, log.Component("registration"))
	if err != nil {
		log.Fatal().Err(err).Msg("configuración de registro")
	}

	sellerStatusUC := sellerstatus.NewUseCase(txRunner, sellerRepo, sellerstatus.Config{
		MaxActive: cfg.Sellers.MaxActive,
		RangeMin:  cfg.Sellers.IDMin,
		RangeMax:  cfg.Sellers.IDMax,
	}, log.Component("sellerstatus"))

	authUC := auth.NewAuthUseCase(
		auth.AdminConfig{Username: cfg.Admin.User, PasswordHash: cfg.Admin.PasswordHash},
		auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		},
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Basar API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:        cfg.App.Name,
		RegistrationUC: registrationUC,
		SellerStatusUC: sellerStatusUC,
		SettingsUC:     settingsUC,
		AuthUC:         authUC,
		JWTSecret:      cfg.JWT.Secret,
		HealthChecks:   healthChecks,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := registrationUC.WaitNotifications(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("correos de registro pendientes sin enviar")
	}

	log.Info().Msg("aplicación detenida")
}
