package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	_ "github.com/jhoicas/crm-sync/docs"
	appanalytics "github.com/jhoicas/crm-sync/internal/application/analytics"
	"github.com/jhoicas/crm-sync/internal/application/auth"
	"github.com/jhoicas/crm-sync/internal/application/usecase"
	"github.com/jhoicas/crm-sync/internal/bootstrap"
	httpRouter "github.com/jhoicas/crm-sync/internal/interfaces/http"
	"github.com/jhoicas/crm-sync/pkg/config"
	"github.com/jhoicas/crm-sync/pkg/logger"
)

// @title        CRM Sync API
// @version      1.0
// @description  API del CRM: Primary Store relacional con réplica en Google Sheets.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Bool("mirror", cfg.Sheets.Enabled).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()
	storage, err := bootstrap.Build(ctx, cfg, log.Zerolog(), bootstrap.Options{})
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer storage.Close()

	repo := storage.Repo
	authUC := auth.NewAuthUseCase(repo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "CRM Sync API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": cfg.App.Name,
			"store":   cfg.Store.Driver,
			"mirror":  repo.MirrorEnabled(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(storage.Metrics.Handler()))

	deps := httpRouter.RouterDeps{
		AuthUC:         authUC,
		LeadUC:         usecase.NewLeadUseCase(repo),
		ManufacturerUC: usecase.NewManufacturerUseCase(repo),
		OrderUC:        usecase.NewOrderUseCase(repo),
		TaskUC:         usecase.NewTaskUseCase(repo),
		DashboardUC:    appanalytics.NewDashboardUseCase(repo),
		JWTSecret:      cfg.JWT.Secret,
		Session: httpRouter.SessionConfig{
			TTL:    time.Duration(cfg.JWT.Expiration) * time.Minute,
			Secure: cfg.App.Env != "development",
		},
		Log: log.Component("mirror"),
	}
	if storage.Mirror != nil {
		deps.Mirror = repo
	}
	httpRouter.Router(app, deps)

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

	log.Info().Msg("aplicación detenida")
}
