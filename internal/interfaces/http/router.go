package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	appanalytics "github.com/jhoicas/crm-sync/internal/application/analytics"
	"github.com/jhoicas/crm-sync/internal/application/auth"
	"github.com/jhoicas/crm-sync/internal/application/usecase"
	"github.com/jhoicas/crm-sync/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	LeadUC         *usecase.LeadUseCase
	ManufacturerUC *usecase.ManufacturerUseCase
	OrderUC        *usecase.OrderUseCase
	TaskUC         *usecase.TaskUseCase
	DashboardUC    *appanalytics.DashboardUseCase
	Mirror         backfiller // nil = sin rutas de administración del mirror
	JWTSecret      string
	Session        SessionConfig
	Log            zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público salvo /me)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Session)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/me", AuthMiddleware(deps.JWTSecret), authHandler.Me)

	// Rutas protegidas (Bearer Token o cookie de sesión)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	leads := protected.Group("/leads")
	leadHandler := NewLeadHandler(deps.LeadUC)
	leads.Get("/", leadHandler.List)
	leads.Post("/", leadHandler.Create)
	leads.Get("/:id", leadHandler.GetByID)
	leads.Patch("/:id", leadHandler.Update)

	manufacturers := protected.Group("/manufacturers")
	manufacturerHandler := NewManufacturerHandler(deps.ManufacturerUC)
	manufacturers.Get("/", manufacturerHandler.List)
	manufacturers.Post("/", RequireRole(entity.RoleAdmin), manufacturerHandler.Create)
	manufacturers.Get("/:id", manufacturerHandler.GetByID)

	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Get("/", orderHandler.List)
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Patch("/:id", orderHandler.Update)

	tasks := protected.Group("/tasks")
	taskHandler := NewTaskHandler(deps.TaskUC)
	tasks.Get("/", taskHandler.List)
	tasks.Post("/", taskHandler.Create)
	tasks.Get("/:id", taskHandler.GetByID)
	tasks.Patch("/:id", taskHandler.Update)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.GetSummary)

	if deps.Mirror != nil {
		admin := protected.Group("/admin", RequireRole(entity.RoleAdmin))
		mirrorHandler := NewMirrorHandler(deps.Mirror, deps.Log)
		admin.Post("/mirror/backfill", mirrorHandler.Backfill)
	}
}
