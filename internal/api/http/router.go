package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/api/http/handlers"
	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Metrics        *handlers.MetricsHandler
	Auth           *handlers.AuthHandler
	Me             *handlers.MeHandler
	Tickets        *handlers.TicketsHandler
	Admin          *handlers.AdminHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Role gates here only reject early; the
// services enforce every rule again.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Get)

	authGroup := app.Group("/auth")
	authGroup.Post("/students/register", cfg.Auth.RegisterStudent)
	authGroup.Post("/students/login", cfg.Auth.StudentLogin)
	authGroup.Post("/staff/login", cfg.Auth.StaffLogin)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/me", cfg.Me.Get)
	protected.Patch("/me", cfg.Me.Update)

	tickets := protected.Group("/tickets")
	tickets.Get("/", cfg.Tickets.List)
	tickets.Post("/", auth.RequireStudent(), cfg.Tickets.Create)
	tickets.Get("/stats", cfg.Tickets.Stats)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Delete("/:id", auth.RequireCapability(auth.DeleteTickets, "your role cannot delete tickets"), cfg.Tickets.Delete)
	tickets.Get("/:id/report", cfg.Tickets.Report)
	tickets.Post("/:id/assign", auth.RequireStaff(), cfg.Tickets.Assign)
	tickets.Post("/:id/transfer", auth.RequireStaff(), cfg.Tickets.Transfer)
	tickets.Post("/:id/status", auth.RequireStaff(), cfg.Tickets.SetStatus)
	tickets.Post("/:id/priority", auth.RequireStaff(), cfg.Tickets.SetPriority)
	tickets.Post("/:id/notes", cfg.Tickets.AddNote)

	admin := protected.Group("/admin", auth.RequireStaff())
	admin.Get("/tickets", auth.RequireCapability(auth.ViewAllTickets, "your role cannot view all tickets"), cfg.Admin.ListTickets)
	admin.Get("/stats", auth.RequireCapability(auth.ViewAllTickets, "your role cannot view all tickets"), cfg.Admin.Stats)
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/users", auth.RequireCapability(auth.ManageUsers, "your role cannot manage users"), cfg.Admin.CreateUser)
	admin.Delete("/users/:id", auth.RequireCapability(auth.ManageUsers, "your role cannot manage users"), cfg.Admin.DeleteUser)
	admin.Put("/users/:id/categories", auth.RequireCapability(auth.AssignCategories, "your role cannot assign categories"), cfg.Admin.UpdateCategories)
}
