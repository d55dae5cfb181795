package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/api/http/handlers"
	"github.com/Ometeor-Zheero-OMZ/Ataria/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Auth   *handlers.AuthHandler
	Todos  *handlers.TodosHandler
	Gate   *auth.Gate
}

// RegisterRoutes wires HTTP routes. Everything under /api passes the gate;
// the auth endpoints are let through by its exemption list.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api", cfg.Gate.Handle)

	authGroup := api.Group("/auth")
	authGroup.Post("/guest_login", cfg.Auth.GuestLogin)
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/current_user", cfg.Auth.CurrentUser)

	api.Get("/todos", cfg.Todos.List)
	api.Post("/todo", cfg.Todos.Create)
	api.Put("/todo", cfg.Todos.Update)
	api.Delete("/todo", cfg.Todos.Delete)
	api.Put("/todo/change-status", cfg.Todos.ChangeStatus)
}
