package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	ClientTickets  *handlers.ClientTicketsHandler
	AgentTickets   *handlers.AgentTicketsHandler
	AdminTickets   *handlers.AdminTicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change",
		cfg.AuthMiddleware.Handle, auth.RequireAuthenticated(), cfg.Auth.ChangePassword)

	client := app.Group("/client", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleClient))
	client.Post("/tickets", cfg.ClientTickets.CreateTicket)
	client.Get("/tickets", cfg.ClientTickets.ListTickets)
	client.Get("/tickets/:id", cfg.ClientTickets.GetTicket)
	client.Post("/tickets/:id/status", cfg.ClientTickets.ChangeStatus)
	client.Post("/tickets/:id/messages", cfg.ClientTickets.SendMessage)
	client.Get("/tickets/:id/messages", cfg.ClientTickets.ListMessages)
	client.Get("/tickets/:id/turn", cfg.ClientTickets.Turn)

	agent := app.Group("/agent", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAgent))
	agent.Get("/tickets/unassigned", cfg.AgentTickets.ListUnassigned)
	agent.Get("/tickets/count", cfg.AgentTickets.CountMine)
	agent.Get("/tickets", cfg.AgentTickets.ListMine)
	agent.Get("/tickets/:id", cfg.AgentTickets.GetTicket)
	agent.Post("/tickets/:id/assign", cfg.AgentTickets.SelfAssign)
	agent.Post("/tickets/:id/messages", cfg.AgentTickets.SendMessage)
	agent.Get("/tickets/:id/messages", cfg.AgentTickets.ListMessages)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin))
	admin.Get("/tickets/unassigned", cfg.AdminTickets.ListUnassigned)
	admin.Get("/tickets/assigned", cfg.AdminTickets.ListAssigned)
	admin.Get("/tickets/assigned/count", cfg.AdminTickets.CountAssigned)
	admin.Post("/tickets/:id/assign", cfg.AdminTickets.Assign)
	admin.Post("/agents", cfg.AdminTickets.CreateAgent)
}
