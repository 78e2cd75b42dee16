package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// AdminTicketsHandler serves the oversight endpoints used by administrators.
type AdminTicketsHandler struct {
	lifecycle *service.LifecycleService
	auth      *service.AuthService
}

// NewAdminTicketsHandler constructs handler.
func NewAdminTicketsHandler(lifecycle *service.LifecycleService, authService *service.AuthService) *AdminTicketsHandler {
	return &AdminTicketsHandler{lifecycle: lifecycle, auth: authService}
}

// ListUnassigned GET /admin/tickets/unassigned.
func (h *AdminTicketsHandler) ListUnassigned(c *fiber.Ctx) error {
	tickets, err := h.lifecycle.ListUnassigned(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// ListAssigned GET /admin/tickets/assigned.
func (h *AdminTicketsHandler) ListAssigned(c *fiber.Ctx) error {
	tickets, err := h.lifecycle.ListAssigned(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// CountAssigned GET /admin/tickets/assigned/count.
func (h *AdminTicketsHandler) CountAssigned(c *fiber.Ctx) error {
	count, err := h.lifecycle.CountAssigned(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"count": count}})
}

// Assign POST /admin/tickets/:id/assign.
func (h *AdminTicketsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AgentID == "" {
		return apperrors.NewValidationError("agent_id required", nil)
	}

	ticket, err := h.lifecycle.AdminAssign(c.Context(), principal.Login(), c.Params("id"), req.AgentID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// CreateAgent POST /admin/agents.
func (h *AdminTicketsHandler) CreateAgent(c *fiber.Ctx) error {
	var req dto.CreateAgentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	agent, err := h.auth.CreateAgent(c.Context(), req.Login, req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": agentResponse(agent)})
}
