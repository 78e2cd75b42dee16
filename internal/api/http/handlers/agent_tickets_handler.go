package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// AgentTicketsHandler serves the work-queue endpoints used by agents.
type AgentTicketsHandler struct {
	lifecycle *service.LifecycleService
}

// NewAgentTicketsHandler constructs handler.
func NewAgentTicketsHandler(lifecycle *service.LifecycleService) *AgentTicketsHandler {
	return &AgentTicketsHandler{lifecycle: lifecycle}
}

// ListUnassigned GET /agent/tickets/unassigned.
func (h *AgentTicketsHandler) ListUnassigned(c *fiber.Ctx) error {
	tickets, err := h.lifecycle.ListUnassigned(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// ListMine GET /agent/tickets.
func (h *AgentTicketsHandler) ListMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	tickets, err := h.lifecycle.ListAssignedToAgent(c.Context(), principal.Login())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponses(tickets)})
}

// CountMine GET /agent/tickets/count.
func (h *AgentTicketsHandler) CountMine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	count, err := h.lifecycle.CountAssignedToAgent(c.Context(), principal.Login())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"count": count}})
}

// GetTicket GET /agent/tickets/:id.
func (h *AgentTicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.lifecycle.GetAssignedTicket(c.Context(), principal.Login(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// SelfAssign POST /agent/tickets/:id/assign.
func (h *AgentTicketsHandler) SelfAssign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.lifecycle.SelfAssign(c.Context(), principal.Login(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// SendMessage POST /agent/tickets/:id/messages.
func (h *AgentTicketsHandler) SendMessage(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.AgentMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	msg, err := h.lifecycle.SendAgentMessage(c.Context(), principal.Login(), c.Params("id"), req.Content, req.NewStatus)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": messageResponse(msg)})
}

// ListMessages GET /agent/tickets/:id/messages.
func (h *AgentTicketsHandler) ListMessages(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("user required")
	}
	msgs, err := h.lifecycle.ListMessagesAsAgent(c.Context(), principal.Login(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": messageResponses(msgs)})
}
