package util

import (
	"errors"
	"fmt"
	"net/http"
)

// Reason codes for caller-facing validation failures.
const (
	CodeTicketNotFound              = "TICKET_NOT_FOUND"
	CodeAgentNotFound               = "AGENT_NOT_FOUND"
	CodeTicketAlreadyAssigned       = "TICKET_ALREADY_ASSIGNED"
	CodeTransitionNotAllowed        = "TRANSITION_NOT_ALLOWED"
	CodeTicketNotOwned              = "TICKET_NOT_OWNED"
	CodeNotClientTurn               = "NOT_CLIENT_TURN"
	CodeNotAgentTurn                = "NOT_AGENT_TURN"
	CodeInvalidTransition           = "INVALID_TRANSITION"
	CodeConcurrentModification      = "CONCURRENT_MODIFICATION"
	CodeTicketNotFoundOrNotOwned    = "TICKET_NOT_FOUND_OR_NOT_OWNED"
	CodeTicketNotFoundOrNotAssigned = "TICKET_NOT_FOUND_OR_NOT_ASSIGNED"
)

// DomainError standardizes application errors: a machine-readable reason
// code, a human message, the HTTP status the API surface should answer with,
// and optional structured details naming the entity involved.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// Lifecycle rejections. All of these leave ticket state unchanged and are
// surfaced to the caller as structured 4xx responses.

func NewTicketNotFound(ticketID string) error {
	return NewDomainError(CodeTicketNotFound, "ticket not found", http.StatusNotFound,
		map[string]any{"entity": "ticket", "ticket_id": ticketID})
}

func NewAgentNotFound(agentID string) error {
	return NewDomainError(CodeAgentNotFound, "agent not found", http.StatusNotFound,
		map[string]any{"entity": "agent", "agent_id": agentID})
}

func NewTicketAlreadyAssigned(ticketID string) error {
	return NewDomainError(CodeTicketAlreadyAssigned, "ticket already assigned or closed", http.StatusConflict,
		map[string]any{"entity": "ticket", "ticket_id": ticketID})
}

func NewTransitionNotAllowed(from, to string) error {
	return NewDomainError(CodeTransitionNotAllowed,
		fmt.Sprintf("transition from %s to %s not allowed", from, to), http.StatusBadRequest,
		map[string]any{"entity": "ticket", "from": from, "to": to})
}

func NewTicketNotOwned(ticketID string) error {
	return NewDomainError(CodeTicketNotOwned, "requester is not the owner of the ticket", http.StatusForbidden,
		map[string]any{"entity": "ticket", "ticket_id": ticketID})
}

func NewNotClientTurn(ticketID string) error {
	return NewDomainError(CodeNotClientTurn, "it is not the client's turn to send a message", http.StatusConflict,
		map[string]any{"entity": "message", "ticket_id": ticketID})
}

func NewNotAgentTurn(ticketID string) error {
	return NewDomainError(CodeNotAgentTurn, "it is not the agent's turn to send a message", http.StatusConflict,
		map[string]any{"entity": "message", "ticket_id": ticketID})
}

func NewInvalidTransition(from, to string) error {
	return NewDomainError(CodeInvalidTransition,
		fmt.Sprintf("transition from %s to %s is not valid", from, to), http.StatusBadRequest,
		map[string]any{"entity": "message", "from": from, "to": to})
}

func NewConcurrentModification(resource, id string) error {
	return NewDomainError(CodeConcurrentModification,
		fmt.Sprintf("%s was modified concurrently, retry", resource), http.StatusConflict,
		map[string]any{"entity": resource, "id": id})
}

func NewTicketNotFoundOrNotOwned(ticketID string) error {
	return NewDomainError(CodeTicketNotFoundOrNotOwned, "ticket not found or not issued by requester", http.StatusNotFound,
		map[string]any{"entity": "ticket", "ticket_id": ticketID})
}

func NewTicketNotFoundOrNotAssigned(ticketID string) error {
	return NewDomainError(CodeTicketNotFoundOrNotAssigned, "ticket not found or not assigned to requester", http.StatusNotFound,
		map[string]any{"entity": "ticket", "ticket_id": ticketID})
}

func NewTicketNotFoundOrAlreadyAssigned(ticketID string) error {
	return NewDomainError(CodeTicketAlreadyAssigned, "ticket not found or already assigned", http.StatusConflict,
		map[string]any{"entity": "ticket", "ticket_id": ticketID})
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// CodeOf returns the reason code carried by err, or empty string.
func CodeOf(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

func MapError(err error) error {
	return ToDomainError(err)
}
