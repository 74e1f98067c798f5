package handlers

import (
	"errors"
	"strconv"

	"stagex/internal/models"
	"stagex/internal/services/ticket"
	"stagex/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type TicketHandler struct {
	ticketService ticket.Service
}

func NewTicketHandler(ticketService ticket.Service) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
	}
}

// ListMyTickets returns the caller's tickets.
func (h *TicketHandler) ListMyTickets(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	tickets, err := h.ticketService.ListForUser(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to list tickets")
	}

	return utils.Success(c, fiber.Map{
		"tickets": tickets,
	})
}

// GetTicket returns one ticket, owner or staff only.
func (h *TicketHandler) GetTicket(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	ticketID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid ticket ID")
	}

	t, err := h.ticketService.GetByID(c.Context(), uint(ticketID))
	if err != nil {
		if errors.Is(err, ticket.ErrNotFound) {
			return utils.NotFound(c, "Ticket not found")
		}
		return utils.InternalError(c, "Failed to get ticket")
	}

	if t.UserID != claims.UserID && claims.Role == "user" {
		return utils.Forbidden(c, "Not your ticket")
	}

	return utils.Success(c, fiber.Map{
		"ticket": t,
	})
}

// ScanTicket consumes a ticket's admission right. Repeat scans and race
// losers come back as already_scanned outcomes, not errors.
func (h *TicketHandler) ScanTicket(c *fiber.Ctx) error {
	var input struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	result, err := h.ticketService.Scan(c.Context(), input.Code)
	if err != nil {
		switch {
		case errors.Is(err, ticket.ErrInvalidFormat):
			return utils.BadRequest(c, "Scan code format is invalid")
		case errors.Is(err, ticket.ErrNotFound):
			return utils.NotFound(c, "No ticket matches this code")
		}
		return utils.InternalError(c, "Failed to scan ticket")
	}

	return utils.Success(c, fiber.Map{
		"outcome":       result.Outcome,
		"ticket_id":     result.Ticket.ID,
		"first_scan_at": result.FirstScanAt,
		"scanned_at":    result.ScannedAt,
	})
}

// TransferTicket records a pending ownership handover.
func (h *TicketHandler) TransferTicket(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	ticketID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid ticket ID")
	}

	var input struct {
		ToEmail string `json:"to_email"`
	}
	if err := c.BodyParser(&input); err != nil || input.ToEmail == "" {
		return utils.BadRequest(c, "Recipient email is required")
	}

	result, err := h.ticketService.Transfer(c.Context(), uint(ticketID), claims.UserID, input.ToEmail)
	if err != nil {
		switch {
		case errors.Is(err, ticket.ErrNotFound):
			return utils.NotFound(c, "Ticket not found")
		case errors.Is(err, ticket.ErrNotOwner):
			return utils.Forbidden(c, "Not your ticket")
		case errors.Is(err, ticket.ErrNotTransferable):
			return utils.BadRequest(c, "Ticket is not transferable")
		case errors.Is(err, ticket.ErrTransferLimitReached):
			return utils.BadRequest(c, "Ticket transfer limit reached")
		}
		return utils.InternalError(c, "Failed to transfer ticket")
	}

	return utils.Success(c, fiber.Map{
		"transfer":       result.Transfer,
		"transfers_left": result.TransfersLeft,
	})
}

// RefundTicket performs the terminal refund transition, admin only.
func (h *TicketHandler) RefundTicket(c *fiber.Ctx) error {
	ticketID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid ticket ID")
	}

	var input struct {
		RefundType string `json:"refund_type"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}
	if input.RefundType == "" {
		input.RefundType = models.RefundTypeFull
	}
	if input.RefundType != models.RefundTypeFull && input.RefundType != models.RefundTypeEventRef {
		return utils.BadRequest(c, "Unknown refund type")
	}

	result, err := h.ticketService.Refund(c.Context(), uint(ticketID), input.RefundType)
	if err != nil {
		switch {
		case errors.Is(err, ticket.ErrNotFound):
			return utils.NotFound(c, "Ticket not found")
		case errors.Is(err, ticket.ErrNotRefundable):
			return utils.BadRequest(c, "Ticket is not in a refundable state")
		}
		return utils.InternalError(c, "Failed to refund ticket")
	}

	return utils.Success(c, fiber.Map{
		"ticket":      result.Ticket,
		"refund_type": result.RefundType,
		"notified":    result.Notified,
	})
}
