package handlers

import (
	"stagex/internal/services/credit"
	"stagex/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CreditHandler struct {
	creditService credit.Service
}

func NewCreditHandler(creditService credit.Service) *CreditHandler {
	return &CreditHandler{
		creditService: creditService,
	}
}

// GetBalance sums the caller's ledger.
func (h *CreditHandler) GetBalance(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	balance, err := h.creditService.BalanceOf(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to get balance")
	}

	return utils.Success(c, fiber.Map{
		"balance": balance,
	})
}

// GetHistory returns the caller's ledger entries newest first.
func (h *CreditHandler) GetHistory(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	pagination := utils.GetPagination(c, 1, 20)

	history, err := h.creditService.History(c.Context(), claims.UserID, pagination.Limit, pagination.Offset)
	if err != nil {
		return utils.InternalError(c, "Failed to get credit history")
	}

	return utils.Success(c, fiber.Map{
		"transactions": history,
		"page":         pagination.Page,
		"limit":        pagination.Limit,
	})
}
