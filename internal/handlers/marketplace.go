package handlers

import (
	"errors"
	"strconv"

	appErrors "stagex/internal/errors"
	"stagex/internal/services/marketplace"
	"stagex/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type MarketplaceHandler struct {
	marketplaceService marketplace.Service
}

func NewMarketplaceHandler(marketplaceService marketplace.Service) *MarketplaceHandler {
	return &MarketplaceHandler{
		marketplaceService: marketplaceService,
	}
}

// ListOffers returns active offers, optionally filtered by category.
func (h *MarketplaceHandler) ListOffers(c *fiber.Ctx) error {
	category := c.Query("category")

	offers, err := h.marketplaceService.ListOffers(c.Context(), category)
	if err != nil {
		return utils.InternalError(c, "Failed to list offers")
	}

	return utils.Success(c, fiber.Map{
		"offers": offers,
	})
}

// ClaimOffer spends credits for an offer atomically with its inventory.
func (h *MarketplaceHandler) ClaimOffer(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	offerID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid offer ID")
	}

	result, err := h.marketplaceService.Claim(c.Context(), claims.UserID, uint(offerID))
	if err != nil {
		switch {
		case errors.Is(err, marketplace.ErrOfferNotFound):
			return utils.NotFound(c, "Offer not found")
		case errors.Is(err, appErrors.ErrOutOfStock):
			return utils.Respond(c, fiber.StatusConflict, fiber.Map{
				"error": appErrors.ErrOutOfStock.Message,
				"code":  appErrors.ErrOutOfStock.Code,
			})
		case errors.Is(err, appErrors.ErrInsufficientCredits):
			return utils.Respond(c, fiber.StatusPaymentRequired, fiber.Map{
				"error": appErrors.ErrInsufficientCredits.Message,
				"code":  appErrors.ErrInsufficientCredits.Code,
			})
		}
		return utils.InternalError(c, "Failed to claim offer")
	}

	return utils.Success(c, fiber.Map{
		"claim": result,
	})
}

// ListClaims returns the caller's claim history.
func (h *MarketplaceHandler) ListClaims(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	history, err := h.marketplaceService.ClaimHistory(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to list claims")
	}

	return utils.Success(c, fiber.Map{
		"claims": history,
	})
}
