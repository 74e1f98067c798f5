package handlers

import (
	"errors"

	appErrors "stagex/internal/errors"
	"stagex/internal/services/checkin"
	"stagex/internal/services/loyalty"
	"stagex/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type PassportHandler struct {
	loyaltyService loyalty.Service
	checkInService checkin.Service
}

func NewPassportHandler(loyaltyService loyalty.Service, checkInService checkin.Service) *PassportHandler {
	return &PassportHandler{
		loyaltyService: loyaltyService,
		checkInService: checkInService,
	}
}

// GetPassport returns the caller's profile with the current tier.
func (h *PassportHandler) GetPassport(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	profile, err := h.loyaltyService.Profile(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to load passport")
	}

	return utils.Success(c, fiber.Map{
		"passport": profile,
	})
}

// RotateQR issues a fresh passport token, invalidating the previous one.
func (h *PassportHandler) RotateQR(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	token, err := h.loyaltyService.RotateQR(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to rotate passport token")
	}

	return utils.Success(c, fiber.Map{
		"qr_token": token,
	})
}

// CheckIn records presence at an event and awards its points once.
func (h *PassportHandler) CheckIn(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input checkin.CheckInRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request body")
	}

	result, err := h.checkInService.CheckIn(c.Context(), claims.UserID, input)
	if err != nil {
		var domainErr *appErrors.DomainError
		if errors.As(err, &domainErr) {
			status := fiber.StatusBadRequest
			if domainErr == appErrors.ErrEventNotFound {
				status = fiber.StatusNotFound
			}
			return utils.Respond(c, status, fiber.Map{
				"error": domainErr.Message,
				"code":  domainErr.Code,
			})
		}
		if errors.Is(err, checkin.ErrUnsupportedMethod) {
			return utils.BadRequest(c, "Unsupported check-in method")
		}
		return utils.InternalError(c, "Failed to check in")
	}

	return utils.Success(c, result)
}

// ListCheckIns returns the caller's check-in history.
func (h *PassportHandler) ListCheckIns(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	checkIns, err := h.checkInService.History(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to list check-ins")
	}

	return utils.Success(c, fiber.Map{
		"check_ins": checkIns,
	})
}

// ListAchievements returns the catalog with the caller's unlock state.
func (h *PassportHandler) ListAchievements(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	achievements, err := h.loyaltyService.ListAchievements(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to list achievements")
	}

	return utils.Success(c, fiber.Map{
		"achievements": achievements,
	})
}
