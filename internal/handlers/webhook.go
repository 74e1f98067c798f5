package handlers

import (
	"errors"
	"log"

	"stagex/internal/services/payment"
	"stagex/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WebhookHandler struct {
	paymentService payment.Service
}

func NewWebhookHandler(paymentService payment.Service) *WebhookHandler {
	return &WebhookHandler{
		paymentService: paymentService,
	}
}

// StripeWebhook receives payment collaborator events. Signature failures are
// 400 so Stripe retries with a correct signature configuration; handler
// failures are 500 so delivery is retried.
func (h *WebhookHandler) StripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	sigHeader := c.Get("Stripe-Signature")

	result, err := h.paymentService.HandleWebhook(c.Context(), payload, sigHeader)
	if err != nil {
		if errors.Is(err, payment.ErrBadSignature) {
			return utils.BadRequest(c, "Invalid webhook signature")
		}
		if errors.Is(err, payment.ErrBadMetadata) {
			// Malformed metadata will never succeed on retry.
			log.Printf("stripe webhook with bad metadata: %v", err)
			return utils.BadRequest(c, "Incomplete payment metadata")
		}
		log.Printf("stripe webhook processing failed: %v", err)
		return utils.InternalError(c, "Webhook processing failed")
	}

	return utils.Success(c, fiber.Map{
		"received": true,
		"handled":  result.Handled,
	})
}
