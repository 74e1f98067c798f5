// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"stagex/internal/config"
	"stagex/internal/handlers"
	"stagex/internal/middleware"
	"stagex/internal/models"
	"stagex/internal/repositories"
	"stagex/internal/services/auth"
	"stagex/internal/services/checkin"
	"stagex/internal/services/credit"
	"stagex/internal/services/loyalty"
	"stagex/internal/services/marketplace"
	"stagex/internal/services/payment"
	"stagex/internal/services/ticket"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(repositories.DB, repositories.CacheService)
	ticketRepo := repositories.NewTicketRepository(repositories.DB)
	creditRepo := repositories.NewCreditRepository(repositories.DB)
	checkInRepo := repositories.NewCheckInRepository(repositories.DB)
	achievementRepo := repositories.NewAchievementRepository(repositories.DB)
	eventRepo := repositories.NewEventRepository(repositories.DB)
	redemptionRepo := repositories.NewRedemptionRepository(repositories.DB)

	// Initialize services in dependency order
	authService := auth.NewService(userRepo)

	signingSecret := config.GetEnv("TICKET_SIGNING_SECRET", "dev-signing-secret")
	ticketService := ticket.NewService(ticketRepo, payment.NewStripeRefundNotifier(), ticket.Config{
		SigningSecret:       signingSecret,
		DefaultMaxTransfers: config.GetIntEnv("TICKET_MAX_TRANSFERS", 1),
	})

	creditService := credit.NewService(creditRepo, repositories.CacheService)

	loyaltyService := loyalty.NewService(
		creditRepo,
		achievementRepo,
		checkInRepo,
		creditService,
		repositories.CacheService,
		loyalty.Config{SigningSecret: signingSecret},
	)

	checkInService := checkin.NewService(checkInRepo, eventRepo, creditService, loyaltyService)

	marketplaceService := marketplace.NewService(redemptionRepo, creditService, repositories.CacheService)

	paymentService := payment.NewService(ticketService, payment.Config{
		WebhookSecret: config.GetEnv("STRIPE_WEBHOOK_SECRET", ""),
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	passportHandler := handlers.NewPassportHandler(loyaltyService, checkInService)
	creditHandler := handlers.NewCreditHandler(creditService)
	marketplaceHandler := handlers.NewMarketplaceHandler(marketplaceService)
	webhookHandler := handlers.NewWebhookHandler(paymentService)

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/register", authHandler.RegisterUser)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)
	api.Post("/webhooks/stripe", webhookHandler.StripeWebhook)

	app.Get("/health", handlers.HealthCheck)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to StageX API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	// Protected routes with auth middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.LogoutUser)
	protected.Post("/change-password", middleware.HasPermission(models.PermissionChangePassword), authHandler.ChangePassword)

	setupTicketRoutes(protected, ticketHandler)
	setupPassportRoutes(protected, passportHandler)
	setupCreditRoutes(protected, creditHandler)
	setupMarketplaceRoutes(protected, marketplaceHandler)
}

func setupTicketRoutes(router fiber.Router, h *handlers.TicketHandler) {
	tickets := router.Group("/tickets")
	tickets.Get("/", middleware.HasPermission(models.PermissionTicketRead), h.ListMyTickets)
	// Scanning is a staff operation at the gate.
	tickets.Post("/scan", middleware.RequireRole("staff"), middleware.HasPermission(models.PermissionTicketScan), h.ScanTicket)
	tickets.Get("/:id", middleware.HasPermission(models.PermissionTicketRead), h.GetTicket)
	tickets.Post("/:id/transfer", middleware.HasPermission(models.PermissionTicketTransfer), h.TransferTicket)
	tickets.Post("/:id/refund", middleware.AdminAuthMiddleware, h.RefundTicket)
}

func setupPassportRoutes(router fiber.Router, h *handlers.PassportHandler) {
	passport := router.Group("/passport")
	passport.Get("/", middleware.HasPermission(models.PermissionPassportRead), h.GetPassport)
	passport.Post("/qr/rotate", middleware.HasPermission(models.PermissionPassportRead), h.RotateQR)
	passport.Post("/checkin", middleware.HasPermission(models.PermissionPassportCheckIn), h.CheckIn)
	passport.Get("/checkins", middleware.HasPermission(models.PermissionPassportRead), h.ListCheckIns)

	router.Get("/achievements", middleware.HasPermission(models.PermissionPassportRead), h.ListAchievements)
}

func setupCreditRoutes(router fiber.Router, h *handlers.CreditHandler) {
	credits := router.Group("/credits", middleware.HasPermission(models.PermissionCreditsRead))
	credits.Get("/balance", h.GetBalance)
	credits.Get("/history", h.GetHistory)
}

func setupMarketplaceRoutes(router fiber.Router, h *handlers.MarketplaceHandler) {
	marketplace := router.Group("/marketplace")
	marketplace.Get("/offers", h.ListOffers)
	marketplace.Post("/offers/:id/claim", middleware.HasPermission(models.PermissionMarketplaceClaim), h.ClaimOffer)
	marketplace.Get("/claims", h.ListClaims)
}
