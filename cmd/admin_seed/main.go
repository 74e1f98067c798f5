package main

import (
	"log"
	"os"
	"time"

	"stagex/internal/config"
	"stagex/internal/models"
	"stagex/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// Seeds the admin account, the achievement catalog, demo events and a few
// marketplace offers. Safe to run repeatedly: existing rows are left alone.
func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer func() {
		if repositories.DB != nil {
			sqlDB, err := repositories.DB.DB()
			if err != nil {
				log.Printf("⚠️ Failed to get SQL DB instance: %v", err)
			} else if err := sqlDB.Close(); err != nil {
				log.Printf("⚠️ Failed to close PostgreSQL connection: %v", err)
			}
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}
	}()

	seedAdmin(adminEmail, adminPassword)
	seedAchievements()
	seedEvents()
	seedOffers()

	log.Println("✅ Seed completed successfully!")
}

func seedAdmin(email, password string) {
	var existing models.User
	if err := repositories.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Println("Admin user already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := models.User{
		Name:         "Administrator",
		Email:        email,
		Password:     string(hashedPassword),
		Role:         "admin",
		Status:       "active",
		TokenVersion: 1,
	}
	if err := repositories.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}
	log.Println("✅ Admin account created")
}

func seedAchievements() {
	catalog := []models.Achievement{
		{Code: "FIRST_STEPS", Name: "First Steps", Description: "Attend your first event", CriteriaType: models.CriteriaEventsAttended, Threshold: 1, CreditBonus: 50, Active: true},
		{Code: "REGULAR", Name: "Regular", Description: "Attend 5 events", CriteriaType: models.CriteriaEventsAttended, Threshold: 5, CreditBonus: 150, Active: true},
		{Code: "SUPERFAN", Name: "Superfan", Description: "Attend 25 events", CriteriaType: models.CriteriaEventsAttended, Threshold: 25, CreditBonus: 500, Active: true},
		{Code: "BORDER_CROSSER", Name: "Border Crosser", Description: "Check in from 2 countries", CriteriaType: models.CriteriaCountriesVisited, Threshold: 2, CreditBonus: 100, Active: true},
		{Code: "GLOBETROTTER", Name: "Globetrotter", Description: "Check in from 5 countries", CriteriaType: models.CriteriaCountriesVisited, Threshold: 5, CreditBonus: 300, Active: true},
		{Code: "POINT_COLLECTOR", Name: "Point Collector", Description: "Earn 1000 lifetime points", CriteriaType: models.CriteriaPointsEarned, Threshold: 1000, CreditBonus: 100, Active: true},
		{Code: "GOLD_STATUS", Name: "Gold Status", Description: "Reach the gold tier", CriteriaType: models.CriteriaTierReached, Threshold: 3, CreditBonus: 200, Active: true},
		{Code: "ELITE_STATUS", Name: "Elite Status", Description: "Reach the elite tier", CriteriaType: models.CriteriaTierReached, Threshold: 4, CreditBonus: 500, Active: true},
	}

	for _, a := range catalog {
		var existing models.Achievement
		if err := repositories.DB.Where("code = ?", a.Code).First(&existing).Error; err == nil {
			continue
		}
		if err := repositories.DB.Create(&a).Error; err != nil {
			log.Fatal("Failed to seed achievement:", err)
		}
	}
	log.Println("✅ Achievement catalog seeded")
}

func seedEvents() {
	events := []models.Event{
		{
			Title:           "Summer Fest",
			Date:            time.Date(2026, 7, 18, 17, 0, 0, 0, time.UTC),
			Location:        "Lisbon",
			CountryCode:     "PT",
			Latitude:        38.7223,
			Longitude:       -9.1393,
			CheckInRadiusM:  250,
			PointsAwarded:   60,
			PassportEnabled: true,
			AccessCode:      "SUMMER26",
		},
		{
			Title:           "Winter Sessions",
			Date:            time.Date(2026, 12, 5, 19, 0, 0, 0, time.UTC),
			Location:        "Berlin",
			CountryCode:     "DE",
			Latitude:        52.5200,
			Longitude:       13.4050,
			CheckInRadiusM:  200,
			PointsAwarded:   40,
			PassportEnabled: true,
			AccessCode:      "WINTER26",
		},
	}

	for _, e := range events {
		var existing models.Event
		if err := repositories.DB.Where("access_code = ?", e.AccessCode).First(&existing).Error; err == nil {
			continue
		}
		if err := repositories.DB.Create(&e).Error; err != nil {
			log.Fatal("Failed to seed event:", err)
		}
		ticketType := models.TicketType{
			EventID:        e.ID,
			Name:           "General Admission",
			Price:          4500,
			IsTransferable: true,
			MaxTransfers:   1,
		}
		if err := repositories.DB.Create(&ticketType).Error; err != nil {
			log.Fatal("Failed to seed ticket type:", err)
		}
	}
	log.Println("✅ Demo events seeded")
}

func seedOffers() {
	limited := func(n int) *int { return &n }

	offers := []models.RedemptionOffer{
		{Name: "VIP Upgrade", Description: "Skip the line and access the VIP area", Category: "upgrades", PointsCost: 500, InventoryRemaining: limited(20), Active: true},
		{Name: "Tour Poster", Description: "Limited edition signed poster", Category: "merch", PointsCost: 300, InventoryRemaining: limited(50), Active: true},
		{Name: "Drink Voucher", Description: "One free drink at any bar", Category: "perks", PointsCost: 120, Active: true},
	}

	for _, o := range offers {
		var existing models.RedemptionOffer
		if err := repositories.DB.Where("name = ?", o.Name).First(&existing).Error; err == nil {
			continue
		}
		if err := repositories.DB.Create(&o).Error; err != nil {
			log.Fatal("Failed to seed offer:", err)
		}
	}
	log.Println("✅ Marketplace offers seeded")
}
