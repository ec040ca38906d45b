//go:build ignore

package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/aiquanty/Quanty-Backend/internal/auth"
	"github.com/aiquanty/Quanty-Backend/internal/database"
	"github.com/aiquanty/Quanty-Backend/internal/database/models"
	"github.com/aiquanty/Quanty-Backend/pkg/config"
	"github.com/aiquanty/Quanty-Backend/pkg/util"
)

// Seeds the admin account and the public subscription plans. The stripe ids
// on the plans stay empty here; create real plans through the admin API when
// a stripe account is wired up.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	name := os.Getenv("ADMIN_NAME")

	if email == "" {
		email = "admin@example.com"
	}
	if password == "" {
		password = "admin123!"
	}
	if name == "" {
		name = "Admin"
	}

	var existing models.Admin
	if err := db.Where("email = ?", email).First(&existing).Error; err != nil {
		hash, salt, err := auth.HashPassword(password)
		if err != nil {
			log.Fatalf("failed to hash admin password: %v", err)
		}
		admin := models.Admin{
			Email:        email,
			PasswordHash: hash,
			PasswordSalt: salt,
			Name:         name,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("failed to create admin: %v", err)
		}
		log.Printf("created admin %s", email)
	} else {
		log.Printf("admin %s already exists", email)
	}

	plans := []models.Product{
		{
			Name:               "Starter",
			Price:              29,
			AllowedTeamMembers: 2,
			AllowedCredits:     500,
			AllowedAssistants:  2,
			AvailableToUsers:   []string{},
		},
		{
			Name:               "Business",
			Price:              99,
			AllowedTeamMembers: 10,
			AllowedCredits:     2500,
			AllowedAssistants:  10,
			AvailableToUsers:   []string{},
		},
	}

	for _, plan := range plans {
		var found models.Product
		if err := db.Where("name = ?", plan.Name).First(&found).Error; err == nil {
			log.Printf("plan %s already exists", plan.Name)
			continue
		}
		if err := db.Create(&plan).Error; err != nil {
			log.Fatalf("failed to create plan %s: %v", plan.Name, err)
		}
		log.Printf("created plan %s", plan.Name)
	}
}
