//go:build ignore

// Seed provisions an admin account, which registration never grants, plus a
// demo client, lawyer and case.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hugh/lawconnect/internal/database"
	"github.com/hugh/lawconnect/internal/database/models"
	"github.com/hugh/lawconnect/pkg/config"
	"github.com/hugh/lawconnect/pkg/util"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, cfg.Server.Env, logger)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	admin := ensureUser(db, envOr("ADMIN_NAME", "Admin"), envOr("ADMIN_EMAIL", "admin@lawconnect.local"),
		envOr("ADMIN_PASSWORD", "admin123"), models.RoleAdmin)

	if os.Getenv("SEED_DEMO") == "" {
		fmt.Printf("Admin ready: %s\n", admin.Email)
		return
	}

	client := ensureUser(db, "Demo Client", "client@lawconnect.local", "client123", models.RoleClient)
	lawyer := ensureUser(db, "Demo Lawyer", "lawyer@lawconnect.local", "lawyer123", models.RoleLawyer)

	c := models.NewCase(client.ID, "Unpaid wages", "Employer withheld two months of salary.", "labor", time.Now())
	c.LawyerID = &lawyer.ID
	if err := c.SetStatus(models.CaseStatusAssigned, time.Now()); err != nil {
		log.Fatalf("failed to set case status: %v", err)
	}
	if err := db.Create(c).Error; err != nil {
		log.Fatalf("failed to create demo case: %v", err)
	}

	fmt.Printf("Admin: %s\nClient: %s\nLawyer: %s\nCase: %s (%s)\n",
		admin.Email, client.Email, lawyer.Email, c.CaseNumber, c.ID)
}

func ensureUser(db *gorm.DB, name, email, password, role string) *models.User {
	var existing models.User
	err := db.Where("email = ?", models.NormalizeEmail(email)).First(&existing).Error
	if err == nil {
		return &existing
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("failed to look up %s: %v", email, err)
	}

	user, err := models.NewUser(name, email, password, role)
	if err != nil {
		log.Fatalf("failed to build %s: %v", email, err)
	}
	if err := db.Create(user).Error; err != nil {
		log.Fatalf("failed to create %s: %v", email, err)
	}
	return user
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
