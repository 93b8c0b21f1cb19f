// Command seed-admin upserts the super-admin account (user id 1) with the
// full permission set. Intended for a trusted operator:
//
//	seed-admin <username> <password>
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/repairtrack/backend/internal/config"
	"github.com/repairtrack/backend/internal/database"
	"github.com/repairtrack/backend/internal/logging"
	"github.com/repairtrack/backend/internal/models"
	"github.com/repairtrack/backend/internal/permissions"
	"github.com/repairtrack/backend/internal/services"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: seed-admin <username> <password>")
		os.Exit(1)
	}
	username, password := os.Args[1], os.Args[2]

	_ = godotenv.Load()
	cfg := config.Load()
	logging.Initialize(cfg.LogLevel)
	log := logging.GetLogger()

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	db := database.GetDB()

	hash, err := services.BcryptHasher{}.Hash(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := models.User{
		ID:           permissions.AdminUserID,
		Username:     username,
		PasswordHash: hash,
		Permissions:  permissions.Set(permissions.All),
	}

	var existing models.User
	err = db.First(&existing, permissions.AdminUserID).Error
	switch {
	case err == nil:
		existing.Username = username
		existing.PasswordHash = hash
		existing.Permissions = permissions.Set(permissions.All)
		if err := db.Save(&existing).Error; err != nil {
			log.Fatalf("Failed to update admin user: %v", err)
		}
		log.Infof("Admin user %q updated", username)
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("Failed to create admin user: %v", err)
		}
		log.Infof("Admin user %q created", username)
	default:
		log.Fatalf("Failed to look up admin user: %v", err)
	}
}
