package database

import (
	"errors"
	"fmt"

	"github.com/repairtrack/backend/internal/config"
	"github.com/repairtrack/backend/internal/logging"
	"github.com/repairtrack/backend/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the database selected by DB_DRIVER (postgres or mysql).
func Connect(cfg *config.Config) error {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return err
	}

	DB, err = gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	logging.GetLogger().Info("Database connection established")
	return nil
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres":
		dsn := cfg.DatabaseURL
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
				cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)
		}
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Migrate runs schema migrations and seeds the protected default status.
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB migrates the given database instance (exported for tests).
func MigrateDB(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Location{},
		&models.DeviceType{},
		&models.ProblemType{},
		&models.Status{},
		&models.Tag{},
		&models.Task{},
		&models.TaskTag{},
		&models.IPBan{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := seedDefaultStatus(db); err != nil {
		return err
	}

	return nil
}

// seedDefaultStatus ensures the "Pending" status (id 1) exists. New tasks
// reference it and it cannot be deleted.
func seedDefaultStatus(db *gorm.DB) error {
	var status models.Status
	err := db.First(&status, models.DefaultStatusID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check default status: %w", err)
	}

	status = models.Status{
		ID:    models.DefaultStatusID,
		Name:  "Pending",
		Color: "#f0ad4e",
	}
	if err := db.Create(&status).Error; err != nil {
		return fmt.Errorf("failed to seed default status: %w", err)
	}

	return nil
}

func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (used for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
