package repository

import (
	"errors"

	"github.com/repairtrack/backend/internal/models"
	"gorm.io/gorm"
)

// GormBanRepository is a GORM implementation of BanRepository
type GormBanRepository struct {
	db *gorm.DB
}

// NewBanRepository creates a new BanRepository
func NewBanRepository(db *gorm.DB) BanRepository {
	return &GormBanRepository{db: db}
}

// FindByIP returns the ban record for an address, or nil if none exists.
func (r *GormBanRepository) FindByIP(ip string) (*models.IPBan, error) {
	var ban models.IPBan
	if err := r.db.Where("ip = ?", ip).First(&ban).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ban, nil
}
