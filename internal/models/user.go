package models

import (
	"time"

	"github.com/repairtrack/backend/internal/permissions"
)

type User struct {
	ID           uint64          `gorm:"primarykey" json:"id"`
	Username     string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash string          `gorm:"type:varchar(255);not null" json:"-"`
	Permissions  permissions.Set `gorm:"type:text;not null;default:'[]'" json:"permissions"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
