package models

import (
	"time"
)

type Task struct {
	ID                uint64     `gorm:"primarykey" json:"id"`
	CustomerFirstName string     `gorm:"type:varchar(255);not null" json:"customer_fname"`
	CustomerLastName  string     `gorm:"type:varchar(255);not null" json:"customer_lname"`
	CustomerEmail     string     `gorm:"type:varchar(255);not null" json:"customer_email"`
	CustomerPhone     string     `gorm:"type:varchar(50);not null" json:"customer_phone"`
	Title             string     `gorm:"not null" json:"title"`
	Description       string     `gorm:"type:text;not null" json:"description"`
	LocationID        uint64     `gorm:"not null;index" json:"location_id"`
	DeviceTypeID      uint64     `gorm:"not null;index" json:"device_type_id"`
	ProblemTypeID     uint64     `gorm:"not null;index" json:"problem_type_id"`
	StatusID          uint64     `gorm:"not null;index" json:"status_id"`
	CreatedByUserID   uint64     `gorm:"not null" json:"created_by_user_id"`
	ArchivedAt        *time.Time `json:"archived_at"`
	CreatedAt         time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Relations. The four category references are restrict-on-delete: a
	// lookup row in use cannot be removed.
	Location    Location    `gorm:"foreignKey:LocationID;constraint:OnDelete:RESTRICT" json:"location,omitempty"`
	DeviceType  DeviceType  `gorm:"foreignKey:DeviceTypeID;constraint:OnDelete:RESTRICT" json:"device_type,omitempty"`
	ProblemType ProblemType `gorm:"foreignKey:ProblemTypeID;constraint:OnDelete:RESTRICT" json:"problem_type,omitempty"`
	Status      Status      `gorm:"foreignKey:StatusID;constraint:OnDelete:RESTRICT" json:"status,omitempty"`
	CreatedBy   User        `gorm:"foreignKey:CreatedByUserID" json:"created_by,omitempty"`
	Tags        []Tag       `gorm:"many2many:task_tags" json:"tags"`
}

// IsArchived reports whether the task is soft-deleted.
func (t *Task) IsArchived() bool {
	return t.ArchivedAt != nil
}
