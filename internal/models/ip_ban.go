package models

import "time"

// IPBan records a temporary network-level ban checked ahead of login.
type IPBan struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	IP          string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"ip"`
	BannedUntil *time.Time `json:"banned_until"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Active reports whether the ban is currently in effect.
func (b *IPBan) Active(now time.Time) bool {
	return b.BannedUntil != nil && b.BannedUntil.After(now)
}
