package repository

import (
	"time"

	"github.com/repairtrack/backend/internal/models"
	"github.com/repairtrack/backend/internal/permissions"
)

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with its tags
	FindByID(id uint64) (*models.Task, error)

	// List retrieves tasks matching the filter, with the total count over
	// the same predicate set
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update saves modified task fields
	Update(task *models.Task) error

	// Delete hard-deletes a task and its tag associations
	Delete(id uint64) error

	// Archive marks an active task archived; fails if already archived
	Archive(id uint64) (*models.Task, error)

	// Restore clears the archived mark; fails if not archived
	Restore(id uint64) (*models.Task, error)

	// ReplaceTags atomically replaces the full tag set of a task
	ReplaceTags(taskID uint64, tagIDs []uint64) error

	// CountTagsByIDs counts how many of the given tag IDs exist
	CountTagsByIDs(tagIDs []uint64) (int64, error)
}

// TaskFilter holds the fixed filter set for task listing. All predicates
// are combined conjunctively; nil fields contribute nothing.
type TaskFilter struct {
	CreatedFrom   time.Time
	CreatedTo     time.Time
	LocationID    *uint64
	DeviceTypeID  *uint64
	ProblemTypeID *uint64
	StatusID      *uint64
	TagID         *uint64
	Page          int
	PageSize      int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// List lists all users ordered by username
	List() ([]models.User, error)

	// Update saves modified user fields
	Update(user *models.User) error

	// Delete removes a user
	Delete(id uint64) error

	// IsUsernameTaken checks username uniqueness, optionally excluding a
	// user id (for updates)
	IsUsernameTaken(username string, excludeID uint64) (bool, error)

	// GetPermissions reads the current permission set for a user. Callers
	// must use this rather than token claims so revocation is immediate.
	GetPermissions(userID uint64) (permissions.Set, error)
}

// BanRepository looks up network-level bans.
type BanRepository interface {
	// FindByIP returns the ban record for an address, or nil if none exists
	FindByIP(ip string) (*models.IPBan, error)
}
