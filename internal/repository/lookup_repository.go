package repository

import (
	"gorm.io/gorm"
)

// LookupRepository provides the shared create/list/get/update/delete
// contract for the small reference tables (locations, device types, problem
// types, statuses, tags). Protected ids (the default status) are refused
// deletion at this layer.
type LookupRepository[T any] struct {
	db           *gorm.DB
	protectedIDs map[uint64]struct{}
}

// NewLookupRepository creates a repository for one lookup table.
func NewLookupRepository[T any](db *gorm.DB, protectedIDs ...uint64) *LookupRepository[T] {
	protected := make(map[uint64]struct{}, len(protectedIDs))
	for _, id := range protectedIDs {
		protected[id] = struct{}{}
	}
	return &LookupRepository[T]{db: db, protectedIDs: protected}
}

// Create inserts a new row
func (r *LookupRepository[T]) Create(entity *T) error {
	return r.db.Create(entity).Error
}

// List returns all rows ordered by id
func (r *LookupRepository[T]) List() ([]T, error) {
	var entities []T
	if err := r.db.Order("id").Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// FindByID finds a row by id
func (r *LookupRepository[T]) FindByID(id uint64) (*T, error) {
	var entity T
	if err := r.db.First(&entity, id).Error; err != nil {
		return nil, err
	}
	return &entity, nil
}

// Update saves modified fields
func (r *LookupRepository[T]) Update(entity *T) error {
	return r.db.Save(entity).Error
}

// Delete removes a row. Protected rows and rows still referenced by a task
// cannot be deleted.
func (r *LookupRepository[T]) Delete(id uint64) error {
	if _, protected := r.protectedIDs[id]; protected {
		return gorm.ErrRecordNotFound
	}

	result := r.db.Delete(new(T), id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
