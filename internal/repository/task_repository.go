package repository

import (
	"time"

	"github.com/repairtrack/backend/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with its tags
func (r *GormTaskRepository) FindByID(id uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.Preload("Tags").First(&task, id).Error; err != nil {
		return nil, err
	}
	if task.Tags == nil {
		task.Tags = []models.Tag{}
	}
	return &task, nil
}

// List retrieves tasks matching the filter together with the total count
// computed over the identical predicate set. Each present filter contributes
// one AND-ed predicate; results are always newest-first.
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	query := r.db.Model(&models.Task{}).
		Where("tasks.created_at >= ? AND tasks.created_at < ?", filter.CreatedFrom, filter.CreatedTo)

	if filter.LocationID != nil {
		query = query.Where("tasks.location_id = ?", *filter.LocationID)
	}
	if filter.DeviceTypeID != nil {
		query = query.Where("tasks.device_type_id = ?", *filter.DeviceTypeID)
	}
	if filter.ProblemTypeID != nil {
		query = query.Where("tasks.problem_type_id = ?", *filter.ProblemTypeID)
	}
	if filter.StatusID != nil {
		query = query.Where("tasks.status_id = ?", *filter.StatusID)
	}
	if filter.TagID != nil {
		// Membership test against the join table, not equality.
		tagSubQuery := r.db.Model(&models.TaskTag{}).
			Select("1").
			Where("task_tags.task_id = tasks.id").
			Where("task_tags.tag_id = ?", *filter.TagID)
		query = query.Where("EXISTS (?)", tagSubQuery)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	var tasks []models.Task
	if err := listQuery.Preload("Tags").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	for i := range tasks {
		if tasks[i].Tags == nil {
			tasks[i].Tags = []models.Tag{}
		}
	}

	return tasks, total, nil
}

// Update saves modified task fields
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete hard-deletes a task and its tag associations
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskTag{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Task{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// Archive marks an active task archived. "Does not exist" and "already
// archived" are indistinguishable to the caller: both report not found.
func (r *GormTaskRepository) Archive(id uint64) (*models.Task, error) {
	now := time.Now()
	result := r.db.Model(&models.Task{}).
		Where("id = ? AND archived_at IS NULL", id).
		Update("archived_at", now)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(id)
}

// Restore clears the archived mark of an archived task.
func (r *GormTaskRepository) Restore(id uint64) (*models.Task, error) {
	result := r.db.Model(&models.Task{}).
		Where("id = ? AND archived_at IS NOT NULL", id).
		Update("archived_at", nil)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(id)
}

// CountTagsByIDs counts how many of the given tag IDs exist
func (r *GormTaskRepository) CountTagsByIDs(tagIDs []uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Tag{}).Where("id IN ?", tagIDs).Count(&count).Error
	return count, err
}

// ReplaceTags atomically replaces the full tag set of a task. Readers never
// observe a half-updated set; on failure the previous set is left intact.
func (r *GormTaskRepository) ReplaceTags(taskID uint64, tagIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskTag{}).Error; err != nil {
			return err
		}

		if len(tagIDs) == 0 {
			return nil
		}

		rows := make([]models.TaskTag, len(tagIDs))
		for i, tagID := range tagIDs {
			rows[i] = models.TaskTag{TaskID: taskID, TagID: tagID}
		}

		return tx.Create(&rows).Error
	})
}
