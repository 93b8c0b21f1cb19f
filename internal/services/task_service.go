package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/repairtrack/backend/internal/models"
	"github.com/repairtrack/backend/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskFieldsMissing = errors.New("all task fields are required")
	ErrNoUpdatableFields = errors.New("no updatable fields provided")
	ErrDateRangePartial  = errors.New("startDate and endDate must be provided together")
	ErrInvalidTagID      = errors.New("one or more tags do not exist")
)

// DefaultListWindowDays is the trailing creation-time window applied when a
// listing request supplies no date range.
const DefaultListWindowDays = 30

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// CreateTaskInput represents input for creating a task. Everything except
// the tag set is mandatory.
type CreateTaskInput struct {
	CustomerFirstName string
	CustomerLastName  string
	CustomerEmail     string
	CustomerPhone     string
	Title             string
	Description       string
	LocationID        uint64
	DeviceTypeID      uint64
	ProblemTypeID     uint64
	StatusID          uint64
	CreatedByUserID   uint64
	TagIDs            []uint64
}

// UpdateTaskInput represents a partial task update. Nil fields are left
// untouched; a non-nil TagIDs replaces the full tag set.
type UpdateTaskInput struct {
	CustomerFirstName *string
	CustomerLastName  *string
	CustomerEmail     *string
	CustomerPhone     *string
	Title             *string
	Description       *string
	LocationID        *uint64
	DeviceTypeID      *uint64
	ProblemTypeID     *uint64
	StatusID          *uint64
	TagIDs            *[]uint64
}

// ListTasksInput represents filters for listing tasks. StartDate/EndDate
// must be supplied together; when both are absent the trailing 30-day
// window is used.
type ListTasksInput struct {
	StartDate     *time.Time
	EndDate       *time.Time
	LocationID    *uint64
	DeviceTypeID  *uint64
	ProblemTypeID *uint64
	StatusID      *uint64
	TagID         *uint64
	Page          int
	PageSize      int
}

// ListTasks returns the page of tasks matching the filters plus the total
// count over the same predicate set.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	from, to, err := resolveWindow(input.StartDate, input.EndDate)
	if err != nil {
		return nil, 0, err
	}

	filter := repository.TaskFilter{
		CreatedFrom:   from,
		CreatedTo:     to,
		LocationID:    input.LocationID,
		DeviceTypeID:  input.DeviceTypeID,
		ProblemTypeID: input.ProblemTypeID,
		StatusID:      input.StatusID,
		TagID:         input.TagID,
		Page:          input.Page,
		PageSize:      input.PageSize,
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task with its tags
func (s *TaskService) GetTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// CreateTask validates required fields and creates the task with its
// initial tag set.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if input.CustomerFirstName == "" || input.CustomerLastName == "" ||
		input.CustomerEmail == "" || input.CustomerPhone == "" ||
		input.Title == "" || input.Description == "" ||
		input.LocationID == 0 || input.DeviceTypeID == 0 ||
		input.ProblemTypeID == 0 || input.StatusID == 0 {
		return nil, ErrTaskFieldsMissing
	}

	if err := s.verifyTagIDs(input.TagIDs); err != nil {
		return nil, err
	}

	task := &models.Task{
		CustomerFirstName: input.CustomerFirstName,
		CustomerLastName:  input.CustomerLastName,
		CustomerEmail:     input.CustomerEmail,
		CustomerPhone:     input.CustomerPhone,
		Title:             input.Title,
		Description:       input.Description,
		LocationID:        input.LocationID,
		DeviceTypeID:      input.DeviceTypeID,
		ProblemTypeID:     input.ProblemTypeID,
		StatusID:          input.StatusID,
		CreatedByUserID:   input.CreatedByUserID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if len(input.TagIDs) > 0 {
		if err := s.taskRepo.ReplaceTags(task.ID, uniqueUint64(input.TagIDs)); err != nil {
			return nil, fmt.Errorf("failed to set tags: %w", err)
		}
	}

	return s.taskRepo.FindByID(task.ID)
}

// UpdateTask applies a partial update and, when requested, replaces the
// full tag set.
func (s *TaskService) UpdateTask(taskID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	changed := false
	if input.CustomerFirstName != nil {
		task.CustomerFirstName = *input.CustomerFirstName
		changed = true
	}
	if input.CustomerLastName != nil {
		task.CustomerLastName = *input.CustomerLastName
		changed = true
	}
	if input.CustomerEmail != nil {
		task.CustomerEmail = *input.CustomerEmail
		changed = true
	}
	if input.CustomerPhone != nil {
		task.CustomerPhone = *input.CustomerPhone
		changed = true
	}
	if input.Title != nil {
		task.Title = *input.Title
		changed = true
	}
	if input.Description != nil {
		task.Description = *input.Description
		changed = true
	}
	if input.LocationID != nil {
		task.LocationID = *input.LocationID
		changed = true
	}
	if input.DeviceTypeID != nil {
		task.DeviceTypeID = *input.DeviceTypeID
		changed = true
	}
	if input.ProblemTypeID != nil {
		task.ProblemTypeID = *input.ProblemTypeID
		changed = true
	}
	if input.StatusID != nil {
		task.StatusID = *input.StatusID
		changed = true
	}

	if !changed && input.TagIDs == nil {
		return nil, ErrNoUpdatableFields
	}

	if changed {
		// Save would try to upsert the preloaded tag rows as well; the tag
		// set is owned by ReplaceTags alone.
		task.Tags = nil
		if err := s.taskRepo.Update(task); err != nil {
			return nil, fmt.Errorf("failed to update task: %w", err)
		}
	}

	if input.TagIDs != nil {
		if err := s.SetTags(taskID, *input.TagIDs); err != nil {
			return nil, err
		}
	}

	return s.taskRepo.FindByID(taskID)
}

// SetTags replaces the task's tag set with exactly the given set. An empty
// set removes every association.
func (s *TaskService) SetTags(taskID uint64, tagIDs []uint64) error {
	if err := s.verifyTagIDs(tagIDs); err != nil {
		return err
	}

	if err := s.taskRepo.ReplaceTags(taskID, uniqueUint64(tagIDs)); err != nil {
		return fmt.Errorf("failed to replace tags: %w", err)
	}
	return nil
}

// DeleteTask hard-deletes a task
func (s *TaskService) DeleteTask(taskID uint64) error {
	if err := s.taskRepo.Delete(taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// ArchiveTask archives an active task. A missing task and an already
// archived one are reported identically.
func (s *TaskService) ArchiveTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.Archive(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to archive task: %w", err)
	}
	return task, nil
}

// RestoreTask restores an archived task.
func (s *TaskService) RestoreTask(taskID uint64) (*models.Task, error) {
	task, err := s.taskRepo.Restore(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to restore task: %w", err)
	}
	return task, nil
}

func (s *TaskService) verifyTagIDs(tagIDs []uint64) error {
	if len(tagIDs) == 0 {
		return nil
	}

	unique := uniqueUint64(tagIDs)
	count, err := s.taskRepo.CountTagsByIDs(unique)
	if err != nil {
		return fmt.Errorf("failed to verify tags: %w", err)
	}
	if int(count) != len(unique) {
		return ErrInvalidTagID
	}
	return nil
}

// resolveWindow applies the date-range policy: both bounds, or neither
// (trailing 30 days, whole end day included).
func resolveWindow(start, end *time.Time) (time.Time, time.Time, error) {
	if (start == nil) != (end == nil) {
		return time.Time{}, time.Time{}, ErrDateRangePartial
	}

	if start == nil {
		now := time.Now()
		endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)
		return endOfToday.AddDate(0, 0, -DefaultListWindowDays), endOfToday, nil
	}

	return *start, *end, nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
