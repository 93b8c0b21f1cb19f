package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/repairtrack/backend/internal/dto"
	apierrors "github.com/repairtrack/backend/internal/errors"
	"github.com/repairtrack/backend/internal/middleware"
	"github.com/repairtrack/backend/internal/services"
	"github.com/repairtrack/backend/internal/utils"
)

// TaskHandler coordinates task HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask creates a new task. All customer and category fields are
// mandatory; the tag set is optional.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		CustomerFirstName string   `json:"customer_fname"`
		CustomerLastName  string   `json:"customer_lname"`
		CustomerEmail     string   `json:"customer_email"`
		CustomerPhone     string   `json:"customer_phone"`
		Title             string   `json:"title"`
		Description       string   `json:"description"`
		LocationID        uint64   `json:"location_id"`
		DeviceTypeID      uint64   `json:"device_type_id"`
		ProblemTypeID     uint64   `json:"problem_type_id"`
		StatusID          uint64   `json:"status_id"`
		Tags              []uint64 `json:"tags"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		CustomerFirstName: req.CustomerFirstName,
		CustomerLastName:  req.CustomerLastName,
		CustomerEmail:     req.CustomerEmail,
		CustomerPhone:     req.CustomerPhone,
		Title:             req.Title,
		Description:       req.Description,
		LocationID:        req.LocationID,
		DeviceTypeID:      req.DeviceTypeID,
		ProblemTypeID:     req.ProblemTypeID,
		StatusID:          req.StatusID,
		CreatedByUserID:   userID,
		TagIDs:            req.Tags,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// ListTasks returns a filtered, paginated task listing.
// Query params: page, limit, startDate, endDate, locationId, deviceTypeId,
// problemTypeId, statusId, tagId.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	input := services.ListTasksInput{}

	start, _, err := parseDateQuery(c, "startDate")
	if err != nil {
		apierrors.BadRequest(c, "Invalid startDate")
		return
	}
	end, endOnly, err := parseDateQuery(c, "endDate")
	if err != nil {
		apierrors.BadRequest(c, "Invalid endDate")
		return
	}
	if end != nil && endOnly {
		// A date-only end bound means "through the whole end day".
		adjusted := end.Add(24 * time.Hour)
		end = &adjusted
	}
	input.StartDate = start
	input.EndDate = end

	for param, target := range map[string]**uint64{
		"locationId":    &input.LocationID,
		"deviceTypeId":  &input.DeviceTypeID,
		"problemTypeId": &input.ProblemTypeID,
		"statusId":      &input.StatusID,
		"tagId":         &input.TagID,
	} {
		value, err := parseIDQuery(c, param)
		if err != nil {
			apierrors.BadRequest(c, "Invalid "+param)
			return
		}
		*target = value
	}

	params := utils.GetPaginationParams(c)
	input.Page = params.Page
	input.PageSize = params.Limit

	tasks, total, err := h.taskService.ListTasks(input)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params.Page, params.Limit, total))
}

// GetTask returns a single task with its tags.
func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(taskID)
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// UpdateTask applies a partial update. A tags field, when present, replaces
// the full tag set.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	type UpdateTaskRequest struct {
		CustomerFirstName *string   `json:"customer_fname"`
		CustomerLastName  *string   `json:"customer_lname"`
		CustomerEmail     *string   `json:"customer_email"`
		CustomerPhone     *string   `json:"customer_phone"`
		Title             *string   `json:"title"`
		Description       *string   `json:"description"`
		LocationID        *uint64   `json:"location_id"`
		DeviceTypeID      *uint64   `json:"device_type_id"`
		ProblemTypeID     *uint64   `json:"problem_type_id"`
		StatusID          *uint64   `json:"status_id"`
		Tags              *[]uint64 `json:"tags"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.UpdateTask(taskID, services.UpdateTaskInput{
		CustomerFirstName: req.CustomerFirstName,
		CustomerLastName:  req.CustomerLastName,
		CustomerEmail:     req.CustomerEmail,
		CustomerPhone:     req.CustomerPhone,
		Title:             req.Title,
		Description:       req.Description,
		LocationID:        req.LocationID,
		DeviceTypeID:      req.DeviceTypeID,
		ProblemTypeID:     req.ProblemTypeID,
		StatusID:          req.StatusID,
		TagIDs:            req.Tags,
	})
	if err != nil {
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask hard-deletes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(taskID); err != nil {
		respondTaskError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ArchiveTask soft-deletes an active task.
func (h *TaskHandler) ArchiveTask(c *gin.Context) {
	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.ArchiveTask(taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found or already archived")
			return
		}
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// RestoreTask reverses an archive.
func (h *TaskHandler) RestoreTask(c *gin.Context) {
	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.taskService.RestoreTask(taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			apierrors.NotFound(c, "Task not found or not archived")
			return
		}
		respondTaskError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

func respondTaskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTaskFieldsMissing):
		apierrors.BadRequest(c, "All task fields are required")
	case errors.Is(err, services.ErrNoUpdatableFields):
		apierrors.BadRequest(c, "No updatable fields provided")
	case errors.Is(err, services.ErrDateRangePartial):
		apierrors.BadRequest(c, "startDate and endDate must be provided together")
	case errors.Is(err, services.ErrInvalidTagID):
		apierrors.BadRequest(c, "One or more tags do not exist")
	default:
		apierrors.InternalError(c, "")
	}
}

// parseIDParam reads the :id path parameter, responding 400 on garbage.
func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

// parseIDQuery reads an optional numeric query parameter.
func parseIDQuery(c *gin.Context, name string) (*uint64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// parseDateQuery reads an optional date parameter, accepting a plain date
// (2006-01-02) or an RFC 3339 instant. The second return reports the
// date-only form.
func parseDateQuery(c *gin.Context, name string) (*time.Time, bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, false, nil
	}

	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t, true, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false, err
	}
	return &t, false, nil
}
