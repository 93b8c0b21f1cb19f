package dto

import (
	"github.com/repairtrack/backend/internal/models"
)

// TaskListResponse is the paginated task listing payload. Total is computed
// over the full predicate set, not the returned page.
type TaskListResponse struct {
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
	Data       []models.Task `json:"data"`
}

// ToTaskListResponse assembles the listing payload.
func ToTaskListResponse(tasks []models.Task, page, limit int, total int64) TaskListResponse {
	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	if tasks == nil {
		tasks = []models.Task{}
	}

	return TaskListResponse{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		Data:       tasks,
	}
}
