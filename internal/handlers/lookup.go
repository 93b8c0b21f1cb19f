package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/repairtrack/backend/internal/errors"
	"github.com/repairtrack/backend/internal/repository"
	"gorm.io/gorm"
)

// LookupHandler serves the identical create/list/get/update/delete contract
// shared by the five reference tables. Construction supplies the pieces
// that differ per table: the display name, whether a color is carried, and
// how to build/mutate the concrete row type.
type LookupHandler[T any] struct {
	repo     *repository.LookupRepository[T]
	name     string
	hasColor bool
	build    func(name, color string) *T
	apply    func(entity *T, name, color *string)
}

// NewLookupHandler creates a handler for one lookup resource.
func NewLookupHandler[T any](
	repo *repository.LookupRepository[T],
	name string,
	hasColor bool,
	build func(name, color string) *T,
	apply func(entity *T, name, color *string),
) *LookupHandler[T] {
	return &LookupHandler[T]{
		repo:     repo,
		name:     name,
		hasColor: hasColor,
		build:    build,
		apply:    apply,
	}
}

type lookupRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

// Create inserts a new row. Name is always required; color too where the
// table carries one.
func (h *LookupHandler[T]) Create(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if req.Name == nil || *req.Name == "" {
		apierrors.BadRequest(c, h.name+" name is required")
		return
	}

	color := ""
	if h.hasColor {
		if req.Color == nil || *req.Color == "" {
			apierrors.BadRequest(c, h.name+" name and color are required")
			return
		}
		color = *req.Color
	}

	entity := h.build(*req.Name, color)
	if err := h.repo.Create(entity); err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, entity)
}

// List returns all rows.
func (h *LookupHandler[T]) List(c *gin.Context) {
	entities, err := h.repo.List()
	if err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, entities)
}

// Get returns one row by id.
func (h *LookupHandler[T]) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	entity, err := h.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, h.name+" not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, entity)
}

// Update applies a partial update of name and, where carried, color.
func (h *LookupHandler[T]) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if req.Name == nil && (!h.hasColor || req.Color == nil) {
		apierrors.BadRequest(c, "No updatable fields provided")
		return
	}
	if req.Name != nil && *req.Name == "" {
		apierrors.BadRequest(c, h.name+" name cannot be empty")
		return
	}

	entity, err := h.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			apierrors.NotFound(c, h.name+" not found")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	if !h.hasColor {
		req.Color = nil
	}
	h.apply(entity, req.Name, req.Color)

	if err := h.repo.Update(entity); err != nil {
		apierrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, entity)
}

// Delete removes a row. Rows still referenced by a task, and the protected
// default status, cannot be deleted; the distinction is not surfaced.
func (h *LookupHandler[T]) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || isConstraintError(err) {
			apierrors.NotFound(c, h.name+" not found or cannot be deleted")
			return
		}
		apierrors.InternalError(c, "")
		return
	}

	c.Status(http.StatusNoContent)
}

// isConstraintError sniffs a restrict-on-delete violation across drivers
// (sqlite, postgres, mysql all mention the violated constraint).
func isConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "constraint") || strings.Contains(msg, "foreign key")
}
