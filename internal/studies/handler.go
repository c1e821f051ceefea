package studies

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/perceptua/backend/internal/models"
	"github.com/perceptua/backend/pkg/response"
)

// CreateRequest is the body for POST /studies.
type CreateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// UpdateRequest is the body for PATCH /studies/:id.
type UpdateRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// Handler handles study HTTP endpoints.
type Handler struct {
	repo *Repository
}

// NewHandler creates a studies handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Create handles POST /studies.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	s := &models.Study{Title: req.Title, Description: req.Description}
	if err := h.repo.Create(c.Request.Context(), s); err != nil {
		response.Internal(c, "failed to create study")
		return
	}
	response.Created(c, s)
}

// List handles GET /studies.
func (h *Handler) List(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		response.Internal(c, "failed to list studies")
		return
	}
	if list == nil {
		list = []models.Study{}
	}
	response.OK(c, list)
}

// GetByID handles GET /studies/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid study id")
		return
	}
	s, err := h.repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, models.ErrStudyNotFound) {
		response.NotFound(c, "study not found")
		return
	}
	if err != nil {
		response.Internal(c, "failed to load study")
		return
	}
	response.OK(c, s)
}

// Update handles PATCH /studies/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid study id")
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	err = h.repo.Update(c.Request.Context(), id, req.Title, req.Description, nil)
	if errors.Is(err, models.ErrStudyNotFound) {
		response.NotFound(c, "study not found")
		return
	}
	if err != nil {
		response.Internal(c, "failed to update study")
		return
	}
	response.OK(c, gin.H{"id": id, "updated": true})
}

// Delete handles DELETE /studies/:id.
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid study id")
		return
	}
	err = h.repo.Delete(c.Request.Context(), id)
	if errors.Is(err, models.ErrStudyNotFound) {
		response.NotFound(c, "study not found")
		return
	}
	if err != nil {
		response.Internal(c, "failed to delete study")
		return
	}
	response.NoContent(c)
}
