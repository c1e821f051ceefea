package comparisons

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/perceptua/backend/internal/models"
	"github.com/perceptua/backend/internal/studies"
	"github.com/perceptua/backend/pkg/response"
)

// OptionRequest is one option in a comparison create request.
type OptionRequest struct {
	StimulusID uuid.UUID `json:"stimulus_id" binding:"required"`
	Label      string    `json:"label"`
}

// CreateRequest is the body for POST /studies/:id/comparisons.
type CreateRequest struct {
	Title   string          `json:"title" binding:"required"`
	Type    string          `json:"type" binding:"required,oneof=rating single-select binary multi-select"`
	Options []OptionRequest `json:"options" binding:"required,min=1"`
}

// Handler handles comparison HTTP endpoints.
type Handler struct {
	repo      *Repository
	studyRepo *studies.Repository
}

// NewHandler creates a comparisons handler.
func NewHandler(repo *Repository, studyRepo *studies.Repository) *Handler {
	return &Handler{repo: repo, studyRepo: studyRepo}
}

// Create handles POST /studies/:id/comparisons.
func (h *Handler) Create(c *gin.Context) {
	studyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid study id")
		return
	}
	if _, err := h.studyRepo.GetByID(c.Request.Context(), studyID); err != nil {
		if errors.Is(err, models.ErrStudyNotFound) {
			response.NotFound(c, "study not found")
			return
		}
		response.Internal(c, "failed to load study")
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	options := make([]models.Option, 0, len(req.Options))
	for _, o := range req.Options {
		options = append(options, models.Option{StimulusID: o.StimulusID, Label: o.Label})
	}
	cmp := &models.Comparison{
		StudyID: studyID,
		Title:   req.Title,
		Type:    models.ComparisonType(req.Type),
		Options: options,
	}
	if err := h.repo.Create(c.Request.Context(), cmp); err != nil {
		response.Internal(c, "failed to create comparison")
		return
	}
	response.Created(c, cmp)
}

// ListByStudy handles GET /studies/:id/comparisons.
func (h *Handler) ListByStudy(c *gin.Context) {
	studyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid study id")
		return
	}
	if _, err := h.studyRepo.GetByID(c.Request.Context(), studyID); err != nil {
		if errors.Is(err, models.ErrStudyNotFound) {
			response.NotFound(c, "study not found")
			return
		}
		response.Internal(c, "failed to load study")
		return
	}
	list, err := h.repo.ListByStudy(c.Request.Context(), studyID)
	if err != nil {
		response.Internal(c, "failed to list comparisons")
		return
	}
	if list == nil {
		list = []models.Comparison{}
	}
	response.OK(c, list)
}

// GetByID handles GET /comparisons/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid comparison id")
		return
	}
	cmp, err := h.repo.GetByID(c.Request.Context(), id)
	if errors.Is(err, models.ErrComparisonNotFound) {
		response.NotFound(c, "comparison not found")
		return
	}
	if err != nil {
		response.Internal(c, "failed to load comparison")
		return
	}
	response.OK(c, cmp)
}
