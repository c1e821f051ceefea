package stats

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/perceptua/backend/internal/models"
	"github.com/perceptua/backend/pkg/response"
)

// Handler handles GET /studies/:id/stats with cache-aside reads.
type Handler struct {
	aggregator *Aggregator
	cache      *Cache // optional
	logger     *zap.Logger
}

// NewHandler creates a stats handler. cache may be nil.
func NewHandler(aggregator *Aggregator, cache *Cache, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{aggregator: aggregator, cache: cache, logger: logger}
}

// GetByStudy handles GET /studies/:id/stats.
func (h *Handler) GetByStudy(c *gin.Context) {
	studyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid study id")
		return
	}
	ctx := c.Request.Context()

	if h.cache != nil {
		cached, err := h.cache.Get(ctx, studyID)
		if err != nil {
			h.logger.Warn("stats cache read failed", zap.Error(err))
		} else if cached != nil {
			response.OK(c, json.RawMessage(cached))
			return
		}
	}

	report, err := h.aggregator.Compute(ctx, studyID)
	if errors.Is(err, models.ErrStudyNotFound) {
		response.NotFound(c, "study not found")
		return
	}
	if err != nil {
		response.Internal(c, "failed to compute stats")
		return
	}

	if h.cache != nil {
		if payload, err := json.Marshal(report); err == nil {
			if err := h.cache.Set(ctx, studyID, payload); err != nil {
				h.logger.Warn("stats cache write failed", zap.Error(err))
			}
		}
	}
	response.OK(c, report)
}
