package export

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/perceptua/backend/internal/comparisons"
	"github.com/perceptua/backend/internal/models"
	"github.com/perceptua/backend/internal/stats"
	"github.com/perceptua/backend/pkg/response"
)

// Handler handles GET /studies/:id/stats/export.
type Handler struct {
	aggregator *stats.Aggregator
	catalog    *comparisons.Repository
	logger     *zap.Logger
}

// NewHandler creates an export handler.
func NewHandler(aggregator *stats.Aggregator, catalog *comparisons.Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{aggregator: aggregator, catalog: catalog, logger: logger}
}

// ExportByStudy streams a study's aggregate report as an xlsx workbook.
func (h *Handler) ExportByStudy(c *gin.Context) {
	studyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid study id")
		return
	}
	ctx := c.Request.Context()

	report, err := h.aggregator.Compute(ctx, studyID)
	if errors.Is(err, models.ErrStudyNotFound) {
		response.NotFound(c, "study not found")
		return
	}
	if err != nil {
		response.Internal(c, "failed to compute stats")
		return
	}

	catalog, err := h.catalog.ListByStudy(ctx, studyID)
	if err != nil {
		response.Internal(c, "failed to list comparisons")
		return
	}

	f, err := BuildWorkbook(report, catalog)
	if err != nil {
		h.logger.Error("workbook build failed", zap.Error(err), zap.String("study_id", studyID.String()))
		response.Internal(c, "failed to build export")
		return
	}

	filename := fmt.Sprintf("study-%s-stats.xlsx", studyID)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("export write failed", zap.Error(err))
	}
}
