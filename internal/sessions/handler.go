package sessions

import (
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/perceptua/backend/internal/models"
	"github.com/perceptua/backend/pkg/response"
)

// AddResponseRequest is the body for POST /sessions/:id/responses. Answer is
// kept raw; its shape depends on the comparison's type and is validated by
// the response codec.
type AddResponseRequest struct {
	ComparisonID uuid.UUID       `json:"comparison_id" binding:"required"`
	Answer       json.RawMessage `json:"answer" binding:"required"`
}

// CompleteRequest is the body for POST /sessions/:id/complete. All fields
// are optional; absent values aggregate under "Not Specified".
type CompleteRequest struct {
	Gender         string `json:"gender"`
	AgeGroup       string `json:"age_group"`
	EducationLevel string `json:"education_level"`
	DeviceType     string `json:"device_type"`
}

// SessionDetail is the session representation returned to callers, with the
// derived answered/expected counts for completeness checks.
type SessionDetail struct {
	*models.Session
	AnsweredCount   int `json:"answered_count"`
	ComparisonCount int `json:"comparison_count"`
}

// Handler handles session HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler creates a sessions handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Start handles POST /studies/:id/sessions (participant, anonymous).
func (h *Handler) Start(c *gin.Context) {
	studyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid study id")
		return
	}
	session, err := h.service.Create(c.Request.Context(), studyID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Created(c, session)
}

// AddResponse handles POST /sessions/:id/responses.
func (h *Handler) AddResponse(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid session id")
		return
	}
	var req AddResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	session, err := h.service.AddResponse(c.Request.Context(), sessionID, req.ComparisonID, req.Answer)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, session)
}

// Complete handles POST /sessions/:id/complete.
func (h *Handler) Complete(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid session id")
		return
	}
	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	demographics := &models.Demographics{
		Gender:         req.Gender,
		AgeGroup:       req.AgeGroup,
		EducationLevel: req.EducationLevel,
		DeviceType:     req.DeviceType,
	}
	session, err := h.service.Complete(c.Request.Context(), sessionID, demographics)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, session)
}

// GetByID handles GET /sessions/:id.
func (h *Handler) GetByID(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid session id")
		return
	}
	session, comparisonCount, err := h.service.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.OK(c, SessionDetail{
		Session:         session,
		AnsweredCount:   len(session.Responses),
		ComparisonCount: comparisonCount,
	})
}

// writeServiceError maps core sentinel errors to HTTP status codes.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrStudyNotFound),
		errors.Is(err, models.ErrSessionNotFound),
		errors.Is(err, models.ErrComparisonNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, models.ErrInvalidPayload),
		errors.Is(err, models.ErrUnknownComparisonType):
		response.BadRequest(c, err.Error())
	case errors.Is(err, models.ErrSessionConflict):
		response.Conflict(c, err.Error())
	default:
		response.Internal(c, "internal error")
	}
}
