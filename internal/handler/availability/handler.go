package availability

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talentloop/scheduling-api/internal/handler"
	"github.com/talentloop/scheduling-api/internal/scheduling"
	"github.com/talentloop/scheduling-api/internal/service/availability"
	apperrors "github.com/talentloop/scheduling-api/pkg/errors"
)

type Handler struct {
	service *availability.Service
}

func NewHandler(service *availability.Service) *Handler {
	return &Handler{service: service}
}

// Resolve returns the UTC hours every listed participant has free on the
// given day. An empty intersection is a 409, not an empty list.
func (h *Handler) Resolve(c *gin.Context) {
	day, participantIDs, err := queryParams(c)
	if err != nil {
		handler.Error(c, err)
		return
	}

	hours, err := h.service.Resolve(c.Request.Context(), day, participantIDs)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"date":  day.Format("2006-01-02"),
		"hours": hours.Sorted(),
	}))
}

// Slots renders the full business-hours grid with per-slot bookability.
func (h *Handler) Slots(c *gin.Context) {
	day, participantIDs, err := queryParams(c)
	if err != nil {
		handler.Error(c, err)
		return
	}

	slots, err := h.service.Slots(c.Request.Context(), day, participantIDs)
	if err != nil && !apperrors.IsCode(err, apperrors.ErrNoAvailability) {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"date":  day.Format("2006-01-02"),
		"slots": slots,
	}))
}

type suggestRequest struct {
	CandidateID uuid.UUID             `json:"candidate_id" binding:"required"`
	Job         scheduling.JobContext `json:"job"`
}

func (h *Handler) Suggest(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	slots, err := h.service.Suggest(c.Request.Context(), req.CandidateID, req.Job)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"slots": slots}))
}

func queryParams(c *gin.Context) (time.Time, []uuid.UUID, error) {
	day, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		return time.Time{}, nil, apperrors.NewBadRequest("date must be YYYY-MM-DD", err)
	}

	raw := c.Query("participant_ids")
	if raw == "" {
		return day, nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			return time.Time{}, nil, apperrors.NewBadRequest("invalid participant ID: "+p, err)
		}
		ids = append(ids, id)
	}
	return day, ids, nil
}
