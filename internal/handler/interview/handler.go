package interview

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talentloop/scheduling-api/internal/handler"
	"github.com/talentloop/scheduling-api/internal/model"
	"github.com/talentloop/scheduling-api/internal/scheduling"
	"github.com/talentloop/scheduling-api/internal/service/interview"
	apperrors "github.com/talentloop/scheduling-api/pkg/errors"
)

type Handler struct {
	service *interview.Service
}

func NewHandler(service *interview.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	iv, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(iv))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.NewBadRequest("invalid interview ID", err))
		return
	}

	iv, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(iv))
}

func (h *Handler) List(c *gin.Context) {
	filters := &model.InterviewFilters{}

	if err := c.ShouldBindQuery(&filters.Pagination); err != nil {
		handler.Error(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	if id := c.Query("candidate_id"); id != "" {
		candidateID, err := uuid.Parse(id)
		if err != nil {
			handler.Error(c, apperrors.NewBadRequest("invalid candidate ID", err))
			return
		}
		filters.CandidateID = candidateID
	}

	if id := c.Query("interviewer_id"); id != "" {
		interviewerID, err := uuid.Parse(id)
		if err != nil {
			handler.Error(c, apperrors.NewBadRequest("invalid interviewer ID", err))
			return
		}
		filters.InterviewerID = interviewerID
	}

	if status := c.Query("status"); status != "" {
		st, ok := scheduling.ParseStatus(status)
		if !ok {
			handler.Error(c, apperrors.NewBadRequest("unknown status: "+status, nil))
			return
		}
		filters.Status = st
	}

	if date := c.Query("start_date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			handler.Error(c, apperrors.NewBadRequest("invalid start_date", err))
			return
		}
		filters.StartDate = parsed
	}

	if date := c.Query("end_date"); date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			handler.Error(c, apperrors.NewBadRequest("invalid end_date", err))
			return
		}
		filters.EndDate = parsed
	}

	interviews, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(interviews))
}

// Transition moves an interview through its lifecycle. The target status
// comes from the request body; illegal moves come back as 409 with the legal
// next-state set.
func (h *Handler) Transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.NewBadRequest("invalid interview ID", err))
		return
	}

	var req model.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	status, ok := scheduling.ParseStatus(string(req.Status))
	if !ok {
		handler.Error(c, apperrors.NewBadRequest("unknown status: "+string(req.Status), nil))
		return
	}

	iv, err := h.service.Transition(c.Request.Context(), id, status, req.Reason)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(iv))
}

func (h *Handler) Reschedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.NewBadRequest("invalid interview ID", err))
		return
	}

	var req model.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	replacement, err := h.service.Reschedule(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(replacement))
}

func (h *Handler) AttachFeedback(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.NewBadRequest("invalid interview ID", err))
		return
	}

	var req model.AttachFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handler.Error(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	iv, err := h.service.AttachFeedback(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(iv))
}

func (h *Handler) AttachDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.NewBadRequest("invalid interview ID", err))
		return
	}

	var doc model.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		handler.Error(c, apperrors.NewBadRequest(err.Error(), err))
		return
	}

	if err := h.service.AttachDocument(c.Request.Context(), id, &doc); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(doc))
}
