package participant

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/talentloop/scheduling-api/internal/handler"
	"github.com/talentloop/scheduling-api/internal/repository"
	apperrors "github.com/talentloop/scheduling-api/pkg/errors"
)

// Participants are owned by the people directory; this surface is read-only.
type Handler struct {
	repo repository.ParticipantRepository
}

func NewHandler(repo repository.ParticipantRepository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		handler.Error(c, apperrors.NewBadRequest("invalid participant ID", err))
		return
	}

	p, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, apperrors.NewNotFound("participant", err))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}
