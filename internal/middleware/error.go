package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/talentloop/scheduling-api/pkg/errors"
)

// ErrorResponse is the standard error envelope. Scheduling errors carry the
// full AppError so callers see conflict attribution and legal next states.
type ErrorResponse struct {
	Code    int                 `json:"code"`
	Message string              `json:"message"`
	TraceID string              `json:"trace_id,omitempty"`
	Detail  *apperrors.AppError `json:"detail,omitempty"`
}

// ErrorHandler renders errors attached via c.Error into the envelope.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		traceID := c.GetString(ContextRequestID)
		lastErr := c.Errors.Last().Err

		log.Error().
			Err(lastErr).
			Str("request_id", traceID).
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Msg("request error")

		status := StatusForError(lastErr)
		resp := ErrorResponse{
			Code:    status,
			Message: lastErr.Error(),
			TraceID: traceID,
		}
		if appErr, ok := lastErr.(*apperrors.AppError); ok {
			resp.Message = appErr.Message
			resp.Detail = appErr
		}
		c.JSON(status, resp)
	}
}

// StatusForError maps application error codes onto HTTP statuses.
func StatusForError(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrBadRequest:
		return http.StatusBadRequest
	case apperrors.ErrUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrForbidden:
		return http.StatusForbidden
	case apperrors.ErrMalformedParticipantSet:
		return http.StatusUnprocessableEntity
	case apperrors.ErrNoAvailability, apperrors.ErrSlotConflict, apperrors.ErrInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
