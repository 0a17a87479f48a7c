package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/talentloop/scheduling-api/internal/middleware"
	apperrors "github.com/talentloop/scheduling-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// Error renders an application error with its HTTP status. AppErrors ride
// along in full so clients see conflict attribution and legal next states.
func Error(c *gin.Context, err error) {
	status := middleware.StatusForError(err)
	resp := NewErrorResponse(err.Error())
	if appErr, ok := err.(*apperrors.AppError); ok {
		resp.Message = appErr.Message
		resp.Error = appErr
	}
	c.AbortWithStatusJSON(status, resp)
}
