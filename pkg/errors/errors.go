package errors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`

	// Scheduling payloads, populated per kind so callers can branch and
	// render actionable detail instead of a bare message.
	ConflictingInterviewIDs   []uuid.UUID `json:"conflicting_interview_ids,omitempty"`
	ConflictingParticipantIDs []uuid.UUID `json:"conflicting_participant_ids,omitempty"`
	CurrentState              string      `json:"current_state,omitempty"`
	RequestedState            string      `json:"requested_state,omitempty"`
	LegalStates               []string    `json:"legal_states,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal
)

// Scheduling error codes
const (
	ErrNoAvailability ErrorCode = iota + 2000
	ErrSlotConflict
	ErrInvalidTransition
	ErrMalformedParticipantSet
)

func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// NewNoAvailability marks an empty availability intersection. Recoverable:
// the caller should offer a different day or participant set.
func NewNoAvailability(day string) *AppError {
	return &AppError{
		Code:    ErrNoAvailability,
		Message: fmt.Sprintf("no common availability on %s", day),
	}
}

// NewSlotConflict carries who is double-booked and by which interviews.
func NewSlotConflict(interviewIDs, participantIDs []uuid.UUID) *AppError {
	return &AppError{
		Code:                      ErrSlotConflict,
		Message:                   "proposed slot double-books a participant",
		ConflictingInterviewIDs:   interviewIDs,
		ConflictingParticipantIDs: participantIDs,
	}
}

// NewInvalidTransition reports an illegal lifecycle move together with the
// legal next-state set for UI surfacing.
func NewInvalidTransition(current, requested string, legal []string) *AppError {
	return &AppError{
		Code:           ErrInvalidTransition,
		Message:        fmt.Sprintf("cannot transition from %s to %s", current, requested),
		CurrentState:   current,
		RequestedState: requested,
		LegalStates:    legal,
	}
}

// NewMalformedParticipantSet rejects creation with no interviewers before any
// resolver or generator work runs.
func NewMalformedParticipantSet() *AppError {
	return &AppError{
		Code:    ErrMalformedParticipantSet,
		Message: "at least one interviewer is required",
	}
}

// CodeOf extracts the ErrorCode from any error wrapping an AppError, or zero.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return 0
}

// IsCode reports whether err wraps an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
