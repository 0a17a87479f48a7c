package model

import (
	"time"

	"github.com/google/uuid"
)

type InterviewStatus string

const (
	InterviewStatusScheduled       InterviewStatus = "scheduled"
	InterviewStatusConfirmed       InterviewStatus = "confirmed"
	InterviewStatusInProgress      InterviewStatus = "in_progress"
	InterviewStatusPendingFeedback InterviewStatus = "pending_feedback"
	InterviewStatusCompleted       InterviewStatus = "completed"
	InterviewStatusCanceled        InterviewStatus = "canceled"
	InterviewStatusRescheduled     InterviewStatus = "rescheduled"
	InterviewStatusNoShow          InterviewStatus = "no_show"
)

// IsTerminal reports whether no further transition may leave the status.
func (s InterviewStatus) IsTerminal() bool {
	switch s {
	case InterviewStatusCompleted, InterviewStatusCanceled,
		InterviewStatusRescheduled, InterviewStatusNoShow:
		return true
	}
	return false
}

type InterviewType string

const (
	InterviewTypePhoneScreen InterviewType = "phone_screen"
	InterviewTypeTechnical   InterviewType = "technical"
	InterviewTypeBehavioral  InterviewType = "behavioral"
	InterviewTypePanel       InterviewType = "panel"
	InterviewTypeFinal       InterviewType = "final"
)

type ConferencingDetails struct {
	Provider string `json:"provider" db:"conferencing_provider"`
	URL      string `json:"url" db:"conferencing_url"`
}

type ATSIntegration struct {
	SyncEnabled bool   `json:"sync_enabled" db:"ats_sync_enabled"`
	ExternalRef string `json:"external_ref,omitempty" db:"ats_external_ref"`
}

// Interview is the aggregate root of a single scheduling attempt. Status is
// the only field that mutates after creation; date and times change only
// through a reschedule, which spawns a new aggregate and stamps this one
// terminal.
type Interview struct {
	Base
	CandidateID     uuid.UUID            `json:"candidate_id" db:"candidate_id"`
	InterviewerIDs  []uuid.UUID          `json:"interviewer_ids"`
	Type            InterviewType        `json:"type" db:"type"`
	Status          InterviewStatus      `json:"status" db:"status"`
	Date            time.Time            `json:"date" db:"date"`
	StartTime       time.Time            `json:"start_time" db:"start_time"`
	EndTime         time.Time            `json:"end_time" db:"end_time"`
	TimeZoneOffset  float64              `json:"time_zone_offset" db:"time_zone_offset"`
	Conferencing    *ConferencingDetails `json:"conferencing,omitempty"`
	Documents       []Document           `json:"documents,omitempty"`
	Notifications   NotificationSettings `json:"notifications"`
	Feedback        []Feedback           `json:"feedback,omitempty"`
	ATS             ATSIntegration       `json:"ats_integration"`
	RescheduledFrom *uuid.UUID           `json:"rescheduled_from,omitempty" db:"rescheduled_from"`
	RescheduledTo   *uuid.UUID           `json:"rescheduled_to,omitempty" db:"rescheduled_to"`
	CancelReason    *string              `json:"cancel_reason,omitempty" db:"cancel_reason"`
}

// ParticipantIDs returns every identity the interview occupies: all
// interviewers plus the candidate.
func (i *Interview) ParticipantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(i.InterviewerIDs)+1)
	ids = append(ids, i.InterviewerIDs...)
	ids = append(ids, i.CandidateID)
	return ids
}

type CreateInterviewRequest struct {
	CandidateID    uuid.UUID             `json:"candidate_id" binding:"required"`
	InterviewerIDs []uuid.UUID           `json:"interviewer_ids"`
	Type           InterviewType         `json:"type" binding:"required,oneof=phone_screen technical behavioral panel final"`
	Date           time.Time             `json:"date" binding:"required"`
	StartTime      time.Time             `json:"start_time" binding:"required"`
	EndTime        time.Time             `json:"end_time" binding:"required,gtfield=StartTime"`
	TimeZoneOffset float64               `json:"time_zone_offset"`
	Conferencing   *ConferencingDetails  `json:"conferencing"`
	Notifications  *NotificationSettings `json:"notifications"`
	ATS            *ATSIntegration       `json:"ats_integration"`
}

type TransitionRequest struct {
	Status InterviewStatus `json:"status" binding:"required"`
	Reason *string         `json:"reason"`
}

type RescheduleRequest struct {
	Date      time.Time `json:"date" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required,gtfield=StartTime"`
}

type InterviewFilters struct {
	CandidateID   uuid.UUID
	InterviewerID uuid.UUID
	Status        InterviewStatus
	StartDate     time.Time
	EndDate       time.Time
	Pagination    Pagination
}
