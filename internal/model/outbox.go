package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// OutboxEvent carries a lifecycle transition toward the ATS collaborator.
// Events are written in the same transaction scope as the status change and
// drained by the worker.
type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	RetryAt      *time.Time      `db:"retry_at" json:"retry_at,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// TransitionEvent is the payload published for every interview status change.
type TransitionEvent struct {
	InterviewID uuid.UUID       `json:"interview_id"`
	CandidateID uuid.UUID       `json:"candidate_id"`
	From        InterviewStatus `json:"from"`
	To          InterviewStatus `json:"to"`
	Trigger     string          `json:"trigger"`
	ExternalRef string          `json:"external_ref,omitempty"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
