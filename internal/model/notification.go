package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationSettings is owned by the Interview and read when computing
// reminder fire times. ReminderTimes holds hours-before-start offsets.
type NotificationSettings struct {
	SendEmail     bool      `json:"send_email" db:"send_email"`
	SendSMS       bool      `json:"send_sms" db:"send_sms"`
	SendPush      bool      `json:"send_push" db:"send_push"`
	ReminderTimes []float64 `json:"reminder_times"`
}

// DefaultNotificationSettings mirrors what the scheduling form pre-selects:
// email on, a day-before and an hour-before reminder.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		SendEmail:     true,
		ReminderTimes: []float64{24, 1},
	}
}

type ReminderStatus string

const (
	ReminderStatusPending     ReminderStatus = "pending"
	ReminderStatusSent        ReminderStatus = "sent"
	ReminderStatusFailed      ReminderStatus = "failed"
	ReminderStatusInvalidated ReminderStatus = "invalidated"
)

// Reminder is a single absolute fire time derived from an interview's start
// and one hours-before offset. FireAt is always UTC.
type Reminder struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	InterviewID uuid.UUID      `json:"interview_id" db:"interview_id"`
	HoursBefore float64        `json:"hours_before" db:"hours_before"`
	FireAt      time.Time      `json:"fire_at" db:"fire_at"`
	Status      ReminderStatus `json:"status" db:"status"`
	SentAt      *time.Time     `json:"sent_at,omitempty" db:"sent_at"`
	LastError   *string        `json:"last_error,omitempty" db:"last_error"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
