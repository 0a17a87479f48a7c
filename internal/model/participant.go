package model

import (
	"time"

	"github.com/google/uuid"
)

type ParticipantRole string

const (
	ParticipantRoleInterviewer ParticipantRole = "interviewer"
	ParticipantRoleCandidate   ParticipantRole = "candidate"
)

// Participant is a read-only view of an interviewer or candidate supplied by
// the identity/profile collaborator. The scheduler never mutates it.
type Participant struct {
	ID             uuid.UUID          `json:"id" db:"id"`
	Role           ParticipantRole    `json:"role" db:"role"`
	Name           string             `json:"name" db:"name"`
	Email          string             `json:"email" db:"email"`
	TimeZoneOffset float64            `json:"time_zone_offset" db:"time_zone_offset"`
	Availability   []AvailabilityRule `json:"availability"`
}

// AvailabilityRule declares a recurring weekly or date-specific range of free
// local hours. Hours are fractional to allow half-hour boundaries.
type AvailabilityRule struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	ParticipantID uuid.UUID     `json:"participant_id" db:"participant_id"`
	Weekday       *time.Weekday `json:"weekday,omitempty" db:"weekday"`
	Date          *time.Time    `json:"date,omitempty" db:"date"`
	StartHour     float64       `json:"start_hour" db:"start_hour"`
	EndHour       float64       `json:"end_hour" db:"end_hour"`
}

// AppliesTo reports whether the rule is in effect on the given calendar day.
// Date-specific rules take the day's date; weekly rules match the weekday.
func (r AvailabilityRule) AppliesTo(day time.Time) bool {
	if r.Date != nil {
		y1, m1, d1 := r.Date.UTC().Date()
		y2, m2, d2 := day.UTC().Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	}
	if r.Weekday != nil {
		return *r.Weekday == day.UTC().Weekday()
	}
	return false
}

// LocalHoursOn expands the participant's rules for a day into the set of free
// whole-hour starts in the participant's local clock.
func (p Participant) LocalHoursOn(day time.Time) []float64 {
	var hours []float64
	for _, rule := range p.Availability {
		if !rule.AppliesTo(day) {
			continue
		}
		for h := rule.StartHour; h < rule.EndHour; h++ {
			hours = append(hours, h)
		}
	}
	return hours
}
