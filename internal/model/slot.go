package model

import (
	"time"

	"github.com/google/uuid"
)

// TimeSlot is an immutable bookable window on a calendar day. Slots are never
// edited after generation; a new grid is generated instead.
type TimeSlot struct {
	ID          uuid.UUID `json:"id"`
	Day         time.Time `json:"day"`
	StartHour   float64   `json:"start_hour"`
	EndHour     float64   `json:"end_hour"`
	IsAvailable bool      `json:"is_available"`
}

// Window converts the slot's hour bounds into absolute UTC instants on its day.
func (s TimeSlot) Window() (start, end time.Time) {
	midnight := time.Date(s.Day.Year(), s.Day.Month(), s.Day.Day(), 0, 0, 0, 0, time.UTC)
	start = midnight.Add(time.Duration(s.StartHour * float64(time.Hour)))
	end = midnight.Add(time.Duration(s.EndHour * float64(time.Hour)))
	return start, end
}
