package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/talentloop/scheduling-api/internal/model"
)

// Generator renders a resolved availability set into the full business-hours
// slot grid. Unavailable hours are emitted as blocked slots rather than
// omitted, so consumers can show why an hour is not bookable.
type Generator struct {
	Window BusinessWindow
}

func NewGenerator(window BusinessWindow) *Generator {
	return &Generator{Window: window}
}

// Generate produces one 1-hour slot per business hour. Every slot gets a
// fresh uuid: the same hour recurs across days, so ids must never derive
// from the hour value.
func (g *Generator) Generate(day time.Time, available HourSet) []model.TimeSlot {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	var slots []model.TimeSlot
	for h := g.Window.StartHour; h < g.Window.EndHour; h++ {
		slots = append(slots, model.TimeSlot{
			ID:          uuid.New(),
			Day:         day,
			StartHour:   h,
			EndHour:     h + 1,
			IsAvailable: available.Contains(h),
		})
	}
	return slots
}
