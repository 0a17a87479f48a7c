package scheduling

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/talentloop/scheduling-api/internal/model"
)

// ComputeReminders derives absolute UTC fire times from an interview's start
// and its hours-before offsets. Offsets are deduplicated and anchored to the
// interview's start, never to the wall clock at scheduling time, so a
// reschedule recomputes everything from the new start.
//
// Fire times already in the past relative to now are dropped here, at read
// time. The filter is intentionally not baked into storage: a paused and
// resumed dispatcher re-reads pending rows and must still see reminders that
// are in the future for it.
func ComputeReminders(iv *model.Interview, now time.Time) []model.Reminder {
	offsets := normalizeOffsets(iv.Notifications.ReminderTimes)

	var reminders []model.Reminder
	for _, h := range offsets {
		fireAt := iv.StartTime.UTC().Add(-time.Duration(h * float64(time.Hour)))
		if !fireAt.After(now) {
			continue
		}
		reminders = append(reminders, model.Reminder{
			ID:          uuid.New(),
			InterviewID: iv.ID,
			HoursBefore: h,
			FireAt:      fireAt,
			Status:      model.ReminderStatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return reminders
}

// normalizeOffsets dedupes and sorts offsets descending, so the resulting
// fire times come out in strictly increasing order.
func normalizeOffsets(offsets []float64) []float64 {
	seen := make(map[float64]struct{}, len(offsets))
	out := make([]float64, 0, len(offsets))
	for _, h := range offsets {
		if h <= 0 {
			continue
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		out = append(out, h)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out
}
