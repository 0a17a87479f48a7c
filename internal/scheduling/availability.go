package scheduling

import (
	"sort"
	"time"

	"github.com/talentloop/scheduling-api/internal/model"
)

// HourSet is a set of UTC hour-of-day values.
type HourSet map[float64]struct{}

func NewHourSet(hours ...float64) HourSet {
	s := make(HourSet, len(hours))
	for _, h := range hours {
		s[h] = struct{}{}
	}
	return s
}

func (s HourSet) Contains(h float64) bool {
	_, ok := s[h]
	return ok
}

// Sorted returns the hours in ascending order.
func (s HourSet) Sorted() []float64 {
	out := make([]float64, 0, len(s))
	for h := range s {
		out = append(out, h)
	}
	sort.Float64s(out)
	return out
}

// Intersect keeps only hours present in both sets.
func (s HourSet) Intersect(other HourSet) HourSet {
	out := make(HourSet)
	for h := range s {
		if other.Contains(h) {
			out[h] = struct{}{}
		}
	}
	return out
}

// BusinessWindow bounds the bookable grid, expressed in UTC reference hours.
type BusinessWindow struct {
	StartHour float64
	EndHour   float64
}

// Hours expands the window into its hour starts.
func (w BusinessWindow) Hours() HourSet {
	s := make(HourSet)
	for h := w.StartHour; h < w.EndHour; h++ {
		s[h] = struct{}{}
	}
	return s
}

// Resolver computes the hours on a day at which every participant in a roster
// is free, all in UTC.
type Resolver struct {
	Window BusinessWindow
}

func NewResolver(window BusinessWindow) *Resolver {
	return &Resolver{Window: window}
}

// Resolve intersects the UTC-normalized availability of all participants,
// bounded by the business window. An hour survives only if every participant
// is free at it, so adding a participant can never widen the result. With an
// empty roster there is no participant constraint and the full window is
// returned. The result depends only on the roster's membership, not its
// order.
//
// An empty result is a legitimate answer, not an error; callers surface it as
// a no-availability condition rather than substituting a fallback slot.
func (r *Resolver) Resolve(day time.Time, participants []model.Participant) HourSet {
	group := r.Window.Hours()
	for _, p := range participants {
		group = group.Intersect(utcHoursOn(day, p))
		if len(group) == 0 {
			return group
		}
	}
	return group
}

// utcHoursOn collects the participant's free UTC hours on the given UTC day.
// A local hour near midnight can land on the adjacent UTC day, so rules from
// the neighboring local days are expanded too and each converted hour is kept
// only when its day-carry lands it back on the requested day. A UTC+13
// participant free Monday 02:00-06:00 local is free Sunday 13:00-17:00 UTC,
// not Monday.
func utcHoursOn(day time.Time, p model.Participant) HourSet {
	hours := make(HourSet)
	for delta := -1; delta <= 1; delta++ {
		localDay := day.AddDate(0, 0, delta)
		for _, local := range p.LocalHoursOn(localDay) {
			utc, dayShift := ToUTCHour(local, p.TimeZoneOffset)
			if delta+dayShift == 0 {
				hours[utc] = struct{}{}
			}
		}
	}
	return hours
}
