package scheduling

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentloop/scheduling-api/internal/model"
)

var testDay = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC) // a Monday

func participantWithHours(offset float64, ranges ...[2]float64) model.Participant {
	p := model.Participant{
		ID:             uuid.New(),
		Role:           model.ParticipantRoleInterviewer,
		TimeZoneOffset: offset,
	}
	date := testDay
	for _, r := range ranges {
		p.Availability = append(p.Availability, model.AvailabilityRule{
			ID:        uuid.New(),
			Date:      &date,
			StartHour: r[0],
			EndHour:   r[1],
		})
	}
	return p
}

func TestResolveIntersection(t *testing.T) {
	// Interviewer A free 9-12 and 14-16, B free 10-11 and 14-15: only the
	// common hours survive.
	a := participantWithHours(0, [2]float64{9, 12}, [2]float64{14, 16})
	b := participantWithHours(0, [2]float64{10, 11}, [2]float64{14, 15})

	r := NewResolver(BusinessWindow{StartHour: 9, EndHour: 17})
	got := r.Resolve(testDay, []model.Participant{a, b})

	assert.ElementsMatch(t, []float64{10, 14}, got.Sorted())
}

func TestResolveZeroParticipants(t *testing.T) {
	r := NewResolver(BusinessWindow{StartHour: 9, EndHour: 17})
	got := r.Resolve(testDay, nil)

	assert.ElementsMatch(t, []float64{9, 10, 11, 12, 13, 14, 15, 16}, got.Sorted())
}

func TestResolveEmptyWhenOneParticipantHasNoHours(t *testing.T) {
	a := participantWithHours(0, [2]float64{9, 17})
	empty := model.Participant{ID: uuid.New(), Role: model.ParticipantRoleCandidate}

	r := NewResolver(BusinessWindow{StartHour: 9, EndHour: 17})
	got := r.Resolve(testDay, []model.Participant{a, empty})

	assert.Empty(t, got)
}

func TestResolveCrossTimezone(t *testing.T) {
	// A candidate in UTC+5 free 14-17 local is free 9-12 UTC; an interviewer
	// in UTC free 9-11 overlaps at 9 and 10.
	candidate := participantWithHours(5, [2]float64{14, 17})
	candidate.Role = model.ParticipantRoleCandidate
	interviewer := participantWithHours(0, [2]float64{9, 11})

	r := NewResolver(BusinessWindow{StartHour: 9, EndHour: 17})
	got := r.Resolve(testDay, []model.Participant{candidate, interviewer})

	assert.ElementsMatch(t, []float64{9, 10}, got.Sorted())
}

func TestResolveCrossMidnightLandsOnPreviousUTCDay(t *testing.T) {
	// A participant at UTC+13 free Monday 02:00-06:00 local is actually free
	// Sunday 13:00-17:00 UTC. Monday must come back empty; offering Monday
	// 13:00 UTC would book an hour the participant cannot attend.
	monday := testDay
	p := model.Participant{
		ID:             uuid.New(),
		Role:           model.ParticipantRoleInterviewer,
		TimeZoneOffset: 13,
		Availability: []model.AvailabilityRule{
			{ID: uuid.New(), Date: &monday, StartHour: 2, EndHour: 6},
		},
	}

	r := NewResolver(BusinessWindow{StartHour: 9, EndHour: 17})
	assert.Empty(t, r.Resolve(monday, []model.Participant{p}))

	sunday := monday.AddDate(0, 0, -1)
	assert.ElementsMatch(t, []float64{13, 14, 15, 16},
		r.Resolve(sunday, []model.Participant{p}).Sorted())
}

func TestResolveCrossMidnightLandsOnNextUTCDay(t *testing.T) {
	// The mirror case: UTC-10, free Monday 23:00 through Tuesday 02:00 local
	// maps to Tuesday 09:00-12:00 UTC.
	monday := testDay
	tuesdayLocal := testDay.AddDate(0, 0, 1)
	p := model.Participant{
		ID:             uuid.New(),
		Role:           model.ParticipantRoleInterviewer,
		TimeZoneOffset: -10,
		Availability: []model.AvailabilityRule{
			{ID: uuid.New(), Date: &monday, StartHour: 23, EndHour: 24},
			{ID: uuid.New(), Date: &tuesdayLocal, StartHour: 0, EndHour: 2},
		},
	}

	r := NewResolver(BusinessWindow{StartHour: 9, EndHour: 17})
	assert.Empty(t, r.Resolve(monday, []model.Participant{p}))

	tuesday := monday.AddDate(0, 0, 1)
	assert.ElementsMatch(t, []float64{9, 10, 11},
		r.Resolve(tuesday, []model.Participant{p}).Sorted())
}

func TestResolveOrderIndependent(t *testing.T) {
	participants := []model.Participant{
		participantWithHours(0, [2]float64{9, 15}),
		participantWithHours(-3, [2]float64{6, 12}),
		participantWithHours(2, [2]float64{11, 18}),
	}

	r := NewResolver(BusinessWindow{StartHour: 9, EndHour: 17})
	want := r.Resolve(testDay, participants).Sorted()
	require.NotEmpty(t, want)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		shuffled := make([]model.Participant, len(participants))
		copy(shuffled, participants)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		assert.Equal(t, want, r.Resolve(testDay, shuffled).Sorted())
	}
}

func TestResolveSubsetMonotone(t *testing.T) {
	// Adding a participant never increases availability.
	rng := rand.New(rand.NewSource(42))
	r := NewResolver(BusinessWindow{StartHour: 9, EndHour: 17})

	for trial := 0; trial < 50; trial++ {
		var roster []model.Participant
		for i := 0; i < 1+rng.Intn(5); i++ {
			start := float64(6 + rng.Intn(10))
			end := start + float64(1+rng.Intn(8))
			roster = append(roster, participantWithHours(float64(rng.Intn(7)-3), [2]float64{start, end}))
		}

		full := r.Resolve(testDay, roster)
		subset := roster[:1+rng.Intn(len(roster))]
		sub := r.Resolve(testDay, subset)

		for h := range full {
			assert.True(t, sub.Contains(h),
				"hour %v available for full roster but not subset", h)
		}
	}
}

func TestWeekdayRuleApplies(t *testing.T) {
	monday := time.Monday
	p := model.Participant{
		ID:             uuid.New(),
		TimeZoneOffset: 0,
		Availability: []model.AvailabilityRule{
			{ID: uuid.New(), Weekday: &monday, StartHour: 9, EndHour: 11},
		},
	}

	r := NewResolver(BusinessWindow{StartHour: 9, EndHour: 17})
	assert.ElementsMatch(t, []float64{9, 10}, r.Resolve(testDay, []model.Participant{p}).Sorted())

	tuesday := testDay.AddDate(0, 0, 1)
	assert.Empty(t, r.Resolve(tuesday, []model.Participant{p}))
}
