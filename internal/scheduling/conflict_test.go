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

func at(hour, min int) time.Time {
	return time.Date(2025, 6, 2, hour, min, 0, 0, time.UTC)
}

func existingInterview(status model.InterviewStatus, interviewerID, candidateID uuid.UUID, start, end time.Time) model.Interview {
	iv := model.Interview{
		CandidateID:    candidateID,
		InterviewerIDs: []uuid.UUID{interviewerID},
		Status:         status,
		Date:           testDay,
		StartTime:      start,
		EndTime:        end,
	}
	iv.ID = uuid.New()
	return iv
}

func TestCheckOverlappingInterviewer(t *testing.T) {
	interviewer := uuid.New()
	existing := existingInterview(model.InterviewStatusScheduled, interviewer, uuid.New(), at(10, 30), at(11, 30))

	d := NewDetector()
	result := d.Check(Proposal{
		CandidateID:    uuid.New(),
		InterviewerIDs: []uuid.UUID{interviewer},
		Date:           testDay,
		StartTime:      at(10, 0),
		EndTime:        at(11, 0),
	}, []model.Interview{existing})

	assert.True(t, result.HasConflict)
	assert.Equal(t, []uuid.UUID{existing.ID}, result.ConflictingInterviewIDs)
	assert.Equal(t, []uuid.UUID{interviewer}, result.ConflictingParticipantIDs)
}

func TestCheckHalfOpenBoundary(t *testing.T) {
	// Back-to-back bookings never conflict: [10,11) and [11,12) are disjoint.
	interviewer := uuid.New()
	existing := existingInterview(model.InterviewStatusScheduled, interviewer, uuid.New(), at(10, 0), at(11, 0))

	d := NewDetector()
	result := d.Check(Proposal{
		CandidateID:    uuid.New(),
		InterviewerIDs: []uuid.UUID{interviewer},
		Date:           testDay,
		StartTime:      at(11, 0),
		EndTime:        at(12, 0),
	}, []model.Interview{existing})

	assert.False(t, result.HasConflict)
}

func TestCheckCandidateDoubleBooking(t *testing.T) {
	candidate := uuid.New()
	existing := existingInterview(model.InterviewStatusConfirmed, uuid.New(), candidate, at(14, 0), at(15, 0))

	d := NewDetector()
	result := d.Check(Proposal{
		CandidateID:    candidate,
		InterviewerIDs: []uuid.UUID{uuid.New()},
		Date:           testDay,
		StartTime:      at(14, 30),
		EndTime:        at(15, 30),
	}, []model.Interview{existing})

	assert.True(t, result.HasConflict)
	assert.Equal(t, []uuid.UUID{candidate}, result.ConflictingParticipantIDs)
}

func TestCheckIgnoresTerminalInterviews(t *testing.T) {
	interviewer := uuid.New()
	d := NewDetector()

	for _, status := range []model.InterviewStatus{
		model.InterviewStatusCompleted,
		model.InterviewStatusCanceled,
		model.InterviewStatusRescheduled,
		model.InterviewStatusNoShow,
	} {
		existing := existingInterview(status, interviewer, uuid.New(), at(10, 0), at(11, 0))
		result := d.Check(Proposal{
			CandidateID:    uuid.New(),
			InterviewerIDs: []uuid.UUID{interviewer},
			Date:           testDay,
			StartTime:      at(10, 0),
			EndTime:        at(11, 0),
		}, []model.Interview{existing})

		assert.False(t, result.HasConflict, "status %s should not conflict", status)
	}
}

func TestCheckRescheduledPredecessorExcluded(t *testing.T) {
	// A superseded booking is terminal; only its live replacement occupies
	// the slot.
	interviewer := uuid.New()
	old := existingInterview(model.InterviewStatusRescheduled, interviewer, uuid.New(), at(10, 0), at(11, 0))
	replacement := existingInterview(model.InterviewStatusScheduled, interviewer, old.CandidateID, at(13, 0), at(14, 0))
	old.RescheduledTo = &replacement.ID
	replacement.RescheduledFrom = &old.ID

	d := NewDetector()
	result := d.Check(Proposal{
		CandidateID:    uuid.New(),
		InterviewerIDs: []uuid.UUID{interviewer},
		Date:           testDay,
		StartTime:      at(10, 0),
		EndTime:        at(11, 0),
	}, []model.Interview{old, replacement})
	assert.False(t, result.HasConflict, "slot vacated by reschedule must be bookable")

	result = d.Check(Proposal{
		CandidateID:    uuid.New(),
		InterviewerIDs: []uuid.UUID{interviewer},
		Date:           testDay,
		StartTime:      at(13, 30),
		EndTime:        at(14, 30),
	}, []model.Interview{old, replacement})
	assert.True(t, result.HasConflict, "live replacement still occupies its slot")
}

func TestCheckExcludeID(t *testing.T) {
	interviewer := uuid.New()
	existing := existingInterview(model.InterviewStatusScheduled, interviewer, uuid.New(), at(10, 0), at(11, 0))

	d := NewDetector()
	result := d.Check(Proposal{
		CandidateID:    existing.CandidateID,
		InterviewerIDs: []uuid.UUID{interviewer},
		Date:           testDay,
		StartTime:      at(10, 0),
		EndTime:        at(11, 0),
		ExcludeID:      &existing.ID,
	}, []model.Interview{existing})

	assert.False(t, result.HasConflict, "an interview never conflicts with itself during reschedule")
}

func TestCheckDifferentDayNoConflict(t *testing.T) {
	interviewer := uuid.New()
	existing := existingInterview(model.InterviewStatusScheduled, interviewer, uuid.New(), at(10, 0), at(11, 0))

	d := NewDetector()
	result := d.Check(Proposal{
		CandidateID:    uuid.New(),
		InterviewerIDs: []uuid.UUID{interviewer},
		Date:           testDay.AddDate(0, 0, 1),
		StartTime:      at(10, 0).AddDate(0, 0, 1),
		EndTime:        at(11, 0).AddDate(0, 0, 1),
	}, []model.Interview{existing})

	assert.False(t, result.HasConflict)
}

func TestCheckCatchesAllSyntheticOverlaps(t *testing.T) {
	// Random non-terminal bookings for one interviewer: every generated
	// overlap must be caught, every disjoint pair must pass.
	rng := rand.New(rand.NewSource(7))
	interviewer := uuid.New()
	d := NewDetector()

	for trial := 0; trial < 200; trial++ {
		exStart := 8 + rng.Intn(8)
		exLen := 1 + rng.Intn(3)
		existing := existingInterview(model.InterviewStatusScheduled, interviewer, uuid.New(),
			at(exStart, 0), at(exStart+exLen, 0))

		prStart := 8 + rng.Intn(8)
		prLen := 1 + rng.Intn(3)
		proposal := Proposal{
			CandidateID:    uuid.New(),
			InterviewerIDs: []uuid.UUID{interviewer},
			Date:           testDay,
			StartTime:      at(prStart, 0),
			EndTime:        at(prStart+prLen, 0),
		}

		wantOverlap := prStart < exStart+exLen && exStart < prStart+prLen
		result := d.Check(proposal, []model.Interview{existing})
		require.Equal(t, wantOverlap, result.HasConflict,
			"existing [%d,%d) proposed [%d,%d)", exStart, exStart+exLen, prStart, prStart+prLen)
	}
}
