package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/talentloop/scheduling-api/internal/model"
)

// Proposal is a slot a caller wants to book, plus everyone it would occupy.
type Proposal struct {
	CandidateID    uuid.UUID
	InterviewerIDs []uuid.UUID
	Date           time.Time
	StartTime      time.Time
	EndTime        time.Time
	// ExcludeID skips one existing interview, used when rescheduling so the
	// original booking does not conflict with its own replacement.
	ExcludeID *uuid.UUID
}

// ConflictResult tells the caller not just that a double-booking exists but
// who is double-booked and by which interviews.
type ConflictResult struct {
	HasConflict               bool        `json:"has_conflict"`
	ConflictingInterviewIDs   []uuid.UUID `json:"conflicting_interview_ids"`
	ConflictingParticipantIDs []uuid.UUID `json:"conflicting_participant_ids"`
}

// Detector checks a proposed slot against an externally supplied snapshot of
// existing interviews. It holds no state of its own; read-check-write
// atomicity around it is the caller's contract.
type Detector struct{}

func NewDetector() *Detector {
	return &Detector{}
}

// Check runs a half-open interval overlap test per shared participant.
// [a, b) against [c, d) overlaps iff a < d && c < b, so an interview ending
// at 11:00 never conflicts with one starting at 11:00. Terminal interviews
// are skipped: a rescheduled booking's superseded predecessor no longer
// occupies its slot, only the live replacement does.
func (d *Detector) Check(proposed Proposal, existing []model.Interview) ConflictResult {
	result := ConflictResult{}
	seenInterviews := make(map[uuid.UUID]struct{})
	seenParticipants := make(map[uuid.UUID]struct{})

	proposedIDs := make(map[uuid.UUID]struct{}, len(proposed.InterviewerIDs)+1)
	for _, id := range proposed.InterviewerIDs {
		proposedIDs[id] = struct{}{}
	}
	proposedIDs[proposed.CandidateID] = struct{}{}

	for i := range existing {
		iv := &existing[i]
		if iv.Status.IsTerminal() {
			continue
		}
		if proposed.ExcludeID != nil && iv.ID == *proposed.ExcludeID {
			continue
		}
		if !sameDay(proposed.Date, iv.Date) {
			continue
		}
		if !overlaps(proposed.StartTime, proposed.EndTime, iv.StartTime, iv.EndTime) {
			continue
		}

		for _, pid := range iv.ParticipantIDs() {
			if _, shared := proposedIDs[pid]; !shared {
				continue
			}
			result.HasConflict = true
			if _, ok := seenInterviews[iv.ID]; !ok {
				seenInterviews[iv.ID] = struct{}{}
				result.ConflictingInterviewIDs = append(result.ConflictingInterviewIDs, iv.ID)
			}
			if _, ok := seenParticipants[pid]; !ok {
				seenParticipants[pid] = struct{}{}
				result.ConflictingParticipantIDs = append(result.ConflictingParticipantIDs, pid)
			}
		}
	}
	return result
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.UTC().Date()
	y2, m2, d2 := b.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
