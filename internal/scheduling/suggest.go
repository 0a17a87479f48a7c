package scheduling

import (
	"context"

	"github.com/google/uuid"

	"github.com/talentloop/scheduling-api/internal/model"
)

// JobContext describes the opening a candidate is interviewing for, passed
// through to whatever produces slot suggestions.
type JobContext struct {
	JobID uuid.UUID           `json:"job_id"`
	Title string              `json:"title"`
	Type  model.InterviewType `json:"type"`
}

// SlotSuggester is an optional capability the scheduling flow consults before
// generating the grid. Whether suggestions come from a recruiter's picks or a
// recommendation engine is invisible to the core; results still pass through
// conflict detection like any other slot.
type SlotSuggester interface {
	Suggest(ctx context.Context, candidateID uuid.UUID, job JobContext) ([]model.TimeSlot, error)
}
