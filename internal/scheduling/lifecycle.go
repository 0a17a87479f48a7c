// Interview lifecycle state machine.
//
// Valid status graph:
//
//	scheduled ──► confirmed ──► in_progress ──► pending_feedback ──► completed
//	    │             │              │
//	    │             │              └──► no_show
//	    ├─────────────┼──► canceled
//	    └─────────────┴──► rescheduled
//
// completed, canceled, rescheduled and no_show are terminal. A reschedule
// never mutates the terminal record; it spawns a new aggregate with a fresh
// id and links the two.
package scheduling

import (
	"github.com/talentloop/scheduling-api/internal/model"
	apperrors "github.com/talentloop/scheduling-api/pkg/errors"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[model.InterviewStatus][]model.InterviewStatus{
	model.InterviewStatusScheduled: {
		model.InterviewStatusConfirmed,
		model.InterviewStatusInProgress,
		model.InterviewStatusCanceled,
		model.InterviewStatusRescheduled,
		model.InterviewStatusNoShow,
	},
	model.InterviewStatusConfirmed: {
		model.InterviewStatusInProgress,
		model.InterviewStatusCanceled,
		model.InterviewStatusRescheduled,
		model.InterviewStatusNoShow,
	},
	model.InterviewStatusInProgress: {
		model.InterviewStatusPendingFeedback,
		model.InterviewStatusNoShow,
	},
	model.InterviewStatusPendingFeedback: {
		model.InterviewStatusCompleted,
	},
	// terminal statuses have no outgoing transitions
}

// transitionTriggers names each legal edge for the event stream.
var transitionTriggers = map[model.InterviewStatus]string{
	model.InterviewStatusScheduled:       "scheduled",
	model.InterviewStatusConfirmed:       "participant_acknowledged",
	model.InterviewStatusInProgress:      "interview_started",
	model.InterviewStatusPendingFeedback: "interview_ended",
	model.InterviewStatusCompleted:       "feedback_submitted",
	model.InterviewStatusCanceled:        "canceled",
	model.InterviewStatusRescheduled:     "rescheduled",
	model.InterviewStatusNoShow:          "no_show",
}

// LegalNextStates returns the statuses reachable from the given one. Empty
// for terminal statuses.
func LegalNextStates(from model.InterviewStatus) []model.InterviewStatus {
	allowed := validTransitions[from]
	out := make([]model.InterviewStatus, len(allowed))
	copy(out, allowed)
	return out
}

// CanTransition reports whether moving from → to is permitted.
func CanTransition(from, to model.InterviewStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// TriggerFor names the edge that enters the given status.
func TriggerFor(to model.InterviewStatus) string {
	return transitionTriggers[to]
}

// Transition mutates the interview's status if the move is legal. On an
// illegal move it returns an InvalidTransition error carrying the current
// status and the legal next-state set, and leaves the interview untouched.
func Transition(iv *model.Interview, to model.InterviewStatus) error {
	if !CanTransition(iv.Status, to) {
		legal := LegalNextStates(iv.Status)
		names := make([]string, len(legal))
		for i, s := range legal {
			names[i] = string(s)
		}
		return apperrors.NewInvalidTransition(string(iv.Status), string(to), names)
	}
	iv.Status = to
	return nil
}

// ParseStatus converts a raw string to an InterviewStatus, rejecting unknown
// values before they reach the transition table.
func ParseStatus(s string) (model.InterviewStatus, bool) {
	st := model.InterviewStatus(s)
	switch st {
	case model.InterviewStatusScheduled, model.InterviewStatusConfirmed,
		model.InterviewStatusInProgress, model.InterviewStatusPendingFeedback,
		model.InterviewStatusCompleted, model.InterviewStatusCanceled,
		model.InterviewStatusRescheduled, model.InterviewStatusNoShow:
		return st, true
	}
	return "", false
}
