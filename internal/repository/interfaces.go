package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/talentloop/scheduling-api/internal/model"
)

// All repository interfaces in one file
type (
	// InterviewRepository owns durability for interview aggregates. The
	// scheduling core only decides; this collaborator persists.
	InterviewRepository interface {
		Create(ctx context.Context, interview *model.Interview) error
		Get(ctx context.Context, id uuid.UUID) (*model.Interview, error)
		UpdateStatus(ctx context.Context, interview *model.Interview) error
		LinkReschedule(ctx context.Context, originalID, replacementID uuid.UUID) error
		List(ctx context.Context, filters *model.InterviewFilters) ([]*model.Interview, error)
		// ListForParticipants returns every non-terminal interview on a date
		// involving any of the given participant ids, the snapshot the
		// conflict detector runs against.
		ListForParticipants(ctx context.Context, participantIDs []uuid.UUID, date time.Time) ([]model.Interview, error)
		AttachDocument(ctx context.Context, doc *model.Document) error
		AttachFeedback(ctx context.Context, fb *model.Feedback) error
	}

	// ParticipantRepository is a read-only view over the identity/profile
	// collaborator's data.
	ParticipantRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Participant, error)
		GetMany(ctx context.Context, ids []uuid.UUID) ([]model.Participant, error)
	}

	ReminderRepository interface {
		CreateBatch(ctx context.Context, reminders []model.Reminder) error
		ListPending(ctx context.Context, interviewID uuid.UUID) ([]model.Reminder, error)
		ListDue(ctx context.Context, before time.Time, limit int) ([]model.Reminder, error)
		MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error
		MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
		InvalidatePending(ctx context.Context, interviewID uuid.UUID) (int64, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string, retryAt time.Time) error
	}
)
