package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/talentloop/scheduling-api/internal/model"
	"github.com/talentloop/scheduling-api/internal/repository"
	"github.com/talentloop/scheduling-api/internal/service/notification"
	"github.com/talentloop/scheduling-api/pkg/logger"
)

type ReminderDispatcherConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

// ReminderDispatcher polls for due reminders and hands them to the delivery
// channels. Invalidation happens at write time on cancel/reschedule, so a due
// pending reminder always belongs to a live interview; the terminal check
// here only closes the small race between the two.
type ReminderDispatcher struct {
	reminderRepo    repository.ReminderRepository
	interviewRepo   repository.InterviewRepository
	participantRepo repository.ParticipantRepository
	notifSvc        notification.Service
	config          ReminderDispatcherConfig
	logger          *logger.Logger
}

func NewReminderDispatcher(
	reminderRepo repository.ReminderRepository,
	interviewRepo repository.InterviewRepository,
	participantRepo repository.ParticipantRepository,
	notifSvc notification.Service,
	config ReminderDispatcherConfig,
	logger *logger.Logger,
) *ReminderDispatcher {
	if config.PollInterval <= 0 {
		panic("PollInterval must be greater than 0")
	}
	if config.BatchSize <= 0 {
		panic("BatchSize must be greater than 0")
	}

	return &ReminderDispatcher{
		reminderRepo:    reminderRepo,
		interviewRepo:   interviewRepo,
		participantRepo: participantRepo,
		notifSvc:        notifSvc,
		config:          config,
		logger:          logger,
	}
}

func (d *ReminderDispatcher) Start(ctx context.Context) {
	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	d.logger.Info("starting reminder dispatcher")

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("shutting down reminder dispatcher")
			return
		case <-ticker.C:
			if err := d.dispatchDue(ctx); err != nil {
				d.logger.Error(err, "failed to dispatch reminders")
			}
		}
	}
}

func (d *ReminderDispatcher) dispatchDue(ctx context.Context) error {
	due, err := d.reminderRepo.ListDue(ctx, time.Now().UTC(), d.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to list due reminders: %w", err)
	}

	for _, reminder := range due {
		if err := d.dispatchOne(ctx, reminder); err != nil {
			d.logger.Error(err, "failed to dispatch reminder",
				"reminder_id", reminder.ID.String(),
				"interview_id", reminder.InterviewID.String())
		}
	}
	return nil
}

func (d *ReminderDispatcher) dispatchOne(ctx context.Context, reminder model.Reminder) error {
	iv, err := d.interviewRepo.Get(ctx, reminder.InterviewID)
	if err != nil {
		return fmt.Errorf("failed to load interview: %w", err)
	}

	if iv.Status.IsTerminal() {
		if _, err := d.reminderRepo.InvalidatePending(ctx, iv.ID); err != nil {
			return fmt.Errorf("failed to invalidate stale reminder: %w", err)
		}
		return nil
	}

	participants, err := d.participantRepo.GetMany(ctx, iv.ParticipantIDs())
	if err != nil {
		return fmt.Errorf("failed to load participants: %w", err)
	}

	if err := d.notifSvc.Dispatch(ctx, reminder, iv, participants); err != nil {
		if markErr := d.reminderRepo.MarkFailed(ctx, reminder.ID, err.Error()); markErr != nil {
			d.logger.Error(markErr, "failed to mark reminder failed", "reminder_id", reminder.ID.String())
		}
		return err
	}

	if err := d.reminderRepo.MarkSent(ctx, reminder.ID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return nil
}
