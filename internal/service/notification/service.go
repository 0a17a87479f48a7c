package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/talentloop/scheduling-api/internal/email"
	"github.com/talentloop/scheduling-api/internal/model"
	"github.com/talentloop/scheduling-api/internal/repository"
	"github.com/talentloop/scheduling-api/internal/scheduling"
	"github.com/talentloop/scheduling-api/pkg/logger"
	"github.com/talentloop/scheduling-api/pkg/messaging"
	"github.com/talentloop/scheduling-api/pkg/metrics"
)

const (
	channelEmail = "email"
	channelSMS   = "sms"
	channelPush  = "push"
)

// Service owns the reminder side of the scheduler: computing fire times when
// an interview is created or confirmed, invalidating them on cancel or
// reschedule, and handing due reminders to delivery channels. It decides
// when, never how; actual delivery belongs to the collaborators behind the
// email sender and the broker.
type Service interface {
	ScheduleReminders(ctx context.Context, iv *model.Interview) error
	RescheduleReminders(ctx context.Context, iv *model.Interview) error
	InvalidateReminders(ctx context.Context, interviewID uuid.UUID) error
	PendingReminders(ctx context.Context, interviewID uuid.UUID, now time.Time) ([]model.Reminder, error)
	Dispatch(ctx context.Context, reminder model.Reminder, iv *model.Interview, participants []model.Participant) error
}

type service struct {
	reminderRepo repository.ReminderRepository
	emailSvc     email.Service
	broker       messaging.Broker
	metrics      *metrics.Metrics
	logger       *logger.Logger
}

func NewService(
	reminderRepo repository.ReminderRepository,
	emailSvc email.Service,
	broker messaging.Broker,
	m *metrics.Metrics,
	log *logger.Logger,
) Service {
	return &service{
		reminderRepo: reminderRepo,
		emailSvc:     emailSvc,
		broker:       broker,
		metrics:      m,
		logger:       log,
	}
}

func (s *service) ScheduleReminders(ctx context.Context, iv *model.Interview) error {
	reminders := scheduling.ComputeReminders(iv, time.Now().UTC())
	if len(reminders) == 0 {
		return nil
	}
	if err := s.reminderRepo.CreateBatch(ctx, reminders); err != nil {
		return fmt.Errorf("failed to schedule reminders: %w", err)
	}
	s.metrics.RemindersScheduled.Add(float64(len(reminders)))
	return nil
}

// RescheduleReminders drops every pending reminder and recomputes from the
// interview's current start. Confirmation may arrive after some reminder
// windows already elapsed; those fall out of the recompute naturally.
func (s *service) RescheduleReminders(ctx context.Context, iv *model.Interview) error {
	if err := s.InvalidateReminders(ctx, iv.ID); err != nil {
		return err
	}
	return s.ScheduleReminders(ctx, iv)
}

func (s *service) InvalidateReminders(ctx context.Context, interviewID uuid.UUID) error {
	n, err := s.reminderRepo.InvalidatePending(ctx, interviewID)
	if err != nil {
		return fmt.Errorf("failed to invalidate reminders: %w", err)
	}
	if n > 0 {
		s.metrics.RemindersInvalidated.Add(float64(n))
	}
	return nil
}

// PendingReminders filters stored rows against now at read time. Rows whose
// fire time has passed stay in storage untouched; a paused dispatcher that
// resumes still sees everything that is future for it.
func (s *service) PendingReminders(ctx context.Context, interviewID uuid.UUID, now time.Time) ([]model.Reminder, error) {
	stored, err := s.reminderRepo.ListPending(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	var future []model.Reminder
	for _, r := range stored {
		if r.FireAt.After(now) {
			future = append(future, r)
		}
	}
	return future, nil
}

func (s *service) Dispatch(ctx context.Context, reminder model.Reminder, iv *model.Interview, participants []model.Participant) error {
	settings := iv.Notifications

	if settings.SendEmail {
		for _, p := range participants {
			if p.Email == "" {
				continue
			}
			subject := fmt.Sprintf("Interview reminder: %s in %v hours", iv.Type, reminder.HoursBefore)
			body := fmt.Sprintf("Your %s interview starts at %s.", iv.Type, iv.StartTime.UTC().Format(time.RFC1123))
			if err := s.emailSvc.SendReminder(ctx, p.Email, subject, body); err != nil {
				s.logger.Error(err, "reminder email failed", "participant_id", p.ID)
				continue
			}
		}
		s.metrics.RemindersDispatched.WithLabelValues(channelEmail).Inc()
	}

	if settings.SendSMS {
		if err := s.publishHandoff(ctx, messaging.ChannelReminderSMS, reminder, iv); err != nil {
			return err
		}
		s.metrics.RemindersDispatched.WithLabelValues(channelSMS).Inc()
	}

	if settings.SendPush {
		if err := s.publishHandoff(ctx, messaging.ChannelReminderPush, reminder, iv); err != nil {
			return err
		}
		s.metrics.RemindersDispatched.WithLabelValues(channelPush).Inc()
	}

	return nil
}

func (s *service) publishHandoff(ctx context.Context, channel string, reminder model.Reminder, iv *model.Interview) error {
	msg := messaging.Message{
		Type: "reminder.due",
		Payload: map[string]interface{}{
			"reminder_id":  reminder.ID,
			"interview_id": iv.ID,
			"fire_at":      reminder.FireAt,
			"start_time":   iv.StartTime,
		},
	}
	if err := s.broker.Publish(ctx, channel, msg); err != nil {
		return fmt.Errorf("failed to publish reminder handoff: %w", err)
	}
	return nil
}
