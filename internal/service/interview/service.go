package interview

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/talentloop/scheduling-api/internal/model"
	"github.com/talentloop/scheduling-api/internal/repository"
	"github.com/talentloop/scheduling-api/internal/scheduling"
	"github.com/talentloop/scheduling-api/internal/service/availability"
	"github.com/talentloop/scheduling-api/internal/service/event"
	"github.com/talentloop/scheduling-api/internal/service/notification"
	apperrors "github.com/talentloop/scheduling-api/pkg/errors"
	"github.com/talentloop/scheduling-api/pkg/lock"
	"github.com/talentloop/scheduling-api/pkg/logger"
	"github.com/talentloop/scheduling-api/pkg/metrics"
)

// Service orchestrates the scheduling flow: validate the roster, snapshot
// existing bookings, run conflict detection and persist, all under a
// per-participant lock so two concurrent requests against the same
// interviewer cannot both observe "no conflict".
type Service struct {
	repo     repository.InterviewRepository
	availSvc *availability.Service
	notifSvc notification.Service
	eventSvc *event.Service
	detector *scheduling.Detector
	locks    *lock.KeyedMutex
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

func NewService(
	repo repository.InterviewRepository,
	availSvc *availability.Service,
	notifSvc notification.Service,
	eventSvc *event.Service,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:     repo,
		availSvc: availSvc,
		notifSvc: notifSvc,
		eventSvc: eventSvc,
		detector: scheduling.NewDetector(),
		locks:    lock.NewKeyedMutex(),
		metrics:  m,
		logger:   log,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateInterviewRequest) (*model.Interview, error) {
	// Rejected before any resolver or generator work runs.
	if len(req.InterviewerIDs) == 0 {
		return nil, apperrors.NewMalformedParticipantSet()
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, apperrors.NewBadRequest("end time must be after start time", nil)
	}

	iv := &model.Interview{
		CandidateID:    req.CandidateID,
		InterviewerIDs: req.InterviewerIDs,
		Type:           req.Type,
		Status:         model.InterviewStatusScheduled,
		Date:           req.Date,
		StartTime:      req.StartTime.UTC(),
		EndTime:        req.EndTime.UTC(),
		TimeZoneOffset: req.TimeZoneOffset,
		Conferencing:   req.Conferencing,
	}
	iv.ID = uuid.New()
	if req.Notifications != nil {
		iv.Notifications = *req.Notifications
	} else {
		iv.Notifications = model.DefaultNotificationSettings()
	}
	if req.ATS != nil {
		iv.ATS = *req.ATS
	}

	participantIDs := iv.ParticipantIDs()
	unlock := s.locks.LockAll(lockKeys(participantIDs))
	defer unlock()

	if err := s.checkConflicts(ctx, iv, nil); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, iv); err != nil {
		return nil, fmt.Errorf("failed to persist interview: %w", err)
	}

	s.afterBooking(ctx, iv, "")
	return iv, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Interview, error) {
	iv, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.NewNotFound("interview", err)
	}
	return iv, nil
}

func (s *Service) List(ctx context.Context, filters *model.InterviewFilters) ([]*model.Interview, error) {
	interviews, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, nil
}

// Transition moves an interview through the lifecycle. Rescheduled is not
// reachable here: it exists only as the terminal stamp the Reschedule flow
// puts on the superseded aggregate.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, to model.InterviewStatus, reason *string) (*model.Interview, error) {
	if to == model.InterviewStatusRescheduled {
		return nil, apperrors.NewBadRequest("use the reschedule operation to move an interview", nil)
	}

	iv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	from := iv.Status
	if err := scheduling.Transition(iv, to); err != nil {
		s.metrics.InvalidTransitions.Inc()
		return nil, err
	}
	if to == model.InterviewStatusCanceled {
		iv.CancelReason = reason
	}

	if err := s.repo.UpdateStatus(ctx, iv); err != nil {
		// Roll the in-memory copy back so callers never see a half-applied
		// transition.
		iv.Status = from
		return nil, fmt.Errorf("failed to persist transition: %w", err)
	}

	s.applyTransitionEffects(ctx, iv, from)
	return iv, nil
}

// Reschedule stamps the original interview terminal and spawns a replacement
// aggregate with a fresh id at the new time. The original's slot stops
// counting for conflicts the moment it becomes terminal.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, req *model.RescheduleRequest) (*model.Interview, error) {
	original, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !scheduling.CanTransition(original.Status, model.InterviewStatusRescheduled) {
		legal := scheduling.LegalNextStates(original.Status)
		names := make([]string, len(legal))
		for i, st := range legal {
			names[i] = string(st)
		}
		s.metrics.InvalidTransitions.Inc()
		return nil, apperrors.NewInvalidTransition(string(original.Status), string(model.InterviewStatusRescheduled), names)
	}
	if !req.EndTime.After(req.StartTime) {
		return nil, apperrors.NewBadRequest("end time must be after start time", nil)
	}

	replacement := &model.Interview{
		CandidateID:     original.CandidateID,
		InterviewerIDs:  original.InterviewerIDs,
		Type:            original.Type,
		Status:          model.InterviewStatusScheduled,
		Date:            req.Date,
		StartTime:       req.StartTime.UTC(),
		EndTime:         req.EndTime.UTC(),
		TimeZoneOffset:  original.TimeZoneOffset,
		Conferencing:    original.Conferencing,
		Notifications:   original.Notifications,
		ATS:             original.ATS,
		RescheduledFrom: &original.ID,
	}
	replacement.ID = uuid.New()

	participantIDs := replacement.ParticipantIDs()
	unlock := s.locks.LockAll(lockKeys(participantIDs))
	defer unlock()

	if err := s.checkConflicts(ctx, replacement, &original.ID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, replacement); err != nil {
		return nil, fmt.Errorf("failed to persist rescheduled interview: %w", err)
	}

	from := original.Status
	if err := scheduling.Transition(original, model.InterviewStatusRescheduled); err != nil {
		return nil, err
	}
	original.RescheduledTo = &replacement.ID
	if err := s.repo.UpdateStatus(ctx, original); err != nil {
		return nil, fmt.Errorf("failed to stamp original interview: %w", err)
	}
	if err := s.repo.LinkReschedule(ctx, original.ID, replacement.ID); err != nil {
		return nil, fmt.Errorf("failed to link reschedule: %w", err)
	}

	s.applyTransitionEffects(ctx, original, from)
	s.afterBooking(ctx, replacement, from)
	return replacement, nil
}

// AttachFeedback stores a feedback record and, when the interview is waiting
// on it, completes the lifecycle.
func (s *Service) AttachFeedback(ctx context.Context, id uuid.UUID, req *model.AttachFeedbackRequest) (*model.Interview, error) {
	iv, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fb := &model.Feedback{
		InterviewID:    id,
		InterviewerID:  req.InterviewerID,
		Rating:         req.Rating,
		Recommendation: req.Recommendation,
		Notes:          req.Notes,
	}
	if err := s.repo.AttachFeedback(ctx, fb); err != nil {
		return nil, fmt.Errorf("failed to attach feedback: %w", err)
	}
	iv.Feedback = append(iv.Feedback, *fb)

	if iv.Status == model.InterviewStatusPendingFeedback {
		return s.Transition(ctx, id, model.InterviewStatusCompleted, nil)
	}
	return iv, nil
}

func (s *Service) AttachDocument(ctx context.Context, id uuid.UUID, doc *model.Document) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	doc.InterviewID = id
	if err := s.repo.AttachDocument(ctx, doc); err != nil {
		return fmt.Errorf("failed to attach document: %w", err)
	}
	return nil
}

// checkConflicts loads the non-terminal snapshot for the interview's
// participants and runs the detector. Callers must hold the participant
// locks; the load and the check form the read half of the read-check-write
// contract.
func (s *Service) checkConflicts(ctx context.Context, iv *model.Interview, excludeID *uuid.UUID) error {
	participantIDs := iv.ParticipantIDs()
	existing, err := s.repo.ListForParticipants(ctx, participantIDs, iv.Date)
	if err != nil {
		return fmt.Errorf("failed to load existing interviews: %w", err)
	}

	result := s.detector.Check(scheduling.Proposal{
		CandidateID:    iv.CandidateID,
		InterviewerIDs: iv.InterviewerIDs,
		Date:           iv.Date,
		StartTime:      iv.StartTime,
		EndTime:        iv.EndTime,
		ExcludeID:      excludeID,
	}, existing)

	if result.HasConflict {
		s.metrics.ConflictsDetected.Inc()
		return apperrors.NewSlotConflict(result.ConflictingInterviewIDs, result.ConflictingParticipantIDs)
	}
	return nil
}

// afterBooking runs the post-persist side effects of a successful booking.
// Failures here are logged, not returned: the booking is already durable and
// the worker paths are retryable.
func (s *Service) afterBooking(ctx context.Context, iv *model.Interview, from model.InterviewStatus) {
	s.metrics.InterviewsScheduled.Inc()
	s.availSvc.Invalidate(iv.ParticipantIDs())

	if err := s.notifSvc.ScheduleReminders(ctx, iv); err != nil {
		s.logger.Error(err, "failed to schedule reminders", "interview_id", iv.ID)
	}
	if err := s.eventSvc.EmitTransition(ctx, iv, from); err != nil {
		s.logger.Error(err, "failed to emit transition event", "interview_id", iv.ID)
	}
}

func (s *Service) applyTransitionEffects(ctx context.Context, iv *model.Interview, from model.InterviewStatus) {
	s.metrics.Transitions.WithLabelValues(string(iv.Status)).Inc()

	switch iv.Status {
	case model.InterviewStatusCanceled, model.InterviewStatusRescheduled:
		if err := s.notifSvc.InvalidateReminders(ctx, iv.ID); err != nil {
			s.logger.Error(err, "failed to invalidate reminders", "interview_id", iv.ID)
		}
	case model.InterviewStatusConfirmed:
		if err := s.notifSvc.RescheduleReminders(ctx, iv); err != nil {
			s.logger.Error(err, "failed to recompute reminders", "interview_id", iv.ID)
		}
	}

	if err := s.eventSvc.EmitTransition(ctx, iv, from); err != nil {
		s.logger.Error(err, "failed to emit transition event", "interview_id", iv.ID)
	}
}

func lockKeys(ids []uuid.UUID) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	return keys
}
