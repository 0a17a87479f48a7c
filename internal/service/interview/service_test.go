package interview

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talentloop/scheduling-api/internal/model"
	"github.com/talentloop/scheduling-api/internal/scheduling"
	"github.com/talentloop/scheduling-api/internal/service/availability"
	"github.com/talentloop/scheduling-api/internal/service/event"
	"github.com/talentloop/scheduling-api/internal/service/notification"
	apperrors "github.com/talentloop/scheduling-api/pkg/errors"
	"github.com/talentloop/scheduling-api/pkg/logger"
	"github.com/talentloop/scheduling-api/pkg/metrics"
)

// Shared across the package: promauto registers globally and panics on
// duplicates.
var testMetrics = metrics.NewMetrics("test", "interview_service")

// fakeInterviewRepo is an in-memory stand-in for the persistence
// collaborator. A configurable delay between read and write widens the race
// window the keyed lock must close.
type fakeInterviewRepo struct {
	mu         sync.Mutex
	interviews map[uuid.UUID]*model.Interview
	readDelay  time.Duration
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{interviews: make(map[uuid.UUID]*model.Interview)}
}

func (f *fakeInterviewRepo) Create(_ context.Context, iv *model.Interview) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *iv
	f.interviews[iv.ID] = &cp
	return nil
}

func (f *fakeInterviewRepo) Get(_ context.Context, id uuid.UUID) (*model.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	iv, ok := f.interviews[id]
	if !ok {
		return nil, assert.AnError
	}
	cp := *iv
	return &cp, nil
}

func (f *fakeInterviewRepo) UpdateStatus(_ context.Context, iv *model.Interview) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.interviews[iv.ID]
	if !ok {
		return assert.AnError
	}
	stored.Status = iv.Status
	stored.CancelReason = iv.CancelReason
	stored.RescheduledTo = iv.RescheduledTo
	return nil
}

func (f *fakeInterviewRepo) LinkReschedule(_ context.Context, originalID, replacementID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if iv, ok := f.interviews[originalID]; ok {
		iv.RescheduledTo = &replacementID
	}
	return nil
}

func (f *fakeInterviewRepo) List(_ context.Context, _ *model.InterviewFilters) ([]*model.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Interview
	for _, iv := range f.interviews {
		cp := *iv
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeInterviewRepo) ListForParticipants(_ context.Context, participantIDs []uuid.UUID, date time.Time) ([]model.Interview, error) {
	f.mu.Lock()
	ids := make(map[uuid.UUID]struct{}, len(participantIDs))
	for _, id := range participantIDs {
		ids[id] = struct{}{}
	}
	var out []model.Interview
	for _, iv := range f.interviews {
		if iv.Status.IsTerminal() {
			continue
		}
		for _, pid := range iv.ParticipantIDs() {
			if _, ok := ids[pid]; ok {
				out = append(out, *iv)
				break
			}
		}
	}
	delay := f.readDelay
	f.mu.Unlock()

	// Simulate the persistence round-trip between snapshot and write.
	time.Sleep(delay)
	return out, nil
}

func (f *fakeInterviewRepo) AttachDocument(_ context.Context, _ *model.Document) error { return nil }

func (f *fakeInterviewRepo) AttachFeedback(_ context.Context, _ *model.Feedback) error { return nil }

type fakeParticipantRepo struct{}

func (fakeParticipantRepo) Get(_ context.Context, id uuid.UUID) (*model.Participant, error) {
	return &model.Participant{ID: id}, nil
}

func (fakeParticipantRepo) GetMany(_ context.Context, ids []uuid.UUID) ([]model.Participant, error) {
	out := make([]model.Participant, len(ids))
	for i, id := range ids {
		out[i] = model.Participant{ID: id}
	}
	return out, nil
}

type fakeReminderRepo struct {
	mu          sync.Mutex
	reminders   map[uuid.UUID][]model.Reminder
	invalidated map[uuid.UUID]int
}

func newFakeReminderRepo() *fakeReminderRepo {
	return &fakeReminderRepo{
		reminders:   make(map[uuid.UUID][]model.Reminder),
		invalidated: make(map[uuid.UUID]int),
	}
}

func (f *fakeReminderRepo) CreateBatch(_ context.Context, reminders []model.Reminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range reminders {
		f.reminders[r.InterviewID] = append(f.reminders[r.InterviewID], r)
	}
	return nil
}

func (f *fakeReminderRepo) ListPending(_ context.Context, interviewID uuid.UUID) ([]model.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Reminder
	for _, r := range f.reminders[interviewID] {
		if r.Status == model.ReminderStatusPending {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReminderRepo) ListDue(_ context.Context, _ time.Time, _ int) ([]model.Reminder, error) {
	return nil, nil
}

func (f *fakeReminderRepo) MarkSent(_ context.Context, _ uuid.UUID, _ time.Time) error { return nil }

func (f *fakeReminderRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string) error { return nil }

func (f *fakeReminderRepo) InvalidatePending(_ context.Context, interviewID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	pending := f.reminders[interviewID]
	for i := range pending {
		if pending[i].Status == model.ReminderStatusPending {
			pending[i].Status = model.ReminderStatusInvalidated
			n++
		}
	}
	f.invalidated[interviewID] += int(n)
	return n, nil
}

type fakeOutboxRepo struct {
	mu     sync.Mutex
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Create(_ context.Context, ev *model.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeOutboxRepo) GetPendingEvents(_ context.Context, _ int) ([]*model.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepo) MarkProcessed(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeOutboxRepo) MarkFailed(_ context.Context, _ uuid.UUID, _ string, _ time.Time) error {
	return nil
}

type noopEmail struct{}

func (noopEmail) SendReminder(context.Context, string, string, string) error { return nil }
func (noopEmail) SendCustom(context.Context, string, string, string) error   { return nil }

type noopBroker struct{}

func (noopBroker) Publish(context.Context, string, interface{}) error { return nil }
func (noopBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, nil
}
func (noopBroker) Close() error { return nil }

func newStubNotificationService(reminders *fakeReminderRepo) notification.Service {
	return notification.NewService(reminders, noopEmail{}, noopBroker{}, testMetrics, logger.NewLogger(nil))
}

type fixture struct {
	svc       *Service
	repo      *fakeInterviewRepo
	reminders *fakeReminderRepo
	outbox    *fakeOutboxRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newFakeInterviewRepo()
	reminders := newFakeReminderRepo()
	outbox := &fakeOutboxRepo{}
	log := logger.NewLogger(nil)

	availSvc := availability.NewService(
		fakeParticipantRepo{},
		scheduling.BusinessWindow{StartHour: 9, EndHour: 17},
		nil,
		time.Minute,
		testMetrics,
	)
	notifSvc := newStubNotificationService(reminders)
	eventSvc := event.NewService(outbox)

	svc := NewService(repo, availSvc, notifSvc, eventSvc, testMetrics, log)
	return &fixture{svc: svc, repo: repo, reminders: reminders, outbox: outbox}
}

func futureDay() (day, start, end time.Time) {
	day = time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour)
	start = day.Add(10 * time.Hour)
	end = day.Add(11 * time.Hour)
	return day, start, end
}

func createRequest(interviewers ...uuid.UUID) *model.CreateInterviewRequest {
	day, start, end := futureDay()
	return &model.CreateInterviewRequest{
		CandidateID:    uuid.New(),
		InterviewerIDs: interviewers,
		Type:           model.InterviewTypeTechnical,
		Date:           day,
		StartTime:      start,
		EndTime:        end,
	}
}

func TestCreateRejectsEmptyInterviewerSet(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), createRequest())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrMalformedParticipantSet))
	assert.Empty(t, f.repo.interviews, "nothing may be persisted on rejection")
}

func TestCreateSchedulesInterviewAndReminders(t *testing.T) {
	f := newFixture(t)

	iv, err := f.svc.Create(context.Background(), createRequest(uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, model.InterviewStatusScheduled, iv.Status)
	assert.NotEqual(t, uuid.Nil, iv.ID)

	pending, err := f.reminders.ListPending(context.Background(), iv.ID)
	require.NoError(t, err)
	assert.Len(t, pending, 2, "default settings carry a 24h and a 1h reminder")
}

func TestCreateDetectsConflictWithAttribution(t *testing.T) {
	f := newFixture(t)
	interviewer := uuid.New()

	first, err := f.svc.Create(context.Background(), createRequest(interviewer))
	require.NoError(t, err)

	req := createRequest(interviewer)
	day, _, _ := futureDay()
	req.StartTime = day.Add(10*time.Hour + 30*time.Minute)
	req.EndTime = day.Add(11*time.Hour + 30*time.Minute)

	_, err = f.svc.Create(context.Background(), req)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.ErrSlotConflict))

	appErr := err.(*apperrors.AppError)
	assert.Equal(t, []uuid.UUID{first.ID}, appErr.ConflictingInterviewIDs)
	assert.Equal(t, []uuid.UUID{interviewer}, appErr.ConflictingParticipantIDs)
}

func TestCreateAllowsBackToBack(t *testing.T) {
	f := newFixture(t)
	interviewer := uuid.New()

	_, err := f.svc.Create(context.Background(), createRequest(interviewer))
	require.NoError(t, err)

	req := createRequest(interviewer)
	day, _, _ := futureDay()
	req.StartTime = day.Add(11 * time.Hour)
	req.EndTime = day.Add(12 * time.Hour)

	_, err = f.svc.Create(context.Background(), req)
	assert.NoError(t, err, "half-open windows make back-to-back legal")
}

func TestConcurrentBookingsOnlyOneWins(t *testing.T) {
	// Two clients race for the same interviewer and slot. Without the keyed
	// lock both would snapshot "no conflict" and both would persist.
	f := newFixture(t)
	f.repo.readDelay = 10 * time.Millisecond
	interviewer := uuid.New()

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, results[n] = f.svc.Create(context.Background(), createRequest(interviewer))
		}(i)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range results {
		switch {
		case err == nil:
			wins++
		case apperrors.IsCode(err, apperrors.ErrSlotConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins, "exactly one booking may win the slot")
	assert.Equal(t, attempts-1, conflicts)
}

func TestTransitionCancelInvalidatesReminders(t *testing.T) {
	f := newFixture(t)

	iv, err := f.svc.Create(context.Background(), createRequest(uuid.New()))
	require.NoError(t, err)

	reason := "candidate withdrew"
	canceled, err := f.svc.Transition(context.Background(), iv.ID, model.InterviewStatusCanceled, &reason)
	require.NoError(t, err)
	assert.Equal(t, model.InterviewStatusCanceled, canceled.Status)
	assert.Equal(t, &reason, canceled.CancelReason)

	pending, err := f.reminders.ListPending(context.Background(), iv.ID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestTransitionDoubleCancelFails(t *testing.T) {
	f := newFixture(t)

	iv, err := f.svc.Create(context.Background(), createRequest(uuid.New()))
	require.NoError(t, err)

	_, err = f.svc.Transition(context.Background(), iv.ID, model.InterviewStatusCanceled, nil)
	require.NoError(t, err)

	_, err = f.svc.Transition(context.Background(), iv.ID, model.InterviewStatusCanceled, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidTransition))

	stored, err := f.svc.Get(context.Background(), iv.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InterviewStatusCanceled, stored.Status)
}

func TestTransitionConfirmRecomputesReminders(t *testing.T) {
	f := newFixture(t)

	iv, err := f.svc.Create(context.Background(), createRequest(uuid.New()))
	require.NoError(t, err)

	_, err = f.svc.Transition(context.Background(), iv.ID, model.InterviewStatusConfirmed, nil)
	require.NoError(t, err)

	assert.Positive(t, f.reminders.invalidated[iv.ID], "confirm invalidates the old set")
	pending, err := f.reminders.ListPending(context.Background(), iv.ID)
	require.NoError(t, err)
	assert.Len(t, pending, 2, "and computes a fresh set from the unchanged start")
}

func TestTransitionDirectlyToRescheduledRejected(t *testing.T) {
	f := newFixture(t)

	iv, err := f.svc.Create(context.Background(), createRequest(uuid.New()))
	require.NoError(t, err)

	_, err = f.svc.Transition(context.Background(), iv.ID, model.InterviewStatusRescheduled, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrBadRequest))
}

func TestRescheduleSpawnsFreshAggregate(t *testing.T) {
	f := newFixture(t)
	interviewer := uuid.New()

	original, err := f.svc.Create(context.Background(), createRequest(interviewer))
	require.NoError(t, err)

	day, _, _ := futureDay()
	replacement, err := f.svc.Reschedule(context.Background(), original.ID, &model.RescheduleRequest{
		Date:      day,
		StartTime: day.Add(14 * time.Hour),
		EndTime:   day.Add(15 * time.Hour),
	})
	require.NoError(t, err)

	assert.NotEqual(t, original.ID, replacement.ID)
	assert.Equal(t, model.InterviewStatusScheduled, replacement.Status)
	require.NotNil(t, replacement.RescheduledFrom)
	assert.Equal(t, original.ID, *replacement.RescheduledFrom)

	stamped, err := f.svc.Get(context.Background(), original.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InterviewStatusRescheduled, stamped.Status)
	require.NotNil(t, stamped.RescheduledTo)
	assert.Equal(t, replacement.ID, *stamped.RescheduledTo)

	// The vacated slot is bookable again.
	_, err = f.svc.Create(context.Background(), createRequest(interviewer))
	assert.NoError(t, err)
}

func TestRescheduleTerminalFails(t *testing.T) {
	f := newFixture(t)

	iv, err := f.svc.Create(context.Background(), createRequest(uuid.New()))
	require.NoError(t, err)
	_, err = f.svc.Transition(context.Background(), iv.ID, model.InterviewStatusCanceled, nil)
	require.NoError(t, err)

	day, _, _ := futureDay()
	_, err = f.svc.Reschedule(context.Background(), iv.ID, &model.RescheduleRequest{
		Date:      day,
		StartTime: day.Add(14 * time.Hour),
		EndTime:   day.Add(15 * time.Hour),
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrInvalidTransition))
}

func TestFeedbackCompletesPendingInterview(t *testing.T) {
	f := newFixture(t)

	iv, err := f.svc.Create(context.Background(), createRequest(uuid.New()))
	require.NoError(t, err)

	for _, st := range []model.InterviewStatus{
		model.InterviewStatusConfirmed,
		model.InterviewStatusInProgress,
		model.InterviewStatusPendingFeedback,
	} {
		_, err = f.svc.Transition(context.Background(), iv.ID, st, nil)
		require.NoError(t, err)
	}

	done, err := f.svc.AttachFeedback(context.Background(), iv.ID, &model.AttachFeedbackRequest{
		InterviewerID:  iv.InterviewerIDs[0],
		Rating:         4,
		Recommendation: model.RecommendationYes,
	})
	require.NoError(t, err)
	assert.Equal(t, model.InterviewStatusCompleted, done.Status)
}

func TestATSEventsEmittedOnlyWhenSyncEnabled(t *testing.T) {
	f := newFixture(t)

	req := createRequest(uuid.New())
	req.ATS = &model.ATSIntegration{SyncEnabled: true, ExternalRef: "greenhouse-123"}
	iv, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = f.svc.Transition(context.Background(), iv.ID, model.InterviewStatusConfirmed, nil)
	require.NoError(t, err)
	assert.Len(t, f.outbox.events, 2, "create + confirm")

	quiet, err := f.svc.Create(context.Background(), createRequest(uuid.New()))
	require.NoError(t, err)
	_, err = f.svc.Transition(context.Background(), quiet.ID, model.InterviewStatusConfirmed, nil)
	require.NoError(t, err)
	assert.Len(t, f.outbox.events, 2, "sync-disabled interviews stay silent")
}
