package availability

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/talentloop/scheduling-api/internal/model"
	"github.com/talentloop/scheduling-api/internal/repository"
	"github.com/talentloop/scheduling-api/internal/scheduling"
	apperrors "github.com/talentloop/scheduling-api/pkg/errors"
	"github.com/talentloop/scheduling-api/pkg/metrics"
)

// Service runs the resolve-then-generate pipeline. Resolution results are
// cached briefly per day+roster; any booking touching a roster member must
// invalidate through Invalidate.
type Service struct {
	participantRepo repository.ParticipantRepository
	resolver        *scheduling.Resolver
	generator       *scheduling.Generator
	suggester       scheduling.SlotSuggester
	cache           *gocache.Cache
	metrics         *metrics.Metrics
}

func NewService(
	participantRepo repository.ParticipantRepository,
	window scheduling.BusinessWindow,
	suggester scheduling.SlotSuggester,
	cacheTTL time.Duration,
	m *metrics.Metrics,
) *Service {
	return &Service{
		participantRepo: participantRepo,
		resolver:        scheduling.NewResolver(window),
		generator:       scheduling.NewGenerator(window),
		suggester:       suggester,
		cache:           gocache.New(cacheTTL, 2*cacheTTL),
		metrics:         m,
	}
}

// Resolve returns the UTC hours at which every listed participant is free on
// the given day. An empty intersection is returned as a NoAvailability error
// so callers surface it instead of falling back to an arbitrary slot.
func (s *Service) Resolve(ctx context.Context, day time.Time, participantIDs []uuid.UUID) (scheduling.HourSet, error) {
	timer := time.Now()
	defer func() {
		s.metrics.AvailabilityLatency.Observe(time.Since(timer).Seconds())
	}()

	key := cacheKey(day, participantIDs)
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.AvailabilityCacheHit.WithLabelValues("hit").Inc()
		hours := cached.(scheduling.HourSet)
		if len(hours) == 0 {
			return nil, apperrors.NewNoAvailability(day.Format("2006-01-02"))
		}
		return hours, nil
	}
	s.metrics.AvailabilityCacheHit.WithLabelValues("miss").Inc()

	participants, err := s.participantRepo.GetMany(ctx, participantIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}

	hours := s.resolver.Resolve(day, participants)
	s.cache.Set(key, hours, gocache.DefaultExpiration)

	if len(hours) == 0 {
		s.metrics.NoAvailabilityHits.Inc()
		return nil, apperrors.NewNoAvailability(day.Format("2006-01-02"))
	}
	return hours, nil
}

// Slots renders the full business-hours grid for a day, with each hour
// flagged bookable or blocked for the given roster.
func (s *Service) Slots(ctx context.Context, day time.Time, participantIDs []uuid.UUID) ([]model.TimeSlot, error) {
	hours, err := s.Resolve(ctx, day, participantIDs)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrNoAvailability) {
			// Still render the grid: every slot blocked tells the caller
			// more than an empty list.
			return s.generator.Generate(day, nil), err
		}
		return nil, err
	}
	return s.generator.Generate(day, hours), nil
}

// Suggest consults the pluggable suggestion capability. Deployments without a
// suggester get a NotFound error rather than a silent empty answer, so clients
// can tell "no suggester here" apart from "suggester had nothing to offer".
// Suggestions are advisory; anything booked from them still passes conflict
// detection.
func (s *Service) Suggest(ctx context.Context, candidateID uuid.UUID, job scheduling.JobContext) ([]model.TimeSlot, error) {
	if s.suggester == nil {
		return nil, apperrors.NewNotFound("slot suggestion capability", nil)
	}
	return s.suggester.Suggest(ctx, candidateID, job)
}

// Invalidate drops cached resolutions touching any of the given participants.
func (s *Service) Invalidate(participantIDs []uuid.UUID) {
	ids := make(map[string]struct{}, len(participantIDs))
	for _, id := range participantIDs {
		ids[id.String()] = struct{}{}
	}
	for key := range s.cache.Items() {
		for id := range ids {
			if strings.Contains(key, id) {
				s.cache.Delete(key)
				break
			}
		}
	}
}

func cacheKey(day time.Time, participantIDs []uuid.UUID) string {
	ids := make([]string, len(participantIDs))
	for i, id := range participantIDs {
		ids[i] = id.String()
	}
	sort.Strings(ids)
	return day.UTC().Format("2006-01-02") + "|" + strings.Join(ids, ",")
}
