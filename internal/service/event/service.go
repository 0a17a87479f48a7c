package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/talentloop/scheduling-api/internal/model"
	"github.com/talentloop/scheduling-api/internal/repository"
	"github.com/talentloop/scheduling-api/internal/scheduling"
)

// Service writes lifecycle transition events to the outbox for the ATS
// collaborator. The core only flags transitions; the worker does the actual
// publish and the ATS does the actual sync.
type Service struct {
	outboxRepo repository.OutboxRepository
}

func NewService(outboxRepo repository.OutboxRepository) *Service {
	return &Service{outboxRepo: outboxRepo}
}

// EmitTransition records a status change. Interviews without ATS sync enabled
// are skipped; that flag is the collaborator's opt-in.
func (s *Service) EmitTransition(ctx context.Context, iv *model.Interview, from model.InterviewStatus) error {
	if !iv.ATS.SyncEnabled {
		return nil
	}

	payload, err := json.Marshal(model.TransitionEvent{
		InterviewID: iv.ID,
		CandidateID: iv.CandidateID,
		From:        from,
		To:          iv.Status,
		Trigger:     scheduling.TriggerFor(iv.Status),
		ExternalRef: iv.ATS.ExternalRef,
		OccurredAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal transition event: %w", err)
	}

	return s.outboxRepo.Create(ctx, &model.OutboxEvent{
		EventType: fmt.Sprintf("interview.%s", iv.Status),
		Payload:   payload,
	})
}
