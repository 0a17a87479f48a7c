package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/talentloop/scheduling-api/internal/model"
)

func (r *reminderRepository) CreateBatch(ctx context.Context, reminders []model.Reminder) error {
	if len(reminders) == 0 {
		return nil
	}

	query := `
		INSERT INTO reminders (id, interview_id, hours_before, fire_at, status, created_at, updated_at)
		VALUES (:id, :interview_id, :hours_before, :fire_at, :status, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, reminders); err != nil {
		return fmt.Errorf("failed to create reminders: %w", err)
	}
	return nil
}

func (r *reminderRepository) ListPending(ctx context.Context, interviewID uuid.UUID) ([]model.Reminder, error) {
	query := `
		SELECT id, interview_id, hours_before, fire_at, status, sent_at, last_error, created_at, updated_at
		FROM reminders
		WHERE interview_id = $1 AND status = $2
		ORDER BY fire_at ASC
	`
	var reminders []model.Reminder
	err := r.db.SelectContext(ctx, &reminders, query, interviewID, model.ReminderStatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending reminders: %w", err)
	}
	return reminders, nil
}

func (r *reminderRepository) ListDue(ctx context.Context, before time.Time, limit int) ([]model.Reminder, error) {
	query := `
		SELECT id, interview_id, hours_before, fire_at, status, sent_at, last_error, created_at, updated_at
		FROM reminders
		WHERE status = $1 AND fire_at <= $2
		ORDER BY fire_at ASC
		LIMIT $3
	`
	var reminders []model.Reminder
	err := r.db.SelectContext(ctx, &reminders, query, model.ReminderStatusPending, before, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list due reminders: %w", err)
	}
	return reminders, nil
}

func (r *reminderRepository) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	query := `
		UPDATE reminders
		SET status = $1, sent_at = $2, updated_at = $3
		WHERE id = $4 AND status = $5
	`
	result, err := r.db.ExecContext(ctx, query,
		model.ReminderStatusSent, sentAt, time.Now().UTC(), id, model.ReminderStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("reminder not pending")
	}
	return nil
}

func (r *reminderRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	query := `
		UPDATE reminders
		SET status = $1, last_error = $2, updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.ExecContext(ctx, query, model.ReminderStatusFailed, reason, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark reminder failed: %w", err)
	}
	return nil
}

func (r *reminderRepository) InvalidatePending(ctx context.Context, interviewID uuid.UUID) (int64, error) {
	query := `
		UPDATE reminders
		SET status = $1, updated_at = $2
		WHERE interview_id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query,
		model.ReminderStatusInvalidated, time.Now().UTC(), interviewID, model.ReminderStatusPending)
	if err != nil {
		return 0, fmt.Errorf("failed to invalidate reminders: %w", err)
	}
	return result.RowsAffected()
}
