package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/talentloop/scheduling-api/internal/model"
)

// The participants and availability_rules tables are a synced read model of
// the identity/profile service. This repository never writes to them.

func (r *participantRepository) Get(ctx context.Context, id uuid.UUID) (*model.Participant, error) {
	query := `
		SELECT id, role, name, email, time_zone_offset
		FROM participants
		WHERE id = $1
	`
	var p model.Participant
	err := r.db.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("participant not found")
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}

	rules, err := r.availabilityRules(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	p.Availability = rules[id]
	return &p, nil
}

func (r *participantRepository) GetMany(ctx context.Context, ids []uuid.UUID) ([]model.Participant, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		SELECT id, role, name, email, time_zone_offset
		FROM participants
		WHERE id = ANY($1)
	`
	var participants []model.Participant
	err := r.db.SelectContext(ctx, &participants, query, pq.Array(uuidStrings(ids)))
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	if len(participants) != len(ids) {
		return nil, fmt.Errorf("unknown participant in set: got %d of %d", len(participants), len(ids))
	}

	rules, err := r.availabilityRules(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range participants {
		participants[i].Availability = rules[participants[i].ID]
	}
	return participants, nil
}

func (r *participantRepository) availabilityRules(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]model.AvailabilityRule, error) {
	query := `
		SELECT id, participant_id, weekday, date, start_hour, end_hour
		FROM availability_rules
		WHERE participant_id = ANY($1)
		ORDER BY start_hour ASC
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(uuidStrings(ids)))
	if err != nil {
		return nil, fmt.Errorf("failed to get availability rules: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]model.AvailabilityRule)
	for rows.Next() {
		var (
			rule    model.AvailabilityRule
			weekday sql.NullInt64
			date    sql.NullTime
		)
		if err := rows.Scan(&rule.ID, &rule.ParticipantID, &weekday, &date, &rule.StartHour, &rule.EndHour); err != nil {
			return nil, fmt.Errorf("failed to scan availability rule: %w", err)
		}
		if weekday.Valid {
			wd := time.Weekday(weekday.Int64)
			rule.Weekday = &wd
		}
		if date.Valid {
			d := date.Time
			rule.Date = &d
		}
		out[rule.ParticipantID] = append(out[rule.ParticipantID], rule)
	}
	return out, rows.Err()
}
