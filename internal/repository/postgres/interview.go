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

const interviewColumns = `
	id, candidate_id, interviewer_ids, type, status, date,
	start_time, end_time, time_zone_offset,
	conferencing_provider, conferencing_url,
	send_email, send_sms, send_push, reminder_times,
	ats_sync_enabled, ats_external_ref,
	rescheduled_from, rescheduled_to, cancel_reason,
	created_at, updated_at
`

func (r *interviewRepository) Create(ctx context.Context, interview *model.Interview) error {
	query := `
		INSERT INTO interviews (` + interviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
				$13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`
	now := time.Now().UTC()
	if interview.ID == uuid.Nil {
		interview.ID = uuid.New()
	}
	interview.CreatedAt = now
	interview.UpdatedAt = now

	var provider, url string
	if interview.Conferencing != nil {
		provider = interview.Conferencing.Provider
		url = interview.Conferencing.URL
	}

	_, err := r.db.ExecContext(ctx, query,
		interview.ID,
		interview.CandidateID,
		pq.Array(uuidStrings(interview.InterviewerIDs)),
		interview.Type,
		interview.Status,
		interview.Date,
		interview.StartTime,
		interview.EndTime,
		interview.TimeZoneOffset,
		provider,
		url,
		interview.Notifications.SendEmail,
		interview.Notifications.SendSMS,
		interview.Notifications.SendPush,
		pq.Array(interview.Notifications.ReminderTimes),
		interview.ATS.SyncEnabled,
		interview.ATS.ExternalRef,
		interview.RescheduledFrom,
		interview.RescheduledTo,
		interview.CancelReason,
		interview.CreatedAt,
		interview.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create interview: %w", err)
	}
	return nil
}

func (r *interviewRepository) Get(ctx context.Context, id uuid.UUID) (*model.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	interview, err := scanInterview(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("interview not found")
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return interview, nil
}

func (r *interviewRepository) UpdateStatus(ctx context.Context, interview *model.Interview) error {
	query := `
		UPDATE interviews
		SET status = $1, cancel_reason = $2, updated_at = $3
		WHERE id = $4
	`
	interview.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		interview.Status,
		interview.CancelReason,
		interview.UpdatedAt,
		interview.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update interview status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("interview not found")
	}
	return nil
}

func (r *interviewRepository) LinkReschedule(ctx context.Context, originalID, replacementID uuid.UUID) error {
	query := `
		UPDATE interviews
		SET rescheduled_to = $1, updated_at = $2
		WHERE id = $3
	`
	_, err := r.db.ExecContext(ctx, query, replacementID, time.Now().UTC(), originalID)
	if err != nil {
		return fmt.Errorf("failed to link reschedule: %w", err)
	}
	return nil
}

func (r *interviewRepository) List(ctx context.Context, filters *model.InterviewFilters) ([]*model.Interview, error) {
	query := `SELECT ` + interviewColumns + ` FROM interviews WHERE 1=1`
	var args []interface{}
	argCount := 1

	if filters.CandidateID != uuid.Nil {
		query += fmt.Sprintf(" AND candidate_id = $%d", argCount)
		args = append(args, filters.CandidateID)
		argCount++
	}
	if filters.InterviewerID != uuid.Nil {
		query += fmt.Sprintf(" AND $%d = ANY(interviewer_ids)", argCount)
		args = append(args, filters.InterviewerID.String())
		argCount++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if !filters.StartDate.IsZero() {
		query += fmt.Sprintf(" AND date >= $%d", argCount)
		args = append(args, filters.StartDate)
		argCount++
	}
	if !filters.EndDate.IsZero() {
		query += fmt.Sprintf(" AND date <= $%d", argCount)
		args = append(args, filters.EndDate)
		argCount++
	}

	query += fmt.Sprintf(" ORDER BY start_time ASC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.Pagination.Limit(), filters.Pagination.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	var interviews []*model.Interview
	for rows.Next() {
		interview, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		interviews = append(interviews, interview)
	}
	return interviews, rows.Err()
}

func (r *interviewRepository) ListForParticipants(ctx context.Context, participantIDs []uuid.UUID, date time.Time) ([]model.Interview, error) {
	// candidate_id is a uuid column; the roster parameter is text[] (it also
	// feeds the interviewer_ids text[] overlap), so the scalar side is cast.
	query := `
		SELECT ` + interviewColumns + `
		FROM interviews
		WHERE date = $1
		AND status NOT IN ('completed', 'canceled', 'rescheduled', 'no_show')
		AND (candidate_id::text = ANY($2) OR interviewer_ids && $2)
		ORDER BY start_time ASC
	`
	rows, err := r.db.QueryContext(ctx, query, date, pq.Array(uuidStrings(participantIDs)))
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews for participants: %w", err)
	}
	defer rows.Close()

	var interviews []model.Interview
	for rows.Next() {
		interview, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		interviews = append(interviews, *interview)
	}
	return interviews, rows.Err()
}

func (r *interviewRepository) AttachDocument(ctx context.Context, doc *model.Document) error {
	query := `
		INSERT INTO interview_documents (id, interview_id, name, url, uploaded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	doc.ID = uuid.New()
	doc.CreatedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.InterviewID, doc.Name, doc.URL, doc.UploadedBy, doc.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to attach document: %w", err)
	}
	return nil
}

func (r *interviewRepository) AttachFeedback(ctx context.Context, fb *model.Feedback) error {
	query := `
		INSERT INTO interview_feedback (id, interview_id, interviewer_id, rating, recommendation, notes, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	fb.ID = uuid.New()
	fb.SubmittedAt = time.Now().UTC()

	_, err := r.db.ExecContext(ctx, query,
		fb.ID, fb.InterviewID, fb.InterviewerID, fb.Rating, fb.Recommendation, fb.Notes, fb.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to attach feedback: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInterview(row rowScanner) (*model.Interview, error) {
	var (
		interview     model.Interview
		interviewers  pq.StringArray
		reminderTimes pq.Float64Array
		provider, url string
	)

	err := row.Scan(
		&interview.ID,
		&interview.CandidateID,
		&interviewers,
		&interview.Type,
		&interview.Status,
		&interview.Date,
		&interview.StartTime,
		&interview.EndTime,
		&interview.TimeZoneOffset,
		&provider,
		&url,
		&interview.Notifications.SendEmail,
		&interview.Notifications.SendSMS,
		&interview.Notifications.SendPush,
		&reminderTimes,
		&interview.ATS.SyncEnabled,
		&interview.ATS.ExternalRef,
		&interview.RescheduledFrom,
		&interview.RescheduledTo,
		&interview.CancelReason,
		&interview.CreatedAt,
		&interview.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, s := range interviewers {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid interviewer id %q: %w", s, err)
		}
		interview.InterviewerIDs = append(interview.InterviewerIDs, id)
	}
	interview.Notifications.ReminderTimes = reminderTimes
	if provider != "" || url != "" {
		interview.Conferencing = &model.ConferencingDetails{Provider: provider, URL: url}
	}
	return &interview, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
