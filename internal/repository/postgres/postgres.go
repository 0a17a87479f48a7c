package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/talentloop/scheduling-api/internal/repository"
)

type interviewRepository struct {
	db *sqlx.DB
}

type participantRepository struct {
	db *sqlx.DB
}

type reminderRepository struct {
	db *sqlx.DB
}

type outboxRepository struct {
	db *sqlx.DB
}

func NewInterviewRepository(db *sqlx.DB) repository.InterviewRepository {
	return &interviewRepository{db: db}
}

func NewParticipantRepository(db *sqlx.DB) repository.ParticipantRepository {
	return &participantRepository{db: db}
}

func NewReminderRepository(db *sqlx.DB) repository.ReminderRepository {
	return &reminderRepository{db: db}
}

func NewOutboxRepository(db *sqlx.DB) repository.OutboxRepository {
	return &outboxRepository{db: db}
}
