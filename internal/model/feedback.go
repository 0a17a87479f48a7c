package model

import (
	"time"

	"github.com/google/uuid"
)

type FeedbackRecommendation string

const (
	RecommendationStrongYes FeedbackRecommendation = "strong_yes"
	RecommendationYes       FeedbackRecommendation = "yes"
	RecommendationNeutral   FeedbackRecommendation = "neutral"
	RecommendationNo        FeedbackRecommendation = "no"
	RecommendationStrongNo  FeedbackRecommendation = "strong_no"
)

// Feedback is attached by the feedback collaborator after an interview ends.
// Its arrival drives the pending_feedback to completed transition.
type Feedback struct {
	ID             uuid.UUID              `json:"id" db:"id"`
	InterviewID    uuid.UUID              `json:"interview_id" db:"interview_id"`
	InterviewerID  uuid.UUID              `json:"interviewer_id" db:"interviewer_id"`
	Rating         int                    `json:"rating" db:"rating"`
	Recommendation FeedbackRecommendation `json:"recommendation" db:"recommendation"`
	Notes          string                 `json:"notes" db:"notes"`
	SubmittedAt    time.Time              `json:"submitted_at" db:"submitted_at"`
}

// Document is a file reference attached to an interview (resume, rubric,
// take-home). Storage is a collaborator concern; only the pointer lives here.
type Document struct {
	ID          uuid.UUID `json:"id" db:"id"`
	InterviewID uuid.UUID `json:"interview_id" db:"interview_id"`
	Name        string    `json:"name" db:"name"`
	URL         string    `json:"url" db:"url"`
	UploadedBy  uuid.UUID `json:"uploaded_by" db:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type AttachFeedbackRequest struct {
	InterviewerID  uuid.UUID              `json:"interviewer_id" binding:"required"`
	Rating         int                    `json:"rating" binding:"required,min=1,max=5"`
	Recommendation FeedbackRecommendation `json:"recommendation" binding:"required,oneof=strong_yes yes neutral no strong_no"`
	Notes          string                 `json:"notes" binding:"max=4000"`
}
