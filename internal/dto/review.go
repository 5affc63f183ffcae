package dto

import (
	"time"

	"github.com/google/uuid"
)

// SubmitReviewRequest - public submission from a scanned questionnaire
type SubmitReviewRequest struct {
	Rating  int                      `json:"rating"`
	Comment *string                  `json:"comment,omitempty"`
	Source  *string                  `json:"source,omitempty"`
	Answers []SubmitReviewAnswerItem `json:"answers,omitempty"`
}

// SubmitReviewAnswerItem - per-question answer, stored verbatim in the comment
// trail for non-rating question types
type SubmitReviewAnswerItem struct {
	QuestionID uuid.UUID   `json:"question_id"`
	Value      interface{} `json:"value"`
}

type UpdateReviewStatusRequest struct {
	Status string `json:"status"`
}

type ReviewDTO struct {
	ID              uuid.UUID  `json:"id"`
	QuestionnaireID uuid.UUID  `json:"questionnaire_id"`
	QRCodeID        *uuid.UUID `json:"qr_code_id,omitempty"`
	Rating          int        `json:"rating"`
	Comment         *string    `json:"comment,omitempty"`
	Sentiment       string     `json:"sentiment"`
	Topics          []string   `json:"topics"`
	Status          string     `json:"status"`
	Source          string     `json:"source"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ReviewStatsDTO - sentiment / status rollup for a questionnaire
type ReviewStatsDTO struct {
	Total         int64            `json:"total"`
	AverageRating float64          `json:"average_rating"`
	BySentiment   map[string]int64 `json:"by_sentiment"`
	ByStatus      map[string]int64 `json:"by_status"`
}
