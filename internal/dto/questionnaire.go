package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateQuestionnaireRequest - owner creates a questionnaire
type CreateQuestionnaireRequest struct {
	Title           string                 `json:"title"`
	Description     *string                `json:"description,omitempty"`
	CategoryMapping map[string]interface{} `json:"category_mapping,omitempty"`
	IsPublic        *bool                  `json:"is_public,omitempty"`
}

// UpdateQuestionnaireRequest - partial update
type UpdateQuestionnaireRequest struct {
	Title           *string                 `json:"title,omitempty"`
	Description     *string                 `json:"description,omitempty"`
	CategoryMapping *map[string]interface{} `json:"category_mapping,omitempty"`
	IsActive        *bool                   `json:"is_active,omitempty"`
	IsPublic        *bool                   `json:"is_public,omitempty"`
}

type QuestionnaireListDTO struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	IsActive      bool      `json:"is_active"`
	IsPublic      bool      `json:"is_public"`
	ResponseCount int       `json:"response_count"`
	QRCodeCount   int64     `json:"qr_code_count"`
	CreatedAt     time.Time `json:"created_at"`
}

type QuestionnaireDetailDTO struct {
	ID              uuid.UUID              `json:"id"`
	Title           string                 `json:"title"`
	Description     *string                `json:"description,omitempty"`
	CategoryMapping map[string]interface{} `json:"category_mapping"`
	IsActive        bool                   `json:"is_active"`
	IsPublic        bool                   `json:"is_public"`
	ResponseCount   int                    `json:"response_count"`
	Questions       []QuestionDTO          `json:"questions"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
}

// QuotaDTO - questionnaire quota state for the caller's plan
type QuotaDTO struct {
	CanCreate bool   `json:"can_create"`
	Used      int64  `json:"used"`
	Limit     int    `json:"limit"`
	Unlimited bool   `json:"unlimited"`
	Plan      string `json:"plan"`
}

// Questions

type QuestionDTO struct {
	ID       uuid.UUID              `json:"id"`
	Type     string                 `json:"type"`
	Prompt   string                 `json:"prompt"`
	Position int                    `json:"position"`
	Required bool                   `json:"required"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type CreateQuestionRequest struct {
	Type     string                 `json:"type"`
	Prompt   string                 `json:"prompt"`
	Required bool                   `json:"required"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type UpdateQuestionRequest struct {
	Prompt   *string                 `json:"prompt,omitempty"`
	Required *bool                   `json:"required,omitempty"`
	Options  *map[string]interface{} `json:"options,omitempty"`
}

type ReorderQuestionsRequest struct {
	QuestionIDs []uuid.UUID `json:"question_ids"`
}
