package dto

import (
	"time"

	"github.com/google/uuid"
)

// PlatformStatsDTO - admin dashboard totals
type PlatformStatsDTO struct {
	TotalUsers          int64            `json:"total_users"`
	ActiveUsers         int64            `json:"active_users"`
	TotalQuestionnaires int64            `json:"total_questionnaires"`
	TotalQRCodes        int64            `json:"total_qr_codes"`
	TotalScans          int64            `json:"total_scans"`
	TotalReviews        int64            `json:"total_reviews"`
	ReviewsBySentiment  map[string]int64 `json:"reviews_by_sentiment"`
	UsersByPlan         map[string]int64 `json:"users_by_plan"`
}

type AdminUserDTO struct {
	ID           uuid.UUID  `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	BusinessName string     `json:"business_name"`
	Role         string     `json:"role"`
	Plan         string     `json:"plan"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type ChangePlanRequest struct {
	Plan string `json:"plan"`
}
