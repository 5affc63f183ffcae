package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateQRCodeRequest struct {
	Label           string     `json:"label"`
	TargetURL       *string    `json:"target_url,omitempty"`
	LogoURL         *string    `json:"logo_url,omitempty"`
	ForegroundColor *string    `json:"foreground_color,omitempty"`
	BackgroundColor *string    `json:"background_color,omitempty"`
	Size            *int       `json:"size,omitempty"`
	ErrorCorrection *string    `json:"error_correction,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

type UpdateQRCodeRequest struct {
	Label           *string    `json:"label,omitempty"`
	TargetURL       *string    `json:"target_url,omitempty"`
	LogoURL         *string    `json:"logo_url,omitempty"`
	ForegroundColor *string    `json:"foreground_color,omitempty"`
	BackgroundColor *string    `json:"background_color,omitempty"`
	Size            *int       `json:"size,omitempty"`
	ErrorCorrection *string    `json:"error_correction,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	IsActive        *bool      `json:"is_active,omitempty"`
}

type QRCodeDTO struct {
	ID              uuid.UUID  `json:"id"`
	QuestionnaireID uuid.UUID  `json:"questionnaire_id"`
	Code            string     `json:"code"`
	Label           string     `json:"label"`
	TargetURL       string     `json:"target_url"`
	ScanURL         string     `json:"scan_url"`
	ImageURL        *string    `json:"image_url,omitempty"`
	LogoURL         *string    `json:"logo_url,omitempty"`
	ForegroundColor string     `json:"foreground_color"`
	BackgroundColor string     `json:"background_color"`
	Size            int        `json:"size"`
	ErrorCorrection string     `json:"error_correction"`
	ScanCount       int64      `json:"scan_count"`
	UniqueScans     int64      `json:"unique_scans"`
	LastScanAt      *time.Time `json:"last_scan_at,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
	IsExpired       bool       `json:"is_expired"`
	IsActive        bool       `json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ScanStatisticsDTO - aggregate scan stats across an owner's QR codes
type ScanStatisticsDTO struct {
	TotalQRCodes      int64 `json:"total_qr_codes"`
	ActiveQRCodes     int64 `json:"active_qr_codes"`
	TotalScans        int64 `json:"total_scans"`
	TotalUniqueScans  int64 `json:"total_unique_scans"`
	AverageScansPerQR int64 `json:"average_scans_per_qr"`
}

type CleanupResultDTO struct {
	Deactivated int64 `json:"deactivated"`
}
