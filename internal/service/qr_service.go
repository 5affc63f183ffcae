package service

import (
	"context"
	"fmt"
	"image/color"
	"regexp"
	"strings"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	QRSizeMin = 128
	QRSizeMax = 1024
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ObjectStore is the subset of the storage client the QR service needs.
type ObjectStore interface {
	PutObject(ctx context.Context, objectKey string, data []byte, contentType string) error
	DeleteObject(objectKey string) error
	GetPublicURL(objectKey string) string
}

// QRService renders QR code PNGs and keeps them in object storage.
type QRService struct {
	store       ObjectStore
	scanBaseURL string
}

func NewQRService(store ObjectStore, scanBaseURL string) *QRService {
	return &QRService{
		store:       store,
		scanBaseURL: strings.TrimSuffix(scanBaseURL, "/"),
	}
}

// NewCodeSlug returns a short slug for the public scan URL.
func NewCodeSlug() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:10]
}

// ScanURL is the public URL encoded into the QR image.
func (s *QRService) ScanURL(slug string) string {
	return fmt.Sprintf("%s/q/%s", s.scanBaseURL, slug)
}

// Render encodes the scan URL into a PNG with the row's size, colors and
// error correction level, stores it, and returns the object key.
func (s *QRService) Render(ctx context.Context, code *domain.QRCode) (string, error) {
	qr, err := qrcode.New(s.ScanURL(code.Code), recoveryLevel(code.ErrorCorrection))
	if err != nil {
		return "", fmt.Errorf("failed to encode QR content: %w", err)
	}

	fg, err := ParseHexColor(code.ForegroundColor)
	if err != nil {
		return "", err
	}
	bg, err := ParseHexColor(code.BackgroundColor)
	if err != nil {
		return "", err
	}
	qr.ForegroundColor = fg
	qr.BackgroundColor = bg

	png, err := qr.PNG(code.Size)
	if err != nil {
		return "", fmt.Errorf("failed to render QR image: %w", err)
	}

	objectKey := fmt.Sprintf("qr/%s/%s.png", code.QuestionnaireID, code.Code)
	if err := s.store.PutObject(ctx, objectKey, png, "image/png"); err != nil {
		return "", err
	}
	return objectKey, nil
}

// Remove deletes a rendered image; missing objects are not an error.
func (s *QRService) Remove(objectKey string) error {
	return s.store.DeleteObject(objectKey)
}

func (s *QRService) PublicImageURL(objectKey string) string {
	return s.store.GetPublicURL(objectKey)
}

// ValidateHexColor accepts #rrggbb only.
func ValidateHexColor(value string) bool {
	return hexColorPattern.MatchString(value)
}

// ParseHexColor converts #rrggbb into an opaque RGBA color.
func ParseHexColor(value string) (color.Color, error) {
	if !ValidateHexColor(value) {
		return nil, fmt.Errorf("invalid hex color %q", value)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(strings.ToLower(value), "#%02x%02x%02x", &r, &g, &b); err != nil {
		return nil, fmt.Errorf("invalid hex color %q", value)
	}
	return color.RGBA{R: r, G: g, B: b, A: 255}, nil
}

// ValidQRSize bounds the rendered pixel size.
func ValidQRSize(size int) bool {
	return size >= QRSizeMin && size <= QRSizeMax
}

// ValidErrorCorrection checks the level against the bounded enum.
func ValidErrorCorrection(level domain.ErrorCorrectionLevel) bool {
	switch level {
	case domain.ECLevelLow, domain.ECLevelMedium, domain.ECLevelQuality, domain.ECLevelHigh:
		return true
	default:
		return false
	}
}

func recoveryLevel(level domain.ErrorCorrectionLevel) qrcode.RecoveryLevel {
	switch level {
	case domain.ECLevelLow:
		return qrcode.Low
	case domain.ECLevelQuality:
		return qrcode.High
	case domain.ECLevelHigh:
		return qrcode.Highest
	default:
		return qrcode.Medium
	}
}
