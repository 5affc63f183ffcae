package repository

import (
	"time"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QRCodeRepository struct {
	db *gorm.DB
}

func NewQRCodeRepository(db *gorm.DB) *QRCodeRepository {
	return &QRCodeRepository{db: db}
}

// ScanStatistics is the aggregate summary across an owner's QR codes.
type ScanStatistics struct {
	TotalQRCodes      int64
	ActiveQRCodes     int64
	TotalScans        int64
	TotalUniqueScans  int64
	AverageScansPerQR int64
}

func (r *QRCodeRepository) Create(code *domain.QRCode) error {
	return r.db.Create(code).Error
}

func (r *QRCodeRepository) FindByID(id uuid.UUID) (*domain.QRCode, error) {
	var code domain.QRCode
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *QRCodeRepository) FindByCode(slug string) (*domain.QRCode, error) {
	var code domain.QRCode
	err := r.db.Where("code = ? AND deleted_at IS NULL", slug).First(&code).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (r *QRCodeRepository) Update(code *domain.QRCode) error {
	return r.db.Save(code).Error
}

func (r *QRCodeRepository) SoftDelete(id uuid.UUID) error {
	return r.db.Model(&domain.QRCode{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now()).Error
}

func (r *QRCodeRepository) ListByQuestionnaire(questionnaireID uuid.UUID) ([]domain.QRCode, error) {
	var codes []domain.QRCode
	err := r.db.Where("questionnaire_id = ? AND deleted_at IS NULL", questionnaireID).
		Order("created_at DESC").
		Find(&codes).Error
	return codes, err
}

// IncrementScan bumps the scan counters in a single UPDATE so concurrent
// scans never lose increments. Unique scans also bump unique_scans.
func (r *QRCodeRepository) IncrementScan(id uuid.UUID, unique bool) error {
	updates := map[string]interface{}{
		"scan_count":   gorm.Expr("scan_count + 1"),
		"last_scan_at": time.Now(),
	}
	if unique {
		updates["unique_scans"] = gorm.Expr("unique_scans + 1")
	}
	return r.db.Model(&domain.QRCode{}).
		Where("id = ?", id).
		UpdateColumns(updates).Error
}

// CleanupExpired deactivates every active code whose expiry has passed, in
// one bulk UPDATE. Returns the number of rows deactivated.
func (r *QRCodeRepository) CleanupExpired() (int64, error) {
	result := r.db.Model(&domain.QRCode{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at < ? AND deleted_at IS NULL", true, time.Now()).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

// GetScanStatistics aggregates counts and scan sums for one owner's codes.
// The average is integer-rounded and zero on an empty set.
func (r *QRCodeRepository) GetScanStatistics(userID uuid.UUID) (*ScanStatistics, error) {
	base := func() *gorm.DB {
		return r.db.Model(&domain.QRCode{}).
			Joins("JOIN questionnaires ON questionnaires.id = qr_codes.questionnaire_id").
			Where("questionnaires.user_id = ? AND qr_codes.deleted_at IS NULL", userID)
	}

	stats := &ScanStatistics{}

	if err := base().Count(&stats.TotalQRCodes).Error; err != nil {
		return nil, err
	}
	if err := base().Where("qr_codes.is_active = ?", true).Count(&stats.ActiveQRCodes).Error; err != nil {
		return nil, err
	}

	type sums struct {
		Scans  int64
		Unique int64
	}
	var s sums
	err := base().
		Select("COALESCE(SUM(qr_codes.scan_count), 0) as scans, COALESCE(SUM(qr_codes.unique_scans), 0) as \"unique\"").
		Scan(&s).Error
	if err != nil {
		return nil, err
	}
	stats.TotalScans = s.Scans
	stats.TotalUniqueScans = s.Unique

	if stats.TotalQRCodes > 0 {
		stats.AverageScansPerQR = (stats.TotalScans + stats.TotalQRCodes/2) / stats.TotalQRCodes
	}

	return stats, nil
}

func (r *QRCodeRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&domain.QRCode{}).Where("deleted_at IS NULL").Count(&count).Error
	return count, err
}

func (r *QRCodeRepository) SumScans() (int64, error) {
	var total *int64
	err := r.db.Model(&domain.QRCode{}).
		Where("deleted_at IS NULL").
		Select("SUM(scan_count)").
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

// CodeExists reports whether a scan slug is already taken, including by
// soft-deleted rows, since the slug column is unique.
func (r *QRCodeRepository) CodeExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.QRCode{}).Where("code = ?", slug).Count(&count).Error
	return count > 0, err
}
