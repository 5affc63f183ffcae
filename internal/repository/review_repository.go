package repository

import (
	"time"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// ReviewFilter narrows ListByQuestionnaire.
type ReviewFilter struct {
	Sentiment *domain.Sentiment
	Status    *domain.ReviewStatus
	From      *time.Time
	To        *time.Time
	Search    string
	Page      int
	Limit     int
}

func (r *ReviewRepository) Create(review *domain.Review) error {
	return r.db.Create(review).Error
}

func (r *ReviewRepository) FindByID(id uuid.UUID) (*domain.Review, error) {
	var review domain.Review
	err := r.db.Where("id = ?", id).First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepository) UpdateStatus(id uuid.UUID, status domain.ReviewStatus) error {
	return r.db.Model(&domain.Review{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *ReviewRepository) ListByQuestionnaire(questionnaireID uuid.UUID, filter ReviewFilter) ([]domain.Review, int64, error) {
	var reviews []domain.Review
	var total int64

	query := r.db.Model(&domain.Review{}).Where("questionnaire_id = ?", questionnaireID)

	if filter.Sentiment != nil {
		query = query.Where("sentiment = ?", *filter.Sentiment)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	if filter.Search != "" {
		query = query.Where("comment ILIKE ?", "%"+filter.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := query.Order("created_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, err
	}

	return reviews, total, nil
}

// ListInRange returns every review of a questionnaire inside [from, to],
// oldest first, for analytics derivation.
func (r *ReviewRepository) ListInRange(questionnaireID uuid.UUID, from, to time.Time) ([]domain.Review, error) {
	var reviews []domain.Review
	err := r.db.Where("questionnaire_id = ? AND created_at >= ? AND created_at <= ?", questionnaireID, from, to).
		Order("created_at ASC").
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepository) CountByQuestionnaire(questionnaireID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Review{}).
		Where("questionnaire_id = ?", questionnaireID).
		Count(&count).Error
	return count, err
}

func (r *ReviewRepository) CountInRange(questionnaireID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Review{}).
		Where("questionnaire_id = ? AND created_at >= ? AND created_at <= ?", questionnaireID, from, to).
		Count(&count).Error
	return count, err
}

func (r *ReviewRepository) CountBySentiment(questionnaireID uuid.UUID) (map[string]int64, error) {
	return r.groupCount(questionnaireID, "sentiment")
}

func (r *ReviewRepository) CountByStatus(questionnaireID uuid.UUID) (map[string]int64, error) {
	return r.groupCount(questionnaireID, "status")
}

func (r *ReviewRepository) groupCount(questionnaireID uuid.UUID, column string) (map[string]int64, error) {
	type row struct {
		Key   string
		Count int64
	}
	var rows []row
	err := r.db.Model(&domain.Review{}).
		Select(column+" as key, COUNT(*) as count").
		Where("questionnaire_id = ?", questionnaireID).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, rw := range rows {
		out[rw.Key] = rw.Count
	}
	return out, nil
}

func (r *ReviewRepository) AverageRating(questionnaireID uuid.UUID) (float64, error) {
	var avg *float64
	err := r.db.Model(&domain.Review{}).
		Where("questionnaire_id = ?", questionnaireID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}

func (r *ReviewRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Review{}).Count(&count).Error
	return count, err
}

func (r *ReviewRepository) CountAllBySentiment() (map[string]int64, error) {
	type row struct {
		Key   string
		Count int64
	}
	var rows []row
	err := r.db.Model(&domain.Review{}).
		Select("sentiment as key, COUNT(*) as count").
		Group("sentiment").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, rw := range rows {
		out[rw.Key] = rw.Count
	}
	return out, nil
}
