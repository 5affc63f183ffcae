package repository

import (
	"time"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionnaireRepository struct {
	db *gorm.DB
}

func NewQuestionnaireRepository(db *gorm.DB) *QuestionnaireRepository {
	return &QuestionnaireRepository{db: db}
}

// ListOptions filters FindByUserPaginated.
type ListOptions struct {
	Page            int
	Limit           int
	IncludeInactive bool
	Search          string
	CreatedFrom     *time.Time
	CreatedTo       *time.Time
}

// QuotaResult reports whether the owner may create another questionnaire.
type QuotaResult struct {
	CanCreate bool
	Used      int64
	Limit     int
}

func (r *QuestionnaireRepository) Create(q *domain.Questionnaire) error {
	return r.db.Create(q).Error
}

func (r *QuestionnaireRepository) FindByID(id uuid.UUID) (*domain.Questionnaire, error) {
	var q domain.Questionnaire
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionnaireRepository) FindByIDWithQuestions(id uuid.UUID) (*domain.Questionnaire, error) {
	var q domain.Questionnaire
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("id = ? AND deleted_at IS NULL", id).First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionnaireRepository) Update(q *domain.Questionnaire) error {
	return r.db.Save(q).Error
}

func (r *QuestionnaireRepository) SoftDelete(id uuid.UUID) error {
	return r.db.Model(&domain.Questionnaire{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Update("deleted_at", time.Now()).Error
}

// FindByUserPaginated lists an owner's questionnaires. Search is a crude
// substring match over title, description and the serialized category mapping.
func (r *QuestionnaireRepository) FindByUserPaginated(userID uuid.UUID, opts ListOptions) ([]domain.Questionnaire, int64, error) {
	var items []domain.Questionnaire
	var total int64

	query := r.db.Model(&domain.Questionnaire{}).
		Where("user_id = ? AND deleted_at IS NULL", userID)

	if !opts.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if opts.Search != "" {
		like := "%" + opts.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR category_mapping::text ILIKE ?", like, like, like)
	}
	if opts.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *opts.CreatedFrom)
	}
	if opts.CreatedTo != nil {
		query = query.Where("created_at <= ?", *opts.CreatedTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (opts.Page - 1) * opts.Limit
	err := query.Order("created_at DESC").
		Offset(offset).
		Limit(opts.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// CheckQuota compares the plan's questionnaire cap against the owner's row
// count. Soft-deleted rows count toward the quota.
func (r *QuestionnaireRepository) CheckQuota(userID uuid.UUID, plan domain.PlanTier) (*QuotaResult, error) {
	var used int64
	err := r.db.Model(&domain.Questionnaire{}).
		Where("user_id = ?", userID).
		Count(&used).Error
	if err != nil {
		return nil, err
	}

	limit := domain.FeaturesForPlan(plan).QuestionnaireQuota
	result := &QuotaResult{
		Used:  used,
		Limit: limit,
	}
	result.CanCreate = limit == domain.QuotaUnlimited || used < int64(limit)
	return result, nil
}

// IncrementResponseCount bumps the denormalized counter in a single UPDATE.
func (r *QuestionnaireRepository) IncrementResponseCount(id uuid.UUID) error {
	return r.db.Model(&domain.Questionnaire{}).
		Where("id = ?", id).
		UpdateColumn("response_count", gorm.Expr("response_count + 1")).Error
}

func (r *QuestionnaireRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&domain.Questionnaire{}).Where("deleted_at IS NULL").Count(&count).Error
	return count, err
}

func (r *QuestionnaireRepository) QRCodeCount(questionnaireID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&domain.QRCode{}).
		Where("questionnaire_id = ? AND deleted_at IS NULL", questionnaireID).
		Count(&count).Error
	return count, err
}

// ============================================================================
// QUESTIONS
// ============================================================================

func (r *QuestionnaireRepository) CreateQuestion(q *domain.Question) error {
	return r.db.Create(q).Error
}

func (r *QuestionnaireRepository) FindQuestionByID(id uuid.UUID) (*domain.Question, error) {
	var q domain.Question
	err := r.db.Where("id = ?", id).First(&q).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionnaireRepository) UpdateQuestion(q *domain.Question) error {
	return r.db.Save(q).Error
}

func (r *QuestionnaireRepository) DeleteQuestion(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&domain.Question{}).Error
}

func (r *QuestionnaireRepository) ListQuestions(questionnaireID uuid.UUID) ([]domain.Question, error) {
	var questions []domain.Question
	err := r.db.Where("questionnaire_id = ?", questionnaireID).
		Order("position ASC").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionnaireRepository) NextQuestionPosition(questionnaireID uuid.UUID) (int, error) {
	var max *int
	err := r.db.Model(&domain.Question{}).
		Where("questionnaire_id = ?", questionnaireID).
		Select("MAX(position)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

// ReorderQuestions rewrites positions to match the given id order.
func (r *QuestionnaireRepository) ReorderQuestions(questionnaireID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			err := tx.Model(&domain.Question{}).
				Where("id = ? AND questionnaire_id = ?", id, questionnaireID).
				Update("position", i+1).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
