package repository

import (
	"time"

	"github.com/FWaldi/Ulasis-cmplte-1-sub001/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *domain.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) FindByID(id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsernameOrEmail(identifier string) (*domain.User, error) {
	var user domain.User
	err := r.db.Where("(username = ? OR email = ?) AND deleted_at IS NULL", identifier, identifier).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *domain.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepository) UsernameExists(username string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.Model(&domain.User{}).Where("username = ? AND deleted_at IS NULL", username)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) EmailExists(email string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.Model(&domain.User{}).Where("email = ? AND deleted_at IS NULL", email)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) List(search string, plan *domain.PlanTier, isActive *bool, page, limit int) ([]domain.User, int64, error) {
	var users []domain.User
	var total int64

	query := r.db.Model(&domain.User{}).Where("deleted_at IS NULL")

	if search != "" {
		like := "%" + search + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ? OR business_name ILIKE ?", like, like, like)
	}
	if plan != nil {
		query = query.Where("plan = ?", *plan)
	}
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *UserRepository) SetActive(id uuid.UUID, active bool) error {
	return r.db.Model(&domain.User{}).Where("id = ?", id).Update("is_active", active).Error
}

func (r *UserRepository) SetPlan(id uuid.UUID, plan domain.PlanTier) error {
	return r.db.Model(&domain.User{}).Where("id = ?", id).Update("plan", plan).Error
}

func (r *UserRepository) TouchLastLogin(id uuid.UUID) error {
	return r.db.Model(&domain.User{}).Where("id = ?", id).Update("last_login_at", time.Now()).Error
}

func (r *UserRepository) CountByPlan() (map[string]int64, error) {
	type row struct {
		Plan  string
		Count int64
	}
	var rows []row
	err := r.db.Model(&domain.User{}).
		Select("plan, COUNT(*) as count").
		Where("deleted_at IS NULL").
		Group("plan").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, rw := range rows {
		out[rw.Plan] = rw.Count
	}
	return out, nil
}
