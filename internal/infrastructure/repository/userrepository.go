package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lectern/internal/domain/identity"
	"lectern/internal/infrastructure/persistence/mappers"
	"lectern/internal/infrastructure/persistence/models"
	"lectern/internal/shared/biztime"
)

type UserRepository struct {
	db     *gorm.DB
	mapper mappers.UserMapper
}

func NewUserRepository(db *gorm.DB) identity.UserRepository {
	return &UserRepository{
		db:     db,
		mapper: mappers.NewUserMapper(),
	}
}

func (r *UserRepository) GetByCollegeID(ctx context.Context, collegeID string) (*identity.User, error) {
	var model models.UserModel
	err := r.db.WithContext(ctx).Where("college_id = ?", collegeID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by college ID: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*identity.User, error) {
	var model models.UserModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

func (r *UserRepository) Create(ctx context.Context, user *identity.User) error {
	model := r.mapper.ToModel(user)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = model.ID
	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", id).
		Update("last_login_at", biztime.NowUTC()).Error
	if err != nil {
		return fmt.Errorf("failed to touch last login: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateProfileFields(ctx context.Context, id uint, courseID *uint, currentSemester *int) (*identity.User, error) {
	updates := map[string]any{}
	if courseID != nil {
		updates["course_id"] = *courseID
	}
	if currentSemester != nil {
		updates["current_semester"] = *currentSemester
	}
	if len(updates) > 0 {
		err := r.db.WithContext(ctx).
			Model(&models.UserModel{}).
			Where("id = ?", id).
			Updates(updates).Error
		if err != nil {
			return nil, fmt.Errorf("failed to update profile fields: %w", err)
		}
	}
	return r.GetByID(ctx, id)
}
