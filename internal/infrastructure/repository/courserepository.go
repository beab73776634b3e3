package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lectern/internal/domain/catalog"
	"lectern/internal/infrastructure/persistence/mappers"
	"lectern/internal/infrastructure/persistence/models"
)

type CourseRepository struct {
	db     *gorm.DB
	mapper mappers.CourseMapper
}

func NewCourseRepository(db *gorm.DB) catalog.CourseRepository {
	return &CourseRepository{
		db:     db,
		mapper: mappers.NewCourseMapper(),
	}
}

func (r *CourseRepository) GetByID(ctx context.Context, id uint) (*catalog.Course, error) {
	var model models.CourseModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course by ID: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

func (r *CourseRepository) GetByCode(ctx context.Context, code string) (*catalog.Course, error) {
	var model models.CourseModel
	err := r.db.WithContext(ctx).Where("course_code = ?", code).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course by code: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

func (r *CourseRepository) GetByName(ctx context.Context, name string) (*catalog.Course, error) {
	var model models.CourseModel
	err := r.db.WithContext(ctx).Where("course_name = ?", name).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course by name: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

func (r *CourseRepository) List(ctx context.Context) ([]*catalog.Course, error) {
	var courseModels []models.CourseModel
	err := r.db.WithContext(ctx).Order("course_code ASC").Find(&courseModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	courses := make([]*catalog.Course, len(courseModels))
	for i := range courseModels {
		courses[i] = r.mapper.ToDomain(&courseModels[i])
	}
	return courses, nil
}

func (r *CourseRepository) Create(ctx context.Context, course *catalog.Course) error {
	model := r.mapper.ToModel(course)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	course.ID = model.ID
	return nil
}
