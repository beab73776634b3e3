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

type SemesterRepository struct {
	db     *gorm.DB
	mapper mappers.CourseMapper
}

func NewSemesterRepository(db *gorm.DB) catalog.SemesterRepository {
	return &SemesterRepository{
		db:     db,
		mapper: mappers.NewCourseMapper(),
	}
}

func (r *SemesterRepository) GetByCourseAndNumber(ctx context.Context, courseID uint, number int) (*catalog.Semester, error) {
	var model models.SemesterModel
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND semester_number = ?", courseID, number).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get semester by course and number: %w", err)
	}
	return r.mapper.SemesterToDomain(&model), nil
}
