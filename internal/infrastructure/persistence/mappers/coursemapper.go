package mappers

import (
	"encoding/json"

	"gorm.io/datatypes"

	"lectern/internal/domain/catalog"
	"lectern/internal/infrastructure/persistence/models"
)

// CourseMapper handles the conversion between Course domain entities and persistence models.
// Keywords are stored as a JSON array column and decoded into a string slice on the way out.
type CourseMapper interface {
	ToModel(entity *catalog.Course) *models.CourseModel
	ToDomain(model *models.CourseModel) *catalog.Course
	SemesterToDomain(model *models.SemesterModel) *catalog.Semester
}

type courseMapperImpl struct{}

// NewCourseMapper creates a new CourseMapper.
func NewCourseMapper() CourseMapper {
	return &courseMapperImpl{}
}

func (m *courseMapperImpl) ToModel(entity *catalog.Course) *models.CourseModel {
	if entity == nil {
		return nil
	}
	var keywords datatypes.JSON
	if len(entity.Keywords) > 0 {
		if raw, err := json.Marshal(entity.Keywords); err == nil {
			keywords = raw
		}
	}
	return &models.CourseModel{
		ID:         entity.ID,
		CourseCode: entity.Code,
		CourseName: entity.Name,
		Keywords:   keywords,
	}
}

func (m *courseMapperImpl) ToDomain(model *models.CourseModel) *catalog.Course {
	if model == nil {
		return nil
	}
	var keywords []string
	if len(model.Keywords) > 0 {
		// Malformed keyword JSON just means no fuzzy matching for this course.
		_ = json.Unmarshal(model.Keywords, &keywords)
	}
	return &catalog.Course{
		ID:       model.ID,
		Code:     model.CourseCode,
		Name:     model.CourseName,
		Keywords: keywords,
	}
}

func (m *courseMapperImpl) SemesterToDomain(model *models.SemesterModel) *catalog.Semester {
	if model == nil {
		return nil
	}
	return &catalog.Semester{
		ID:       model.ID,
		CourseID: model.CourseID,
		Number:   model.SemesterNumber,
	}
}
