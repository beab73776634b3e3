package mappers

import (
	"lectern/internal/domain/identity"
	"lectern/internal/infrastructure/persistence/models"
)

// UserMapper handles the conversion between User domain entities and persistence models.
type UserMapper interface {
	ToModel(entity *identity.User) *models.UserModel
	ToDomain(model *models.UserModel) *identity.User
}

type userMapperImpl struct{}

// NewUserMapper creates a new UserMapper.
func NewUserMapper() UserMapper {
	return &userMapperImpl{}
}

func (m *userMapperImpl) ToModel(entity *identity.User) *models.UserModel {
	if entity == nil {
		return nil
	}
	return &models.UserModel{
		ID:              entity.ID,
		CollegeID:       entity.CollegeID,
		CourseID:        entity.CourseID,
		CurrentSemester: entity.CurrentSemester,
		IsAdmin:         entity.IsAdmin,
		CreatedAt:       entity.CreatedAt,
		LastLoginAt:     entity.LastLoginAt,
	}
}

func (m *userMapperImpl) ToDomain(model *models.UserModel) *identity.User {
	if model == nil {
		return nil
	}
	return &identity.User{
		ID:              model.ID,
		CollegeID:       model.CollegeID,
		CourseID:        model.CourseID,
		CurrentSemester: model.CurrentSemester,
		IsAdmin:         model.IsAdmin,
		CreatedAt:       model.CreatedAt,
		LastLoginAt:     model.LastLoginAt,
	}
}
