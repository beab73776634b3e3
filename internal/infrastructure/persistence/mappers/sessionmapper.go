package mappers

import (
	"lectern/internal/domain/identity"
	"lectern/internal/infrastructure/persistence/models"
)

// SessionMapper handles the conversion between Session domain entities and persistence models.
type SessionMapper interface {
	ToModel(entity *identity.Session) *models.SessionModel
	ToDomain(model *models.SessionModel) *identity.Session
}

type sessionMapperImpl struct{}

// NewSessionMapper creates a new SessionMapper.
func NewSessionMapper() SessionMapper {
	return &sessionMapperImpl{}
}

func (m *sessionMapperImpl) ToModel(entity *identity.Session) *models.SessionModel {
	if entity == nil {
		return nil
	}
	return &models.SessionModel{
		ID:            entity.ID,
		UserID:        entity.UserID,
		DeviceID:      entity.DeviceID,
		AccessToken:   entity.AccessToken,
		RefreshToken:  entity.RefreshToken,
		ExpiresAt:     entity.ExpiresAt,
		LastRefreshed: entity.LastRefreshed,
		CreatedAt:     entity.CreatedAt,
	}
}

func (m *sessionMapperImpl) ToDomain(model *models.SessionModel) *identity.Session {
	if model == nil {
		return nil
	}
	return &identity.Session{
		ID:            model.ID,
		UserID:        model.UserID,
		DeviceID:      model.DeviceID,
		AccessToken:   model.AccessToken,
		RefreshToken:  model.RefreshToken,
		ExpiresAt:     model.ExpiresAt,
		LastRefreshed: model.LastRefreshed,
		CreatedAt:     model.CreatedAt,
	}
}
