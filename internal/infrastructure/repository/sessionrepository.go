package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lectern/internal/domain/identity"
	"lectern/internal/infrastructure/persistence/mappers"
	"lectern/internal/infrastructure/persistence/models"
)

type SessionRepository struct {
	db     *gorm.DB
	mapper mappers.SessionMapper
}

func NewSessionRepository(db *gorm.DB) identity.SessionRepository {
	return &SessionRepository{
		db:     db,
		mapper: mappers.NewSessionMapper(),
	}
}

func (r *SessionRepository) GetByUserAndDevice(ctx context.Context, userID uint, deviceID string) (*identity.Session, error) {
	var model models.SessionModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND device_id = ?", userID, deviceID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session by user and device: %w", err)
	}
	return r.mapper.ToDomain(&model), nil
}

// Upsert relies on the idx_user_device unique index so concurrent logins from
// the same device collapse into a single row.
func (r *SessionRepository) Upsert(ctx context.Context, session *identity.Session) error {
	model := r.mapper.ToModel(session)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "device_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "expires_at", "last_refreshed"}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	session.ID = model.ID
	return nil
}

func (r *SessionRepository) UpdateAccessToken(ctx context.Context, sessionID uint, accessToken string, expiresAt, lastRefreshed time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.SessionModel{}).
		Where("id = ?", sessionID).
		Updates(map[string]any{
			"access_token":   accessToken,
			"expires_at":     expiresAt,
			"last_refreshed": lastRefreshed,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update access token: %w", err)
	}
	return nil
}
