package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"lectern/internal/domain/catalog"
	"lectern/internal/domain/identity"
	"lectern/internal/infrastructure/persistence/models"
	"lectern/internal/shared/biztime"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.UserModel{},
		&models.SessionModel{},
		&models.CourseModel{},
		&models.SemesterModel{},
	)
	require.NoError(t, err)

	return db
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	t.Run("GetByCollegeID returns nil for missing user", func(t *testing.T) {
		user, err := repo.GetByCollegeID(ctx, "PES1UG99XX999")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("Create assigns an id", func(t *testing.T) {
		courseID := uint(1)
		user, err := identity.NewUser("pes1ug23cs001", &courseID, 5)
		require.NoError(t, err)

		err = repo.Create(ctx, user)
		require.NoError(t, err)
		assert.NotZero(t, user.ID)
	})

	t.Run("GetByCollegeID finds the created user", func(t *testing.T) {
		user, err := repo.GetByCollegeID(ctx, "PES1UG23CS001")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "PES1UG23CS001", user.CollegeID)
		assert.Equal(t, 5, user.CurrentSemester)
		require.NotNil(t, user.CourseID)
		assert.Equal(t, uint(1), *user.CourseID)
	})

	t.Run("TouchLastLogin advances the timestamp", func(t *testing.T) {
		before, err := repo.GetByCollegeID(ctx, "PES1UG23CS001")
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		err = repo.TouchLastLogin(ctx, before.ID)
		require.NoError(t, err)

		after, err := repo.GetByID(ctx, before.ID)
		require.NoError(t, err)
		assert.True(t, after.LastLoginAt.After(before.LastLoginAt))
	})

	t.Run("UpdateProfileFields updates only what is set", func(t *testing.T) {
		user, err := repo.GetByCollegeID(ctx, "PES1UG23CS001")
		require.NoError(t, err)

		sem := 7
		updated, err := repo.UpdateProfileFields(ctx, user.ID, nil, &sem)
		require.NoError(t, err)
		assert.Equal(t, 7, updated.CurrentSemester)
		require.NotNil(t, updated.CourseID)
		assert.Equal(t, uint(1), *updated.CourseID)

		newCourse := uint(2)
		updated, err = repo.UpdateProfileFields(ctx, user.ID, &newCourse, nil)
		require.NoError(t, err)
		require.NotNil(t, updated.CourseID)
		assert.Equal(t, uint(2), *updated.CourseID)
		assert.Equal(t, 7, updated.CurrentSemester)
	})
}

func TestSessionRepositoryUpsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	expiry := biztime.NowUTC().Add(24 * time.Hour)
	first, err := identity.NewSession(1, "device-a", "access-1", "refresh-1", expiry)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, first))

	t.Run("conflict on same device collapses to one row", func(t *testing.T) {
		second, err := identity.NewSession(1, "device-a", "access-2", "refresh-2", expiry.Add(time.Hour))
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(ctx, second))

		var count int64
		require.NoError(t, db.Model(&models.SessionModel{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)

		stored, err := repo.GetByUserAndDevice(ctx, 1, "device-a")
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, "access-2", stored.AccessToken)
		assert.Equal(t, "refresh-2", stored.RefreshToken)
	})

	t.Run("different device gets its own row", func(t *testing.T) {
		other, err := identity.NewSession(1, "device-b", "access-3", "refresh-3", expiry)
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(ctx, other))

		var count int64
		require.NoError(t, db.Model(&models.SessionModel{}).Count(&count).Error)
		assert.Equal(t, int64(2), count)
	})

	t.Run("missing pair returns nil without error", func(t *testing.T) {
		stored, err := repo.GetByUserAndDevice(ctx, 42, "device-a")
		require.NoError(t, err)
		assert.Nil(t, stored)
	})
}

func TestSessionRepositoryUpdateAccessToken(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	expiry := biztime.NowUTC().Add(24 * time.Hour)
	session, err := identity.NewSession(7, "device-x", "old-access", "keep-refresh", expiry)
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, session))

	stored, err := repo.GetByUserAndDevice(ctx, 7, "device-x")
	require.NoError(t, err)
	require.NotNil(t, stored)

	newExpiry := biztime.NowUTC().Add(48 * time.Hour)
	refreshed := biztime.NowUTC()
	err = repo.UpdateAccessToken(ctx, stored.ID, "new-access", newExpiry, refreshed)
	require.NoError(t, err)

	after, err := repo.GetByUserAndDevice(ctx, 7, "device-x")
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.Equal(t, "new-access", after.AccessToken)
	assert.Equal(t, "keep-refresh", after.RefreshToken)
	assert.WithinDuration(t, newExpiry, after.ExpiresAt, time.Second)
}

func TestCourseRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	cs := &catalog.Course{
		Code:     "CS",
		Name:     "Computer Science and Engineering",
		Keywords: []string{"computer", "cse"},
	}
	require.NoError(t, repo.Create(ctx, cs))
	require.NotZero(t, cs.ID)

	ba := &catalog.Course{Code: "BA", Name: "Business Administration"}
	require.NoError(t, repo.Create(ctx, ba))

	t.Run("GetByCode round-trips keywords", func(t *testing.T) {
		found, err := repo.GetByCode(ctx, "CS")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Computer Science and Engineering", found.Name)
		assert.Equal(t, []string{"computer", "cse"}, found.Keywords)
	})

	t.Run("GetByName exact match", func(t *testing.T) {
		found, err := repo.GetByName(ctx, "Business Administration")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "BA", found.Code)
	})

	t.Run("missing code returns nil", func(t *testing.T) {
		found, err := repo.GetByCode(ctx, "ZZ")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("List orders by code", func(t *testing.T) {
		all, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "BA", all[0].Code)
		assert.Equal(t, "CS", all[1].Code)
	})
}

func TestSemesterRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSemesterRepository(db)
	ctx := context.Background()

	row := models.SemesterModel{CourseID: 1, SemesterNumber: 5}
	require.NoError(t, db.Create(&row).Error)

	found, err := repo.GetByCourseAndNumber(ctx, 1, 5)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, row.ID, found.ID)
	assert.Equal(t, 5, found.Number)

	missing, err := repo.GetByCourseAndNumber(ctx, 1, 6)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
