package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"lectern/internal/application/auth"
	"lectern/internal/domain/catalog"
	"lectern/internal/domain/identity"
	"lectern/internal/infrastructure/persistence/models"
	"lectern/internal/infrastructure/repository"
	"lectern/internal/infrastructure/token"
	"lectern/internal/infrastructure/upstream"
	httpiface "lectern/internal/interfaces/http"
	"lectern/internal/interfaces/http/handlers"
	"lectern/internal/shared/config"
	"lectern/internal/shared/logger"
	"lectern/internal/shared/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	httpiface.RegisterValidators()
}

type stubUpstream struct {
	profile *identity.Profile
	err     error
}

func (s *stubUpstream) Authenticate(_ context.Context, _, _ string) (*identity.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	p := *s.profile
	return &p, nil
}

func newHandlerTestServer(t *testing.T, up auth.Authenticator) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.UserModel{},
		&models.SessionModel{},
		&models.CourseModel{},
		&models.SemesterModel{},
	))

	log := logger.NewLogger()
	users := repository.NewUserRepository(db)
	sessions := repository.NewSessionRepository(db)
	courses := repository.NewCourseRepository(db)
	semesters := repository.NewSemesterRepository(db)

	require.NoError(t, courses.Create(context.Background(), &catalog.Course{
		Code:     "CS",
		Name:     "Computer Science and Engineering",
		Keywords: []string{"computer", "cse"},
	}))

	resolver := auth.NewResolver(courses, semesters, log)
	tokens := token.NewManager("access-secret", "refresh-secret", 24*time.Hour, 7*24*time.Hour)
	service := auth.NewService(users, sessions, resolver, tokens, up, 3*time.Hour, log)

	jwtCfg := config.JWTConfig{
		AccessSecret:   "access-secret",
		RefreshSecret:  "refresh-secret",
		AccessExpHours: 24,
		RefreshExpDays: 7,
		ShadowExpHours: 3,
	}
	handler := handlers.NewAuthHandler(service, config.CookieConfig{Path: "/"}, jwtCfg, log)

	engine := gin.New()
	engine.POST("/api/authenticate", handler.Authenticate)
	return engine, db
}

func postAuthenticate(engine *gin.Engine, body map[string]string) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/authenticate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "test-browser/1.0")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func cookieValue(w *httptest.ResponseRecorder, name string) string {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func TestAuthenticateEndpointSuccess(t *testing.T) {
	up := &stubUpstream{profile: &identity.Profile{
		Source:   identity.SourceUpstream,
		Name:     "Test Student",
		Program:  "Computer Science and Engineering",
		Semester: "Sem-5",
	}}
	engine, db := newHandlerTestServer(t, up)

	w := postAuthenticate(engine, map[string]string{
		"username": "PES1UG23CS001",
		"password": "secret",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool             `json:"success"`
		Session identity.Profile `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "PES1UG23CS001", body.Session.CollegeID)
	assert.Equal(t, "CS", body.Session.CourseCode)
	assert.False(t, body.Session.Shadow)

	assert.NotEmpty(t, cookieValue(w, utils.AccessTokenCookie))
	assert.NotEmpty(t, cookieValue(w, utils.RefreshTokenCookie))

	var userCount, sessionCount int64
	require.NoError(t, db.Model(&models.UserModel{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.SessionModel{}).Count(&sessionCount).Error)
	assert.Equal(t, int64(1), userCount)
	assert.Equal(t, int64(1), sessionCount)
}

func TestAuthenticateEndpointInvalidCredentials(t *testing.T) {
	up := &stubUpstream{err: upstream.ErrInvalidCredentials}
	engine, db := newHandlerTestServer(t, up)

	w := postAuthenticate(engine, map[string]string{
		"username": "PES1UG23CS001",
		"password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
	assert.Empty(t, cookieValue(w, utils.AccessTokenCookie))

	var userCount int64
	require.NoError(t, db.Model(&models.UserModel{}).Count(&userCount).Error)
	assert.Zero(t, userCount)
}

func TestAuthenticateEndpointUpstreamDownUnknownUser(t *testing.T) {
	up := &stubUpstream{err: upstream.ErrUnavailable}
	engine, db := newHandlerTestServer(t, up)

	w := postAuthenticate(engine, map[string]string{
		"username": "PES1UG23CS001",
		"password": "secret",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Session identity.Profile `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Session.Shadow)
	require.NotNil(t, body.Session.ShadowExpiresAt)
	assert.True(t, body.Session.ShadowExpiresAt.After(time.Now()))

	assert.NotEmpty(t, cookieValue(w, utils.AccessTokenCookie))

	// Shadow fallback must not persist anything.
	var userCount, sessionCount int64
	require.NoError(t, db.Model(&models.UserModel{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.SessionModel{}).Count(&sessionCount).Error)
	assert.Zero(t, userCount)
	assert.Zero(t, sessionCount)
}

func TestAuthenticateEndpointRejectsMalformedBody(t *testing.T) {
	engine, _ := newHandlerTestServer(t, &stubUpstream{})

	w := postAuthenticate(engine, map[string]string{"username": "PES1UG23CS001"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postAuthenticate(engine, map[string]string{
		"username": "a b",
		"password": "secret",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
