package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lectern/internal/application/auth"
	"lectern/internal/shared/config"
	"lectern/internal/shared/errors"
	"lectern/internal/shared/logger"
	"lectern/internal/shared/utils"
)

type AuthHandler struct {
	service      *auth.Service
	cookieConfig config.CookieConfig
	jwtConfig    config.JWTConfig
	logger       logger.Interface
}

func NewAuthHandler(service *auth.Service, cookieConfig config.CookieConfig, jwtConfig config.JWTConfig, log logger.Interface) *AuthHandler {
	return &AuthHandler{
		service:      service,
		cookieConfig: cookieConfig,
		jwtConfig:    jwtConfig,
		logger:       log,
	}
}

type AuthenticateRequest struct {
	Username string `json:"username" binding:"required,collegeid"`
	Password string `json:"password" binding:"required"`
}

// Authenticate handles credential submission. On success both token cookies
// are set and the enriched session profile is returned.
func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req AuthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Authenticate(c.Request.Context(), auth.Credentials{
		CollegeID: req.Username,
		Password:  req.Password,
		UserAgent: c.Request.UserAgent(),
	})
	if err != nil {
		if errors.ShouldLogAuthError(err) {
			h.logger.Warnw("authentication failed", "username", req.Username, "error", err)
		}
		if errors.IsSecurityEvent(err) {
			h.logger.Infow("security event", "type", "credential_rejection", "client_ip", c.ClientIP())
		}
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SetAuthCookies(c, h.cookieConfig,
		result.AccessToken, result.RefreshToken,
		int(h.jwtConfig.AccessTTL().Seconds()), int(h.jwtConfig.RefreshTTL().Seconds()))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": result.Profile,
	})
}
