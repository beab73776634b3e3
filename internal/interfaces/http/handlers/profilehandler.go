package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lectern/internal/application/auth"
	"lectern/internal/interfaces/http/middleware"
	"lectern/internal/shared/logger"
	"lectern/internal/shared/utils"
)

type ProfileHandler struct {
	service *auth.ProfileService
	logger  logger.Interface
}

func NewProfileHandler(service *auth.ProfileService, log logger.Interface) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  log,
	}
}

type CompleteProfileRequest struct {
	CourseID        *uint `json:"course_id"`
	CurrentSemester *int  `json:"current_semester" binding:"omitempty,min=1,max=10"`
}

// Complete applies a course/semester selection for the authenticated user.
func (h *ProfileHandler) Complete(c *gin.Context) {
	var req CompleteProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		utils.RejectedResponse(c, http.StatusUnauthorized, "Authentication required", middleware.ReasonMissingTokens)
		return
	}
	profile, _ := middleware.GetProfile(c)

	tc := &auth.TokenContext{UserID: userID, Profile: profile}
	updated, err := h.service.Complete(c.Request.Context(), tc, req.CourseID, req.CurrentSemester)
	if err != nil {
		h.logger.Warnw("profile completion failed", "user_id", userID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"profile": updated,
	})
}

// Current returns the profile carried by the request tokens.
func (h *ProfileHandler) Current(c *gin.Context) {
	profile, ok := middleware.GetProfile(c)
	if !ok {
		utils.RejectedResponse(c, http.StatusUnauthorized, "Authentication required", middleware.ReasonMissingTokens)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"profile": profile,
	})
}
