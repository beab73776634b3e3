package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lectern/internal/domain/catalog"
	"lectern/internal/shared/logger"
	"lectern/internal/shared/utils"
)

type CourseHandler struct {
	courses catalog.CourseRepository
	logger  logger.Interface
}

func NewCourseHandler(courses catalog.CourseRepository, log logger.Interface) *CourseHandler {
	return &CourseHandler{
		courses: courses,
		logger:  log,
	}
}

type CourseResponse struct {
	ID   uint   `json:"id"`
	Code string `json:"course_code"`
	Name string `json:"course_name"`
}

// List returns all configured courses, used by the profile completion flow.
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to list courses", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]CourseResponse, len(courses))
	for i, course := range courses {
		items[i] = CourseResponse{
			ID:   course.ID,
			Code: course.Code,
			Name: course.Name,
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "", items)
}

type CreateCourseRequest struct {
	Code     string   `json:"course_code" binding:"required,alpha,len=2"`
	Name     string   `json:"course_name" binding:"required,min=2,max=255"`
	Keywords []string `json:"keywords"`
}

// Create registers a new course mapping. Admin only; new courses are added
// reactively when logins fail to resolve.
func (h *CourseHandler) Create(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	course := &catalog.Course{
		Code:     strings.ToUpper(req.Code),
		Name:     req.Name,
		Keywords: req.Keywords,
	}
	if err := h.courses.Create(c.Request.Context(), course); err != nil {
		h.logger.Errorw("failed to create course", "course_code", req.Code, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Course created", CourseResponse{
		ID:   course.ID,
		Code: course.Code,
		Name: course.Name,
	})
}
