package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learnlite/course-platform/internal/services"
	"github.com/learnlite/course-platform/internal/utils"
)

type CourseHandler struct {
	BaseHandler
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService, logger utils.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   NewBaseHandler(logger),
		courseService: courseService,
	}
}

// CreateCourse creates a new course (admin only)
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Creating course", "title", req.Title)

	course, err := h.courseService.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusCreated, course)
}

// GetCourse retrieves a course with its lessons and quizzes
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	course, err := h.courseService.GetByID(c.Request.Context(), id)
	if err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// ListCourses returns a paginated course listing
func (h *CourseHandler) ListCourses(c *gin.Context) {
	page := parseIntQuery(c, "page", 1)
	limit := parseIntQuery(c, "limit", 10)

	courses, err := h.courseService.List(c.Request.Context(), page, limit)
	if err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// UpdateCourse updates an existing course (admin only)
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating course", "course_id", id)

	course, err := h.courseService.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// DeleteCourse deletes a course (admin only)
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting course", "course_id", id)

	if err := h.courseService.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Course deleted"})
}

// EnrollCourse enrolls the authenticated user into a course
func (h *CourseHandler) EnrollCourse(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	userID := currentUserID(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Enrolling user", "course_id", id)

	if err := h.courseService.Enroll(c.Request.Context(), id, userID); err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Enrolled successfully"})
}
