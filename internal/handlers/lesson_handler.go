package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learnlite/course-platform/internal/services"
	"github.com/learnlite/course-platform/internal/utils"
)

type LessonHandler struct {
	BaseHandler
	lessonService services.LessonService
}

func NewLessonHandler(lessonService services.LessonService, logger utils.Logger) *LessonHandler {
	return &LessonHandler{
		BaseHandler:   NewBaseHandler(logger),
		lessonService: lessonService,
	}
}

// CreateLesson adds a lesson to a course (admin only)
func (h *LessonHandler) CreateLesson(c *gin.Context) {
	courseID := parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	var req services.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.CourseID = courseID

	h.LogRequest(c, "Creating lesson", "course_id", courseID, "title", req.Title)

	lesson, err := h.lessonService.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusCreated, lesson)
}

// GetCourseLessons lists a course's lessons for an enrolled user
func (h *LessonHandler) GetCourseLessons(c *gin.Context) {
	courseID := parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	userID := currentUserID(c)
	if userID == "" {
		return
	}

	lessons, err := h.lessonService.GetByCourse(c.Request.Context(), courseID, userID)
	if err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusOK, lessons)
}

// UpdateLesson updates a lesson (admin only)
func (h *LessonHandler) UpdateLesson(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	var req services.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Updating lesson", "lesson_id", id)

	lesson, err := h.lessonService.Update(c.Request.Context(), id, &req)
	if err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusOK, lesson)
}

// DeleteLesson deletes a lesson (admin only)
func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	h.LogRequest(c, "Deleting lesson", "lesson_id", id)

	if err := h.lessonService.Delete(c.Request.Context(), id); err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{Message: "Lesson deleted"})
}
