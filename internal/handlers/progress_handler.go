package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learnlite/course-platform/internal/services"
	"github.com/learnlite/course-platform/internal/utils"
)

type ProgressHandler struct {
	BaseHandler
	progressService services.ProgressService
	reportService   services.ReportService
}

func NewProgressHandler(progressService services.ProgressService, reportService services.ReportService, logger utils.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler:     NewBaseHandler(logger),
		progressService: progressService,
		reportService:   reportService,
	}
}

// CompleteLesson marks a lesson completed for the authenticated user
func (h *ProgressHandler) CompleteLesson(c *gin.Context) {
	courseID := parseIDParam(c, "id")
	if courseID == 0 {
		return
	}
	lessonID := parseIDParam(c, "lesson_id")
	if lessonID == 0 {
		return
	}

	userID := currentUserID(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Completing lesson", "course_id", courseID, "lesson_id", lessonID)

	progress, err := h.progressService.MarkLessonComplete(c.Request.Context(), courseID, lessonID, userID)
	if err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Lesson marked as completed",
		"progress": progress,
	})
}

type markQuizCompleteRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// CompleteQuiz marks a quiz completed for a user without an attempt
// (admin only)
func (h *ProgressHandler) CompleteQuiz(c *gin.Context) {
	courseID := parseIDParam(c, "id")
	if courseID == 0 {
		return
	}
	quizID := parseIDParam(c, "quiz_id")
	if quizID == 0 {
		return
	}

	var req markQuizCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Marking quiz complete", "course_id", courseID, "quiz_id", quizID, "target_user", req.UserID)

	progress, err := h.progressService.MarkQuizComplete(c.Request.Context(), courseID, quizID, req.UserID)
	if err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Quiz marked as completed",
		"progress": progress,
	})
}

// GetCourseProgress returns the user's progress for one course, creating a
// zeroed record on first access
func (h *ProgressHandler) GetCourseProgress(c *gin.Context) {
	courseID := parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	userID := currentUserID(c)
	if userID == "" {
		return
	}

	progress, err := h.progressService.GetCourseProgress(c.Request.Context(), courseID, userID)
	if err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusOK, progress)
}

// GetAllProgress returns every progress record for the user
func (h *ProgressHandler) GetAllProgress(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		return
	}

	records, err := h.progressService.GetAllProgress(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// GetStats returns the aggregate stats view for the user
func (h *ProgressHandler) GetStats(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		return
	}

	stats, err := h.progressService.GetStats(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ExportProgress downloads the user's progress stats as an Excel workbook
func (h *ProgressHandler) ExportProgress(c *gin.Context) {
	userID := currentUserID(c)
	if userID == "" {
		return
	}

	h.LogRequest(c, "Exporting progress")

	data, err := h.reportService.ExportProgressToExcel(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "progress.xlsx"))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
