package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/learnlite/course-platform/internal/models"
	"github.com/learnlite/course-platform/internal/services"
	"github.com/learnlite/course-platform/internal/utils"
)

type QuizHandler struct {
	BaseHandler
	quizService   services.QuizService
	reportService services.ReportService
}

func NewQuizHandler(quizService services.QuizService, reportService services.ReportService, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler:   NewBaseHandler(logger),
		quizService:   quizService,
		reportService: reportService,
	}
}

// CreateQuiz creates a quiz with nested questions and options (admin only)
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	courseID := parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	var req services.CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	req.CourseID = courseID

	h.LogRequest(c, "Creating quiz", "course_id", courseID, "title", req.Title)

	quiz, err := h.quizService.Create(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusCreated, quiz)
}

// GetCourseQuizzes lists a course's quizzes for an enrolled user, without
// correctness flags
func (h *QuizHandler) GetCourseQuizzes(c *gin.Context) {
	courseID := parseIDParam(c, "id")
	if courseID == 0 {
		return
	}

	userID := currentUserID(c)
	if userID == "" {
		return
	}

	quizzes, err := h.quizService.GetByCourse(c.Request.Context(), courseID, userID)
	if err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusOK, quizzes)
}

type submitAttemptRequest struct {
	Answers []models.AnswerSubmission `json:"answers"`
}

// SubmitAttempt scores the user's single attempt at a quiz
func (h *QuizHandler) SubmitAttempt(c *gin.Context) {
	quizID := parseIDParam(c, "id")
	if quizID == 0 {
		return
	}

	userID := currentUserID(c)
	if userID == "" {
		return
	}

	var req submitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	h.LogRequest(c, "Submitting quiz attempt", "quiz_id", quizID)

	result, err := h.quizService.SubmitAttempt(c.Request.Context(), quizID, userID, req.Answers)
	if err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Attempt scored",
		"score":   result.Score,
		"passed":  result.Passed,
		"attempt": result.Attempt,
	})
}

// GetAttempt returns the user's own attempt for a quiz
func (h *QuizHandler) GetAttempt(c *gin.Context) {
	quizID := parseIDParam(c, "id")
	if quizID == 0 {
		return
	}

	userID := currentUserID(c)
	if userID == "" {
		return
	}

	attempt, err := h.quizService.GetAttempt(c.Request.Context(), quizID, userID)
	if err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusOK, attempt)
}

// ImportQuestions bulk-imports quiz questions from a CSV or Excel upload
// (admin only)
func (h *QuizHandler) ImportQuestions(c *gin.Context) {
	quizID := parseIDParam(c, "id")
	if quizID == 0 {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file upload",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	h.LogRequest(c, "Importing quiz questions", "quiz_id", quizID, "filename", header.Filename)

	result, err := h.reportService.ImportQuestionsFromFile(c.Request.Context(), quizID, file, header.Filename)
	if err != nil {
		handleServiceError(&h.BaseHandler, c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
