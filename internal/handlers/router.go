package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/learnlite/course-platform/internal/middleware"
	"github.com/learnlite/course-platform/internal/services"
	"github.com/learnlite/course-platform/internal/utils"
)

type HandlerManager struct {
	courseHandler   *CourseHandler
	lessonHandler   *LessonHandler
	quizHandler     *QuizHandler
	progressHandler *ProgressHandler
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		courseHandler:   NewCourseHandler(serviceManager.Course(), logger),
		lessonHandler:   NewLessonHandler(serviceManager.Lesson(), logger),
		quizHandler:     NewQuizHandler(serviceManager.Quiz(), serviceManager.Report(), logger),
		progressHandler: NewProgressHandler(serviceManager.Progress(), serviceManager.Report(), logger),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, auth *middleware.AuthMiddleware) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	{
		// Public catalogue
		v1.GET("/courses", hm.courseHandler.ListCourses)
		v1.GET("/courses/:id", hm.courseHandler.GetCourse)

		// Authenticated learner surface
		authed := v1.Group("")
		authed.Use(auth.RequireAuth())
		{
			courses := authed.Group("/courses")
			{
				courses.POST("/:id/enroll", hm.courseHandler.EnrollCourse)
				courses.GET("/:id/lessons", hm.lessonHandler.GetCourseLessons)
				courses.GET("/:id/quizzes", hm.quizHandler.GetCourseQuizzes)
				courses.POST("/:id/lessons/:lesson_id/complete", hm.progressHandler.CompleteLesson)
				courses.GET("/:id/progress", hm.progressHandler.GetCourseProgress)
			}

			quizzes := authed.Group("/quizzes")
			{
				quizzes.POST("/:id/attempts", hm.quizHandler.SubmitAttempt)
				quizzes.GET("/:id/attempts", hm.quizHandler.GetAttempt)
			}

			progress := authed.Group("/progress")
			{
				progress.GET("", hm.progressHandler.GetAllProgress)
				progress.GET("/stats", hm.progressHandler.GetStats)
				progress.GET("/export", hm.progressHandler.ExportProgress)
			}
		}

		// Administrative surface
		admin := v1.Group("")
		admin.Use(auth.RequireAuth(), middleware.RequireAdmin())
		{
			admin.POST("/courses", hm.courseHandler.CreateCourse)
			admin.PUT("/courses/:id", hm.courseHandler.UpdateCourse)
			admin.DELETE("/courses/:id", hm.courseHandler.DeleteCourse)

			admin.POST("/courses/:id/lessons", hm.lessonHandler.CreateLesson)
			admin.PUT("/lessons/:id", hm.lessonHandler.UpdateLesson)
			admin.DELETE("/lessons/:id", hm.lessonHandler.DeleteLesson)

			admin.POST("/courses/:id/quizzes", hm.quizHandler.CreateQuiz)
			admin.POST("/quizzes/:id/questions/import", hm.quizHandler.ImportQuestions)
			admin.POST("/courses/:id/quizzes/:quiz_id/complete", hm.progressHandler.CompleteQuiz)
		}
	}
}
