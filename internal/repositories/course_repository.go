package repositories

import (
	"context"
	"time"

	"github.com/learnlite/course-platform/internal/models"
)

// CourseRepository interface for course and enrollment operations
type CourseRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	GetByIDWithContent(ctx context.Context, id uint) (*models.Course, error) // Include lessons, quizzes
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error

	// Query operations
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	CountLessons(ctx context.Context, courseID uint) (int, error)
	CountQuizzes(ctx context.Context, courseID uint) (int, error)

	// Enrollment: conditional insert, one row is both sides of the
	// relationship. Returns false without error when the user was already
	// enrolled at commit time.
	Enroll(ctx context.Context, courseID uint, userID string, at time.Time) (bool, error)
	IsEnrolled(ctx context.Context, courseID uint, userID string) (bool, error)
	CountEnrolled(ctx context.Context, courseID uint) (int64, error)
}
