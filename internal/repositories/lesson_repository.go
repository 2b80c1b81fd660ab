package repositories

import (
	"context"

	"github.com/learnlite/course-platform/internal/models"
)

// LessonRepository interface for lesson operations
type LessonRepository interface {
	Create(ctx context.Context, lesson *models.Lesson) error
	GetByID(ctx context.Context, id uint) (*models.Lesson, error)
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id uint) error

	// GetByCourse returns the course's lessons in display order.
	GetByCourse(ctx context.Context, courseID uint) ([]*models.Lesson, error)
	// ExistsInCourse reports whether the lesson reference is a member of the
	// course's lesson list.
	ExistsInCourse(ctx context.Context, courseID, lessonID uint) (bool, error)
}
