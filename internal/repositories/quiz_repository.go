package repositories

import (
	"context"

	"github.com/learnlite/course-platform/internal/models"
)

// QuizRepository interface for quiz and attempt operations
type QuizRepository interface {
	Create(ctx context.Context, quiz *models.Quiz) error
	// GetByID loads the quiz with its questions and options so the scorer
	// can build the question index once per load.
	GetByID(ctx context.Context, id uint) (*models.Quiz, error)
	Update(ctx context.Context, quiz *models.Quiz) error
	Delete(ctx context.Context, id uint) error

	GetByCourse(ctx context.Context, courseID uint) ([]*models.Quiz, error)
	ExistsInCourse(ctx context.Context, courseID, quizID uint) (bool, error)

	// Attempt operations. CreateAttempt returns ErrDuplicate when an attempt
	// by this user already exists; the (quiz_id, user_id) uniqueness is a
	// storage constraint so two concurrent submissions cannot both win.
	CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error
	GetAttempt(ctx context.Context, quizID uint, userID string) (*models.QuizAttempt, error)
}
