package repositories

import (
	"context"
	"time"

	"github.com/learnlite/course-platform/internal/models"
)

// ProgressRepository interface for per user x course progress records
type ProgressRepository interface {
	// GetByUserAndCourse loads the record with its completed sets and
	// attempt history. Returns ErrNotFound when no record exists yet.
	GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*models.Progress, error)
	// GetOrCreate lazily creates a zeroed record on first access.
	GetOrCreate(ctx context.Context, userID string, courseID uint) (*models.Progress, error)
	GetAllByUser(ctx context.Context, userID string) ([]*models.Progress, error)

	// Conditional set inserts: "add X to S only if absent". Both return
	// false without error when the element was already a member at commit
	// time, which callers surface as a conflict rather than a success.
	AddCompletedLesson(ctx context.Context, progressID, lessonID uint, at time.Time) (bool, error)
	AddCompletedQuiz(ctx context.Context, progressID, quizID uint, at time.Time) (bool, error)

	// AppendQuizAttempt adds an informational history entry; the list is
	// append-only and never deduplicated.
	AppendQuizAttempt(ctx context.Context, entry *models.ProgressQuizAttempt) error

	// UpdateAggregate persists the derived fields. Must run in the same
	// transaction as the set insert that made them stale.
	UpdateAggregate(ctx context.Context, progressID uint, overallProgress int, isCompleted bool) error
}
