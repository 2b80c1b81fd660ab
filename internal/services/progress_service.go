package services

import (
	"context"
	"fmt"
	"time"

	"github.com/learnlite/course-platform/internal/events"
	"github.com/learnlite/course-platform/internal/models"
	"github.com/learnlite/course-platform/internal/repositories"
	"github.com/learnlite/course-platform/internal/utils"
)

// ProgressService covers lesson completion tracking, the administrative
// direct quiz-completion path, progress reads and the per-user stats view.
type ProgressService interface {
	MarkLessonComplete(ctx context.Context, courseID, lessonID uint, userID string) (*models.Progress, error)
	MarkQuizComplete(ctx context.Context, courseID, quizID uint, userID string) (*models.Progress, error)
	GetCourseProgress(ctx context.Context, courseID uint, userID string) (*models.Progress, error)
	GetAllProgress(ctx context.Context, userID string) ([]*models.Progress, error)
	GetStats(ctx context.Context, userID string) (*UserStats, error)
}

// UserStats is the aggregate view across every course the user has a
// progress record for.
type UserStats struct {
	TotalCourses     int               `json:"totalCourses"`
	CompletedCourses int               `json:"completedCourses"`
	AttemptedCourses int               `json:"attemptedCourses"`
	AverageProgress  int               `json:"averageProgress"`
	Courses          []CourseStatEntry `json:"courses"`
}

type CourseStatEntry struct {
	CourseID         uint   `json:"courseId"`
	CourseTitle      string `json:"courseTitle"`
	Progress         int    `json:"progress"`
	IsCompleted      bool   `json:"isCompleted"`
	CompletedLessons int    `json:"completedLessons"`
	TotalLessons     int    `json:"totalLessons"`
	CompletedQuizzes int    `json:"completedQuizzes"`
	TotalQuizzes     int    `json:"totalQuizzes"`
	QuizAttempts     int    `json:"quizAttempts"`
}

type progressService struct {
	repo      repositories.TransactionRepository
	gate      *EnrollmentGate
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewProgressService(
	repo repositories.TransactionRepository,
	gate *EnrollmentGate,
	publisher events.EventPublisher,
	logger utils.Logger,
) ProgressService {
	return &progressService{
		repo:      repo,
		gate:      gate,
		publisher: publisher,
		logger:    logger,
	}
}

// MarkLessonComplete records one lesson as completed for an enrolled user.
//
// Preconditions in order: course exists, user enrolled, lesson belongs to
// the course. A repeat completion is a Conflict carrying the original
// timestamp; the set insert and the aggregate recompute commit together.
func (s *progressService) MarkLessonComplete(ctx context.Context, courseID, lessonID uint, userID string) (*models.Progress, error) {
	if _, err := s.repo.Course().GetByID(ctx, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if err := s.gate.Authorize(ctx, courseID, userID); err != nil {
		return nil, err
	}

	exists, err := s.repo.Lesson().ExistsInCourse(ctx, courseID, lessonID)
	if err != nil {
		return nil, fmt.Errorf("failed to check lesson: %w", err)
	}
	if !exists {
		return nil, ErrLessonNotFound
	}

	progress, wasCompleted, err := s.recordCompletion(ctx, courseID, userID, completionTarget{
		resource: "lesson",
		id:       lessonID,
		add: func(ctx context.Context, tx repositories.Repository, progressID uint, at time.Time) (bool, error) {
			return tx.Progress().AddCompletedLesson(ctx, progressID, lessonID, at)
		},
		priorAt: func(p *models.Progress) (time.Time, bool) { return p.HasCompletedLesson(lessonID) },
		applied: func(p *models.Progress, at time.Time) {
			p.CompletedLessons = append(p.CompletedLessons, models.LessonCompletion{
				ProgressID:  p.ID,
				LessonID:    lessonID,
				CompletedAt: at,
			})
		},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Lesson completed",
		"course_id", courseID,
		"lesson_id", lessonID,
		"user_id", userID,
		"overall_progress", progress.OverallProgress)

	event := events.NewProgressEvent(events.EventLessonCompleted, events.LessonCompletedEvent{
		CourseID:        courseID,
		LessonID:        lessonID,
		UserID:          userID,
		OverallProgress: progress.OverallProgress,
	})
	if err := s.publisher.PublishProgressEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish completion event", "lesson_id", lessonID, "error", err)
	}
	s.publishCourseCompleted(ctx, courseID, userID, wasCompleted, progress.IsCompleted)

	return progress, nil
}

// MarkQuizComplete is the administrative path: it adds the quiz to the
// user's completed set without an attempt or a score. The user must still
// be enrolled and the quiz must belong to the course.
func (s *progressService) MarkQuizComplete(ctx context.Context, courseID, quizID uint, userID string) (*models.Progress, error) {
	if _, err := s.repo.Course().GetByID(ctx, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if err := s.gate.Authorize(ctx, courseID, userID); err != nil {
		return nil, err
	}

	exists, err := s.repo.Quiz().ExistsInCourse(ctx, courseID, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to check quiz: %w", err)
	}
	if !exists {
		return nil, ErrQuizNotFound
	}

	progress, wasCompleted, err := s.recordCompletion(ctx, courseID, userID, completionTarget{
		resource: "quiz",
		id:       quizID,
		add: func(ctx context.Context, tx repositories.Repository, progressID uint, at time.Time) (bool, error) {
			return tx.Progress().AddCompletedQuiz(ctx, progressID, quizID, at)
		},
		priorAt: func(p *models.Progress) (time.Time, bool) { return p.HasCompletedQuiz(quizID) },
		applied: func(p *models.Progress, at time.Time) {
			p.CompletedQuizzes = append(p.CompletedQuizzes, models.QuizCompletion{
				ProgressID:  p.ID,
				QuizID:      quizID,
				CompletedAt: at,
			})
		},
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Quiz marked complete",
		"course_id", courseID,
		"quiz_id", quizID,
		"user_id", userID,
		"overall_progress", progress.OverallProgress)

	s.publishCourseCompleted(ctx, courseID, userID, wasCompleted, progress.IsCompleted)
	return progress, nil
}

// completionTarget abstracts over the two completed sets so the
// transaction shape is written once.
type completionTarget struct {
	resource string
	id       uint
	add      func(ctx context.Context, tx repositories.Repository, progressID uint, at time.Time) (bool, error)
	priorAt  func(p *models.Progress) (time.Time, bool)
	applied  func(p *models.Progress, at time.Time)
}

func (s *progressService) recordCompletion(ctx context.Context, courseID uint, userID string, target completionTarget) (*models.Progress, bool, error) {
	txRepo, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			txRepo.Rollback(ctx)
		}
	}()

	progress, err := txRepo.Progress().GetOrCreate(ctx, userID, courseID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load progress: %w", err)
	}
	wasCompleted := progress.IsCompleted

	now := time.Now().UTC()
	inserted, err := target.add(ctx, txRepo, progress.ID, now)
	if err != nil {
		return nil, false, fmt.Errorf("failed to mark %s completed: %w", target.resource, err)
	}
	if !inserted {
		completedAt, ok := target.priorAt(progress)
		if !ok {
			// Lost a race against a concurrent completion; the row exists but
			// was not in our snapshot.
			completedAt = now
		}
		return nil, false, &CompletionConflictError{
			Resource:    target.resource,
			ResourceID:  target.id,
			CompletedAt: completedAt,
		}
	}
	target.applied(progress, now)

	totalLessons, err := txRepo.Course().CountLessons(ctx, courseID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to count lessons: %w", err)
	}
	totalQuizzes, err := txRepo.Course().CountQuizzes(ctx, courseID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to count quizzes: %w", err)
	}

	RecomputeProgress(progress, totalLessons, totalQuizzes)
	if err := txRepo.Progress().UpdateAggregate(ctx, progress.ID, progress.OverallProgress, progress.IsCompleted); err != nil {
		return nil, false, fmt.Errorf("failed to update aggregate: %w", err)
	}

	if err := txRepo.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return progress, wasCompleted, nil
}

func (s *progressService) publishCourseCompleted(ctx context.Context, courseID uint, userID string, wasCompleted, isCompleted bool) {
	if wasCompleted || !isCompleted {
		return
	}
	event := events.NewProgressEvent(events.EventCourseCompleted, events.CourseCompletedEvent{
		CourseID: courseID,
		UserID:   userID,
	})
	if err := s.publisher.PublishProgressEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish completion event", "course_id", courseID, "error", err)
	}
}

// GetCourseProgress returns the user's record for one course, creating a
// zeroed record on first access by an enrolled user.
func (s *progressService) GetCourseProgress(ctx context.Context, courseID uint, userID string) (*models.Progress, error) {
	if _, err := s.repo.Course().GetByID(ctx, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if err := s.gate.Authorize(ctx, courseID, userID); err != nil {
		return nil, err
	}

	progress, err := s.repo.Progress().GetOrCreate(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	return progress, nil
}

func (s *progressService) GetAllProgress(ctx context.Context, userID string) ([]*models.Progress, error) {
	records, err := s.repo.Progress().GetAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return records, nil
}

// GetStats builds the aggregate view. A course counts as attempted when it
// is started but not finished (some progress, not completed); averageProgress
// is the round-half-up mean over all records and 0 when there are none.
func (s *progressService) GetStats(ctx context.Context, userID string) (*UserStats, error) {
	records, err := s.repo.Progress().GetAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}

	stats := &UserStats{
		TotalCourses: len(records),
		Courses:      make([]CourseStatEntry, 0, len(records)),
	}

	progressSum := 0
	for _, record := range records {
		if record.IsCompleted {
			stats.CompletedCourses++
		}
		if !record.IsCompleted && record.OverallProgress > 0 {
			stats.AttemptedCourses++
		}
		progressSum += record.OverallProgress

		entry := CourseStatEntry{
			CourseID:         record.CourseID,
			Progress:         record.OverallProgress,
			IsCompleted:      record.IsCompleted,
			CompletedLessons: len(record.CompletedLessons),
			CompletedQuizzes: len(record.CompletedQuizzes),
			QuizAttempts:     len(record.QuizAttempts),
		}

		course, err := s.repo.Course().GetByID(ctx, record.CourseID)
		if err != nil {
			if !repositories.IsNotFoundError(err) {
				return nil, fmt.Errorf("failed to get course: %w", err)
			}
			// Course deleted since enrollment; keep the row with what we have.
		} else {
			entry.CourseTitle = course.Title
		}

		totalLessons, err := s.repo.Course().CountLessons(ctx, record.CourseID)
		if err != nil {
			return nil, fmt.Errorf("failed to count lessons: %w", err)
		}
		totalQuizzes, err := s.repo.Course().CountQuizzes(ctx, record.CourseID)
		if err != nil {
			return nil, fmt.Errorf("failed to count quizzes: %w", err)
		}
		entry.TotalLessons = totalLessons
		entry.TotalQuizzes = totalQuizzes

		stats.Courses = append(stats.Courses, entry)
	}

	if len(records) > 0 {
		stats.AverageProgress = roundPercent(progressSum, 100*len(records))
	}
	return stats, nil
}
