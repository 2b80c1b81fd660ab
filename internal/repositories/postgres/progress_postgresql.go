package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/learnlite/course-platform/internal/models"
	"github.com/learnlite/course-platform/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressPostgreSQL struct {
	db *gorm.DB
}

func NewProgressPostgreSQL(db *gorm.DB) repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: db}
}

func (p *ProgressPostgreSQL) GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*models.Progress, error) {
	var progress models.Progress
	if err := p.db.WithContext(ctx).
		Preload("CompletedLessons").
		Preload("CompletedQuizzes").
		Preload("QuizAttempts").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &progress, nil
}

// GetOrCreate inserts a zeroed record if none exists. The unique index on
// (user_id, course_id) plus ON CONFLICT keeps concurrent first accesses from
// creating two records; the loser of the race reads the winner's row.
func (p *ProgressPostgreSQL) GetOrCreate(ctx context.Context, userID string, courseID uint) (*models.Progress, error) {
	progress, err := p.GetByUserAndCourse(ctx, userID, courseID)
	if err == nil {
		return progress, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, err
	}

	fresh := &models.Progress{UserID: userID, CourseID: courseID}
	result := p.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoNothing: true,
		}).
		Create(fresh)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		fresh.CompletedLessons = []models.LessonCompletion{}
		fresh.CompletedQuizzes = []models.QuizCompletion{}
		fresh.QuizAttempts = []models.ProgressQuizAttempt{}
		return fresh, nil
	}
	return p.GetByUserAndCourse(ctx, userID, courseID)
}

func (p *ProgressPostgreSQL) GetAllByUser(ctx context.Context, userID string) ([]*models.Progress, error) {
	var records []*models.Progress
	err := p.db.WithContext(ctx).
		Preload("CompletedLessons").
		Preload("CompletedQuizzes").
		Preload("QuizAttempts").
		Where("user_id = ?", userID).
		Find(&records).Error
	return records, err
}

func (p *ProgressPostgreSQL) AddCompletedLesson(ctx context.Context, progressID, lessonID uint, at time.Time) (bool, error) {
	completion := models.LessonCompletion{
		ProgressID:  progressID,
		LessonID:    lessonID,
		CompletedAt: at,
	}
	result := p.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&completion)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (p *ProgressPostgreSQL) AddCompletedQuiz(ctx context.Context, progressID, quizID uint, at time.Time) (bool, error) {
	completion := models.QuizCompletion{
		ProgressID:  progressID,
		QuizID:      quizID,
		CompletedAt: at,
	}
	result := p.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&completion)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (p *ProgressPostgreSQL) AppendQuizAttempt(ctx context.Context, entry *models.ProgressQuizAttempt) error {
	return p.db.WithContext(ctx).Create(entry).Error
}

func (p *ProgressPostgreSQL) UpdateAggregate(ctx context.Context, progressID uint, overallProgress int, isCompleted bool) error {
	return p.db.WithContext(ctx).Model(&models.Progress{}).
		Where("id = ?", progressID).
		Updates(map[string]interface{}{
			"overall_progress": overallProgress,
			"is_completed":     isCompleted,
		}).Error
}
