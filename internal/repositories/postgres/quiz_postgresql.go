package postgres

import (
	"context"
	"errors"

	"github.com/learnlite/course-platform/internal/models"
	"github.com/learnlite/course-platform/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizPostgreSQL struct {
	db *gorm.DB
}

func NewQuizPostgreSQL(db *gorm.DB) repositories.QuizRepository {
	return &QuizPostgreSQL{db: db}
}

func (q *QuizPostgreSQL) Create(ctx context.Context, quiz *models.Quiz) error {
	// gorm persists nested questions and options in the same insert.
	return q.db.WithContext(ctx).Create(quiz).Error
}

func (q *QuizPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	var quiz models.Quiz
	if err := q.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&quiz, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

func (q *QuizPostgreSQL) Update(ctx context.Context, quiz *models.Quiz) error {
	return q.db.WithContext(ctx).Save(quiz).Error
}

func (q *QuizPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := q.db.WithContext(ctx).Delete(&models.Quiz{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (q *QuizPostgreSQL) GetByCourse(ctx context.Context, courseID uint) ([]*models.Quiz, error) {
	var quizzes []*models.Quiz
	err := q.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Find(&quizzes).Error
	return quizzes, err
}

func (q *QuizPostgreSQL) ExistsInCourse(ctx context.Context, courseID, quizID uint) (bool, error) {
	var count int64
	err := q.db.WithContext(ctx).Model(&models.Quiz{}).
		Where("id = ? AND course_id = ?", quizID, courseID).
		Count(&count).Error
	return count > 0, err
}

// CreateAttempt relies on the (quiz_id, user_id) unique index: when a
// concurrent submission already inserted a row, ON CONFLICT DO NOTHING turns
// the second insert into a no-op and the caller gets ErrDuplicate instead of
// a second attempt.
func (q *QuizPostgreSQL) CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	result := q.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "quiz_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(attempt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrDuplicate
	}
	return nil
}

func (q *QuizPostgreSQL) GetAttempt(ctx context.Context, quizID uint, userID string) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := q.db.WithContext(ctx).
		Where("quiz_id = ? AND user_id = ?", quizID, userID).
		First(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &attempt, nil
}
