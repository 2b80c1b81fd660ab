package postgres

import (
	"context"
	"errors"

	"github.com/learnlite/course-platform/internal/models"
	"github.com/learnlite/course-platform/internal/repositories"
	"gorm.io/gorm"
)

type LessonPostgreSQL struct {
	db *gorm.DB
}

func NewLessonPostgreSQL(db *gorm.DB) repositories.LessonRepository {
	return &LessonPostgreSQL{db: db}
}

func (l *LessonPostgreSQL) Create(ctx context.Context, lesson *models.Lesson) error {
	return l.db.WithContext(ctx).Create(lesson).Error
}

func (l *LessonPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := l.db.WithContext(ctx).First(&lesson, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &lesson, nil
}

func (l *LessonPostgreSQL) Update(ctx context.Context, lesson *models.Lesson) error {
	return l.db.WithContext(ctx).Save(lesson).Error
}

func (l *LessonPostgreSQL) Delete(ctx context.Context, id uint) error {
	result := l.db.WithContext(ctx).Delete(&models.Lesson{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (l *LessonPostgreSQL) GetByCourse(ctx context.Context, courseID uint) ([]*models.Lesson, error) {
	var lessons []*models.Lesson
	err := l.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("position ASC").
		Find(&lessons).Error
	return lessons, err
}

func (l *LessonPostgreSQL) ExistsInCourse(ctx context.Context, courseID, lessonID uint) (bool, error) {
	var count int64
	err := l.db.WithContext(ctx).Model(&models.Lesson{}).
		Where("id = ? AND course_id = ?", lessonID, courseID).
		Count(&count).Error
	return count > 0, err
}
