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

type CoursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db}
}

func (c *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	return c.db.WithContext(ctx).Create(course).Error
}

func (c *CoursePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := c.db.WithContext(ctx).First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (c *CoursePostgreSQL) GetByIDWithContent(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := c.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Quizzes").
		First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

func (c *CoursePostgreSQL) Update(ctx context.Context, course *models.Course) error {
	return c.db.WithContext(ctx).Save(course).Error
}

func (c *CoursePostgreSQL) Delete(ctx context.Context, id uint) error {
	result := c.db.WithContext(ctx).Delete(&models.Course{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (c *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	var courses []*models.Course
	var total int64

	query := c.db.WithContext(ctx).Model(&models.Course{})
	if filters.Instructor != nil {
		query = query.Where("instructor = ?", *filters.Instructor)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filters.SortBy
	switch sortBy {
	case "title", "price", "created_at":
	default:
		sortBy = "created_at"
	}
	order := "DESC"
	if filters.SortOrder == "asc" {
		order = "ASC"
	}
	query = query.Order(sortBy + " " + order)

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit).Offset(filters.Offset)
	}

	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (c *CoursePostgreSQL) CountLessons(ctx context.Context, courseID uint) (int, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&models.Lesson{}).
		Where("course_id = ?", courseID).Count(&count).Error
	return int(count), err
}

func (c *CoursePostgreSQL) CountQuizzes(ctx context.Context, courseID uint) (int, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&models.Quiz{}).
		Where("course_id = ?", courseID).Count(&count).Error
	return int(count), err
}

// Enroll inserts the enrollment row only if absent. The ON CONFLICT guard is
// what makes concurrent duplicate requests resolve to exactly one row.
func (c *CoursePostgreSQL) Enroll(ctx context.Context, courseID uint, userID string, at time.Time) (bool, error) {
	enrollment := models.Enrollment{
		CourseID:   courseID,
		UserID:     userID,
		EnrolledAt: at,
	}
	result := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&enrollment)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (c *CoursePostgreSQL) IsEnrolled(ctx context.Context, courseID uint, userID string) (bool, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		Count(&count).Error
	return count > 0, err
}

func (c *CoursePostgreSQL) CountEnrolled(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := c.db.WithContext(ctx).Model(&models.Enrollment{}).
		Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}
