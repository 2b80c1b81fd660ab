package models

import (
	"time"

	"gorm.io/gorm"
)

// Course groups lessons and quizzes. Membership in Lessons/Quizzes defines
// the denominator for progress calculation; a lesson or quiz that is not
// attached to its course never counts.
type Course struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Title       string  `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description string  `json:"description" gorm:"type:text;not null" validate:"required"`
	Instructor  string  `json:"instructor" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Price       float64 `json:"price" gorm:"not null" validate:"min=0"`

	Lessons     []Lesson     `json:"lessons,omitempty" gorm:"foreignKey:CourseID"`
	Quizzes     []Quiz       `json:"quizzes,omitempty" gorm:"foreignKey:CourseID"`
	Enrollments []Enrollment `json:"-" gorm:"foreignKey:CourseID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Computed fields (not stored)
	EnrolledCount int `json:"enrolled_count,omitempty" gorm:"-"`
}

func (Course) TableName() string {
	return "courses"
}

// Enrollment is one row per user x course. Both sides of the relationship
// ("course has student", "student has course") are this single row, so the
// two-sided update commits atomically with the insert.
type Enrollment struct {
	CourseID   uint      `json:"course_id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"primaryKey;size:255"`
	EnrolledAt time.Time `json:"enrolled_at" gorm:"not null"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
