package models

import (
	"time"

	"gorm.io/gorm"
)

// Progress is the per user x course record, created lazily on first
// completion, attempt or view. OverallProgress and IsCompleted are derived;
// they are recomputed by the aggregator on every mutation of the completed
// sets and persisted in the same transaction.
type Progress struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	UserID   string `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_progress_user_course"`
	CourseID uint   `json:"course_id" gorm:"not null;uniqueIndex:idx_progress_user_course"`

	CompletedLessons []LessonCompletion    `json:"completed_lessons" gorm:"foreignKey:ProgressID"`
	CompletedQuizzes []QuizCompletion      `json:"completed_quizzes" gorm:"foreignKey:ProgressID"`
	QuizAttempts     []ProgressQuizAttempt `json:"quiz_attempts" gorm:"foreignKey:ProgressID"`

	OverallProgress int  `json:"overall_progress" gorm:"not null;default:0"`
	IsCompleted     bool `json:"is_completed" gorm:"not null;default:false"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Progress) TableName() string {
	return "progress"
}

// LessonCompletion is set membership: at most one row per (progress, lesson).
type LessonCompletion struct {
	ProgressID  uint      `json:"-" gorm:"primaryKey"`
	LessonID    uint      `json:"lesson_id" gorm:"primaryKey"`
	CompletedAt time.Time `json:"completed_at" gorm:"not null"`
}

func (LessonCompletion) TableName() string {
	return "lesson_completions"
}

type QuizCompletion struct {
	ProgressID  uint      `json:"-" gorm:"primaryKey"`
	QuizID      uint      `json:"quiz_id" gorm:"primaryKey"`
	CompletedAt time.Time `json:"completed_at" gorm:"not null"`
}

func (QuizCompletion) TableName() string {
	return "quiz_completions"
}

// ProgressQuizAttempt is an informational history entry, append-only and not
// deduplicated. The quiz's own attempt log is the source of truth for
// attempt counting; this list only feeds the stats view.
type ProgressQuizAttempt struct {
	ID          uint      `json:"-" gorm:"primaryKey"`
	ProgressID  uint      `json:"-" gorm:"not null;index"`
	QuizID      uint      `json:"quiz_id" gorm:"not null"`
	Score       int       `json:"score" gorm:"not null"`
	Passed      bool      `json:"passed" gorm:"not null"`
	AttemptDate time.Time `json:"attempt_date" gorm:"not null"`
}

func (ProgressQuizAttempt) TableName() string {
	return "progress_quiz_attempts"
}

// HasCompletedLesson reports membership in the completed-lesson set.
func (p *Progress) HasCompletedLesson(lessonID uint) (time.Time, bool) {
	for _, c := range p.CompletedLessons {
		if c.LessonID == lessonID {
			return c.CompletedAt, true
		}
	}
	return time.Time{}, false
}

// HasCompletedQuiz reports membership in the completed-quiz set.
func (p *Progress) HasCompletedQuiz(quizID uint) (time.Time, bool) {
	for _, c := range p.CompletedQuizzes {
		if c.QuizID == quizID {
			return c.CompletedAt, true
		}
	}
	return time.Time{}, false
}
