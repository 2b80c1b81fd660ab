package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const DefaultPassingScore = 70

// Quiz belongs to exactly one course and owns an ordered list of questions.
// Attempts are append-only, at most one per user; the uniqueness is enforced
// by the storage layer, not by a read-then-write check.
type Quiz struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	CourseID     uint   `json:"course_id" gorm:"not null;index" validate:"required"`
	Title        string `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	PassingScore int    `json:"passing_score" gorm:"not null;default:70" validate:"min=0,max=100"`

	Questions []Question    `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
	Attempts  []QuizAttempt `json:"attempts,omitempty" gorm:"foreignKey:QuizID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// questionIndex is built once per load; lookups during scoring are O(1).
	questionIndex map[uint]*Question `json:"-" gorm:"-"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuestionByID resolves a question reference within this quiz. The index is
// built lazily on first use and reused for the remaining answers.
func (q *Quiz) QuestionByID(id uint) (*Question, bool) {
	if q.questionIndex == nil {
		q.questionIndex = make(map[uint]*Question, len(q.Questions))
		for i := range q.Questions {
			q.questionIndex[q.Questions[i].ID] = &q.Questions[i]
		}
	}
	question, ok := q.questionIndex[id]
	return question, ok
}

type Question struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	QuizID   uint   `json:"quiz_id" gorm:"not null;index"`
	Text     string `json:"text" gorm:"type:text;not null" validate:"required"`
	Position int    `json:"position" gorm:"not null;default:0"`

	Options []Option `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

func (Question) TableName() string {
	return "quiz_questions"
}

type Option struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"not null;size:500" validate:"required"`
	Position   int    `json:"position" gorm:"not null;default:0"`
	IsCorrect  bool   `json:"is_correct" gorm:"not null;default:false"`
}

func (Option) TableName() string {
	return "quiz_options"
}

// AnswerSubmission is one submitted answer: a question reference and the
// index of the selected option within that question's option list.
type AnswerSubmission struct {
	QuestionID     uint `json:"question" validate:"required"`
	SelectedOption int  `json:"selectedOption" validate:"min=0"`
}

// QuizAttempt is immutable once written. Answers holds the submitted
// []AnswerSubmission as jsonb; uniqueness of (quiz_id, user_id) is a
// database constraint.
type QuizAttempt struct {
	ID      uint           `json:"id" gorm:"primaryKey"`
	QuizID  uint           `json:"quiz_id" gorm:"not null;uniqueIndex:idx_attempt_quiz_user"`
	UserID  string         `json:"user_id" gorm:"not null;size:255;uniqueIndex:idx_attempt_quiz_user"`
	Answers datatypes.JSON `json:"answers" gorm:"type:jsonb"`
	Score   int            `json:"score" gorm:"not null"`
	Passed  bool           `json:"passed" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

// ===== LEARNER-FACING VIEWS =====

// LearnerQuiz is the quiz shape returned to enrolled students. It carries no
// correctness flags and no attempt log; only the owning/administrative path
// may see those.
type LearnerQuiz struct {
	ID           uint              `json:"id"`
	CourseID     uint              `json:"course_id"`
	Title        string            `json:"title"`
	PassingScore int               `json:"passing_score"`
	Questions    []LearnerQuestion `json:"questions"`
}

type LearnerQuestion struct {
	ID      uint            `json:"id"`
	Text    string          `json:"text"`
	Options []LearnerOption `json:"options"`
}

type LearnerOption struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// LearnerView strips everything a student must not see.
func (q *Quiz) LearnerView() LearnerQuiz {
	view := LearnerQuiz{
		ID:           q.ID,
		CourseID:     q.CourseID,
		Title:        q.Title,
		PassingScore: q.PassingScore,
		Questions:    make([]LearnerQuestion, 0, len(q.Questions)),
	}
	for _, question := range q.Questions {
		lq := LearnerQuestion{
			ID:      question.ID,
			Text:    question.Text,
			Options: make([]LearnerOption, 0, len(question.Options)),
		}
		for _, option := range question.Options {
			lq.Options = append(lq.Options, LearnerOption{ID: option.ID, Text: option.Text})
		}
		view.Questions = append(view.Questions, lq)
	}
	return view
}
