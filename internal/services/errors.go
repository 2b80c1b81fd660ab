package services

import (
	"errors"
	"fmt"
	"time"

	apperrors "github.com/learnlite/course-platform/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound      = errors.New("resource not found")
	ErrForbidden     = errors.New("forbidden - insufficient permissions")
	ErrConflict      = errors.New("resource conflict")
	ErrInternalError = errors.New("internal server error")

	// Course / enrollment errors
	ErrCourseNotFound  = errors.New("course not found")
	ErrNotEnrolled     = errors.New("user is not enrolled in this course")
	ErrAlreadyEnrolled = errors.New("user is already enrolled in this course")

	// Lesson errors
	ErrLessonNotFound    = errors.New("lesson not found in this course")
	ErrLessonNotInCourse = errors.New("lesson does not belong to this course")

	// Quiz errors
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrQuizNotInCourse  = errors.New("quiz does not belong to this course")
	ErrQuestionNotFound = errors.New("question not found in this quiz")

	// User errors
	ErrUserNotFound = errors.New("user not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// AttemptConflictError rejects a re-submission and carries the prior
// attempt's outcome so the caller gets an idempotent read-back, not a retry.
type AttemptConflictError struct {
	QuizID      uint      `json:"quiz_id"`
	Score       int       `json:"score"`
	Passed      bool      `json:"passed"`
	AttemptDate time.Time `json:"attempt_date"`
}

func (e *AttemptConflictError) Error() string {
	return fmt.Sprintf("quiz %d already attempted (score %d)", e.QuizID, e.Score)
}

// CompletionConflictError rejects a duplicate completion and carries the
// original completion timestamp.
type CompletionConflictError struct {
	Resource    string    `json:"resource"` // "lesson" or "quiz"
	ResourceID  uint      `json:"resource_id"`
	CompletedAt time.Time `json:"completed_at"`
}

func (e *CompletionConflictError) Error() string {
	return fmt.Sprintf("%s %d already completed", e.Resource, e.ResourceID)
}

// AnswerValidationError names the offending answer index so the client can
// point at the bad entry.
type AnswerValidationError struct {
	Index      int    `json:"index"`
	QuestionID uint   `json:"question_id,omitempty"`
	Message    string `json:"message"`
}

func (e *AnswerValidationError) Error() string {
	return fmt.Sprintf("invalid answer at index %d: %s", e.Index, e.Message)
}

// ===== ERROR HELPERS =====

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrLessonNotFound) ||
		errors.Is(err, ErrLessonNotInCourse) ||
		errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrQuizNotInCourse) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrUserNotFound)
}

// IsForbidden checks if error represents an enrollment/permission failure
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden) || errors.Is(err, ErrNotEnrolled)
}

// IsConflict checks if error represents a rejected re-submission
func IsConflict(err error) bool {
	if errors.Is(err, ErrConflict) || errors.Is(err, ErrAlreadyEnrolled) {
		return true
	}
	var ace *AttemptConflictError
	if errors.As(err, &ace) {
		return true
	}
	var cce *CompletionConflictError
	return errors.As(err, &cce)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	var ve apperrors.ValidationErrors
	if errors.As(err, &ve) {
		return true
	}
	var single *apperrors.ValidationError
	if errors.As(err, &single) {
		return true
	}
	var ave *AnswerValidationError
	return errors.As(err, &ave)
}
