package events

import "time"

// EventType represents a progress-engine event
type EventType string

const (
	EventUserEnrolled    EventType = "enrollment.created"
	EventLessonCompleted EventType = "lesson.completed"
	EventQuizAttempted   EventType = "quiz.attempted"
	EventQuizPassed      EventType = "quiz.passed"
	EventCourseCompleted EventType = "course.completed"
)

// ProgressEvent is the envelope published after a successful commit; it is
// never published for rejected duplicates or validation failures.
type ProgressEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Data      interface{} `json:"data"`
}

type UserEnrolledEvent struct {
	CourseID uint   `json:"course_id"`
	UserID   string `json:"user_id"`
}

type LessonCompletedEvent struct {
	CourseID        uint   `json:"course_id"`
	LessonID        uint   `json:"lesson_id"`
	UserID          string `json:"user_id"`
	OverallProgress int    `json:"overall_progress"`
}

type QuizAttemptedEvent struct {
	CourseID uint   `json:"course_id"`
	QuizID   uint   `json:"quiz_id"`
	UserID   string `json:"user_id"`
	Score    int    `json:"score"`
	Passed   bool   `json:"passed"`
}

type CourseCompletedEvent struct {
	CourseID uint   `json:"course_id"`
	UserID   string `json:"user_id"`
}
