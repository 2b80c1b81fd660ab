package services

import (
	"testing"

	"github.com/learnlite/course-platform/internal/models"
)

func TestRecomputeProgress(t *testing.T) {
	tests := []struct {
		name             string
		completedLessons int
		completedQuizzes int
		totalLessons     int
		totalQuizzes     int
		wantProgress     int
		wantCompleted    bool
	}{
		{"empty course", 0, 0, 0, 0, 0, false},
		{"nothing completed", 0, 0, 4, 1, 0, false},
		{"two of five", 2, 0, 4, 1, 40, false},
		{"three of five", 3, 0, 4, 1, 60, false},
		{"all completed", 4, 1, 4, 1, 100, true},
		{"half rounds up", 1, 0, 2, 0, 50, false},
		{"one third rounds", 1, 0, 3, 0, 33, false},
		{"two thirds rounds", 2, 0, 3, 0, 67, false},
		{"one of six", 1, 0, 6, 0, 17, false},
		{"quizzes only", 0, 2, 0, 2, 100, true},
		{"lessons done quizzes pending", 4, 0, 4, 1, 80, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			progress := &models.Progress{}
			for i := 0; i < tt.completedLessons; i++ {
				progress.CompletedLessons = append(progress.CompletedLessons, models.LessonCompletion{LessonID: uint(i + 1)})
			}
			for i := 0; i < tt.completedQuizzes; i++ {
				progress.CompletedQuizzes = append(progress.CompletedQuizzes, models.QuizCompletion{QuizID: uint(i + 1)})
			}

			RecomputeProgress(progress, tt.totalLessons, tt.totalQuizzes)

			if progress.OverallProgress != tt.wantProgress {
				t.Errorf("OverallProgress = %d, want %d", progress.OverallProgress, tt.wantProgress)
			}
			if progress.IsCompleted != tt.wantCompleted {
				t.Errorf("IsCompleted = %v, want %v", progress.IsCompleted, tt.wantCompleted)
			}
		})
	}
}

func TestRecomputeProgress_Idempotent(t *testing.T) {
	progress := &models.Progress{
		CompletedLessons: []models.LessonCompletion{{LessonID: 1}, {LessonID: 2}},
		CompletedQuizzes: []models.QuizCompletion{{QuizID: 1}},
	}

	RecomputeProgress(progress, 4, 1)
	first := progress.OverallProgress
	RecomputeProgress(progress, 4, 1)

	if progress.OverallProgress != first {
		t.Errorf("second recompute changed progress: %d != %d", progress.OverallProgress, first)
	}
	if first != 60 {
		t.Errorf("OverallProgress = %d, want 60", first)
	}
}

// Content added after a user reached 100% lowers the percentage and clears
// the flag on the next recompute.
func TestRecomputeProgress_ContentAddedAfterCompletion(t *testing.T) {
	progress := &models.Progress{
		CompletedLessons: []models.LessonCompletion{{LessonID: 1}, {LessonID: 2}},
	}

	RecomputeProgress(progress, 2, 0)
	if !progress.IsCompleted || progress.OverallProgress != 100 {
		t.Fatalf("expected completed at 100, got %d completed=%v", progress.OverallProgress, progress.IsCompleted)
	}

	RecomputeProgress(progress, 3, 0)
	if progress.IsCompleted {
		t.Error("IsCompleted should clear when new content is added")
	}
	if progress.OverallProgress != 67 {
		t.Errorf("OverallProgress = %d, want 67", progress.OverallProgress)
	}
}

func TestRoundPercent(t *testing.T) {
	tests := []struct {
		part, total, want int
	}{
		{0, 1, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{3, 8, 38},
		{5, 5, 100},
		{1, 6, 17},
		{0, 0, 0},
	}

	for _, tt := range tests {
		if got := roundPercent(tt.part, tt.total); got != tt.want {
			t.Errorf("roundPercent(%d, %d) = %d, want %d", tt.part, tt.total, got, tt.want)
		}
	}
}
