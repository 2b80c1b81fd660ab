package services

import (
	"context"
	"strings"
	"testing"

	"github.com/learnlite/course-platform/internal/cache"
	"github.com/learnlite/course-platform/internal/events"
	"github.com/learnlite/course-platform/internal/models"
	"github.com/learnlite/course-platform/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseQuestionRow(t *testing.T) {
	headerMap := map[string]int{
		"question_text":  0,
		"option_a":       1,
		"option_b":       2,
		"option_c":       3,
		"option_d":       4,
		"correct_answer": 5,
	}

	t.Run("valid row", func(t *testing.T) {
		question, errs := parseQuestionRow([]string{"What is Go?", "A language", "A game", "", "", "A"}, headerMap, 2)
		require.Empty(t, errs)
		assert.Equal(t, "What is Go?", question.Text)
		require.Len(t, question.Options, 2)
		assert.True(t, question.Options[0].IsCorrect)
		assert.False(t, question.Options[1].IsCorrect)
	})

	t.Run("missing question text", func(t *testing.T) {
		_, errs := parseQuestionRow([]string{"", "a", "b", "", "", "A"}, headerMap, 3)
		require.Len(t, errs, 1)
		assert.Equal(t, 3, errs[0].Row)
		assert.Equal(t, "question_text", errs[0].Column)
	})

	t.Run("too few options", func(t *testing.T) {
		_, errs := parseQuestionRow([]string{"q", "only one", "", "", "", "A"}, headerMap, 4)
		require.Len(t, errs, 1)
		assert.Equal(t, "options", errs[0].Column)
	})

	t.Run("correct answer out of range", func(t *testing.T) {
		_, errs := parseQuestionRow([]string{"q", "a", "b", "", "", "D"}, headerMap, 5)
		require.Len(t, errs, 1)
		assert.Equal(t, "correct_answer", errs[0].Column)
	})
}

func TestReportService_ImportQuestionsFromCSV(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepository()
	logger := utils.NewDevelopmentLogger()
	progress := NewProgressService(repo, NewEnrollmentGate(repo), events.NewMockEventPublisher(), logger)
	service := NewReportService(repo, progress, cache.NoopCache{}, logger)

	quiz := &models.Quiz{ID: 10, CourseID: 1, Title: "Checkpoint"}
	repo.quiz.On("GetByID", ctx, uint(10)).Return(quiz, nil)
	repo.quiz.On("Update", ctx, mock.AnythingOfType("*models.Quiz")).Return(nil)

	csv := strings.Join([]string{
		"question_text,option_a,option_b,option_c,option_d,correct_answer",
		"What is a goroutine?,A thread,A lightweight thread,A process,,B",
		",missing,text,,,A",
		"What does gofmt do?,Formats code,Runs tests,,,A",
	}, "\n")

	result, err := service.ImportQuestionsFromCSV(ctx, 10, strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalRows)
	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)

	require.Len(t, quiz.Questions, 2)
	assert.True(t, quiz.Questions[0].Options[1].IsCorrect)
}

func TestReportService_ExportProgressToExcel(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepository()
	logger := utils.NewDevelopmentLogger()
	progress := NewProgressService(repo, NewEnrollmentGate(repo), events.NewMockEventPublisher(), logger)
	service := NewReportService(repo, progress, cache.NoopCache{}, logger)

	records := []*models.Progress{
		{ID: 1, UserID: "student-1", CourseID: 1, OverallProgress: 100, IsCompleted: true},
	}
	repo.progress.On("GetAllByUser", ctx, "student-1").Return(records, nil)
	repo.course.On("GetByID", ctx, uint(1)).Return(&models.Course{ID: 1, Title: "Go Basics"}, nil)
	repo.course.On("CountLessons", ctx, uint(1)).Return(2, nil)
	repo.course.On("CountQuizzes", ctx, uint(1)).Return(1, nil)

	data, err := service.ExportProgressToExcel(ctx, "student-1")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	// xlsx files are zip archives.
	assert.Equal(t, "PK", string(data[:2]))
}
