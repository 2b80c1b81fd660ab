package services

import (
	"context"
	"testing"
	"time"

	"github.com/learnlite/course-platform/internal/cache"
	"github.com/learnlite/course-platform/internal/events"
	"github.com/learnlite/course-platform/internal/models"
	"github.com/learnlite/course-platform/internal/repositories"
	"github.com/learnlite/course-platform/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// testQuiz builds a quiz with four questions, three options each, where the
// first option is always the correct one.
func testQuiz() *models.Quiz {
	quiz := &models.Quiz{
		ID:           10,
		CourseID:     1,
		Title:        "Chapter checkpoint",
		PassingScore: 70,
	}
	for q := uint(1); q <= 4; q++ {
		question := models.Question{ID: q, QuizID: 10, Text: "question"}
		for o := 0; o < 3; o++ {
			question.Options = append(question.Options, models.Option{
				ID:        q*10 + uint(o),
				Text:      "option",
				Position:  o,
				IsCorrect: o == 0,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}
	return quiz
}

func newQuizServiceForTest(repo *MockRepository, publisher events.EventPublisher) QuizService {
	logger := utils.NewDevelopmentLogger()
	return NewQuizService(repo, NewEnrollmentGate(repo), cache.NoopCache{}, publisher, logger, utils.NewValidator())
}

func TestQuizService_SubmitAttempt(t *testing.T) {
	ctx := context.Background()

	t.Run("scores and passes", func(t *testing.T) {
		repo := NewMockRepository()
		publisher := events.NewMockEventPublisher()
		service := newQuizServiceForTest(repo, publisher)

		quiz := testQuiz()
		progress := &models.Progress{ID: 7, UserID: "student-1", CourseID: 1}

		repo.quiz.On("GetByID", ctx, uint(10)).Return(quiz, nil)
		repo.quiz.On("GetAttempt", ctx, uint(10), "student-1").Return(nil, repositories.ErrNotFound)
		repo.course.On("GetByID", ctx, uint(1)).Return(&models.Course{ID: 1}, nil)
		repo.course.On("IsEnrolled", ctx, uint(1), "student-1").Return(true, nil)
		repo.quiz.On("CreateAttempt", ctx, mock.AnythingOfType("*models.QuizAttempt")).Return(nil)
		repo.progress.On("GetOrCreate", ctx, "student-1", uint(1)).Return(progress, nil)
		repo.progress.On("AppendQuizAttempt", ctx, mock.AnythingOfType("*models.ProgressQuizAttempt")).Return(nil)
		repo.progress.On("AddCompletedQuiz", ctx, uint(7), uint(10), mock.AnythingOfType("time.Time")).Return(true, nil)
		repo.course.On("CountLessons", ctx, uint(1)).Return(0, nil)
		repo.course.On("CountQuizzes", ctx, uint(1)).Return(1, nil)
		repo.progress.On("UpdateAggregate", ctx, uint(7), 100, true).Return(nil)

		// Three correct answers, one wrong: 3/4 = 75.
		answers := []models.AnswerSubmission{
			{QuestionID: 1, SelectedOption: 0},
			{QuestionID: 2, SelectedOption: 0},
			{QuestionID: 3, SelectedOption: 0},
			{QuestionID: 4, SelectedOption: 1},
		}

		result, err := service.SubmitAttempt(ctx, 10, "student-1", answers)
		require.NoError(t, err)
		assert.Equal(t, 75, result.Score)
		assert.True(t, result.Passed)
		assert.True(t, repo.CommitCalled)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 2)
		assert.Equal(t, events.EventQuizPassed, published[0].Type)
		assert.Equal(t, events.EventCourseCompleted, published[1].Type)

		repo.quiz.AssertExpectations(t)
		repo.progress.AssertExpectations(t)
	})

	t.Run("unanswered questions score zero", func(t *testing.T) {
		repo := NewMockRepository()
		publisher := events.NewMockEventPublisher()
		service := newQuizServiceForTest(repo, publisher)

		quiz := testQuiz()
		progress := &models.Progress{ID: 7, UserID: "student-1", CourseID: 1}

		repo.quiz.On("GetByID", ctx, uint(10)).Return(quiz, nil)
		repo.quiz.On("GetAttempt", ctx, uint(10), "student-1").Return(nil, repositories.ErrNotFound)
		repo.course.On("GetByID", ctx, uint(1)).Return(&models.Course{ID: 1}, nil)
		repo.course.On("IsEnrolled", ctx, uint(1), "student-1").Return(true, nil)
		repo.quiz.On("CreateAttempt", ctx, mock.AnythingOfType("*models.QuizAttempt")).Return(nil)
		repo.progress.On("GetOrCreate", ctx, "student-1", uint(1)).Return(progress, nil)
		repo.progress.On("AppendQuizAttempt", ctx, mock.AnythingOfType("*models.ProgressQuizAttempt")).Return(nil)
		repo.course.On("CountLessons", ctx, uint(1)).Return(0, nil)
		repo.course.On("CountQuizzes", ctx, uint(1)).Return(1, nil)
		repo.progress.On("UpdateAggregate", ctx, uint(7), 0, false).Return(nil)

		// Two of four answered: 2/4 = 50, below the passing score.
		answers := []models.AnswerSubmission{
			{QuestionID: 1, SelectedOption: 0},
			{QuestionID: 2, SelectedOption: 0},
		}

		result, err := service.SubmitAttempt(ctx, 10, "student-1", answers)
		require.NoError(t, err)
		assert.Equal(t, 50, result.Score)
		assert.False(t, result.Passed)

		// A failed attempt never touches the completed set.
		repo.progress.AssertNotCalled(t, "AddCompletedQuiz", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventQuizAttempted, published[0].Type)
	})

	t.Run("prior attempt is a conflict with read-back", func(t *testing.T) {
		repo := NewMockRepository()
		publisher := events.NewMockEventPublisher()
		service := newQuizServiceForTest(repo, publisher)

		attemptDate := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		prior := &models.QuizAttempt{QuizID: 10, UserID: "student-1", Score: 80, Passed: true, CreatedAt: attemptDate}

		repo.quiz.On("GetByID", ctx, uint(10)).Return(testQuiz(), nil)
		repo.quiz.On("GetAttempt", ctx, uint(10), "student-1").Return(prior, nil)

		_, err := service.SubmitAttempt(ctx, 10, "student-1", []models.AnswerSubmission{{QuestionID: 1, SelectedOption: 0}})
		require.Error(t, err)

		var conflict *AttemptConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, 80, conflict.Score)
		assert.True(t, conflict.Passed)
		assert.Equal(t, attemptDate, conflict.AttemptDate)
		assert.Empty(t, publisher.GetPublishedEvents())
	})

	t.Run("not enrolled", func(t *testing.T) {
		repo := NewMockRepository()
		service := newQuizServiceForTest(repo, events.NewMockEventPublisher())

		repo.quiz.On("GetByID", ctx, uint(10)).Return(testQuiz(), nil)
		repo.quiz.On("GetAttempt", ctx, uint(10), "outsider").Return(nil, repositories.ErrNotFound)
		repo.course.On("GetByID", ctx, uint(1)).Return(&models.Course{ID: 1}, nil)
		repo.course.On("IsEnrolled", ctx, uint(1), "outsider").Return(false, nil)

		_, err := service.SubmitAttempt(ctx, 10, "outsider", []models.AnswerSubmission{{QuestionID: 1, SelectedOption: 0}})
		assert.ErrorIs(t, err, ErrNotEnrolled)
		assert.True(t, IsForbidden(err))
	})

	t.Run("quiz not found", func(t *testing.T) {
		repo := NewMockRepository()
		service := newQuizServiceForTest(repo, events.NewMockEventPublisher())

		repo.quiz.On("GetByID", ctx, uint(99)).Return(nil, repositories.ErrNotFound)

		_, err := service.SubmitAttempt(ctx, 99, "student-1", []models.AnswerSubmission{{QuestionID: 1, SelectedOption: 0}})
		assert.ErrorIs(t, err, ErrQuizNotFound)
	})

	t.Run("concurrent duplicate resolves to prior attempt", func(t *testing.T) {
		repo := NewMockRepository()
		publisher := events.NewMockEventPublisher()
		service := newQuizServiceForTest(repo, publisher)

		prior := &models.QuizAttempt{QuizID: 10, UserID: "student-1", Score: 75, Passed: true}

		repo.quiz.On("GetByID", ctx, uint(10)).Return(testQuiz(), nil)
		repo.quiz.On("GetAttempt", ctx, uint(10), "student-1").Return(nil, repositories.ErrNotFound).Once()
		repo.course.On("GetByID", ctx, uint(1)).Return(&models.Course{ID: 1}, nil)
		repo.course.On("IsEnrolled", ctx, uint(1), "student-1").Return(true, nil)
		repo.quiz.On("CreateAttempt", ctx, mock.AnythingOfType("*models.QuizAttempt")).Return(repositories.ErrDuplicate)
		repo.quiz.On("GetAttempt", ctx, uint(10), "student-1").Return(prior, nil).Once()

		_, err := service.SubmitAttempt(ctx, 10, "student-1", []models.AnswerSubmission{{QuestionID: 1, SelectedOption: 0}})

		var conflict *AttemptConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, 75, conflict.Score)
		assert.True(t, repo.RollbackCalled)
		assert.Empty(t, publisher.GetPublishedEvents())
	})
}

func TestQuizService_SubmitAttempt_AnswerValidation(t *testing.T) {
	ctx := context.Background()

	setup := func() (QuizService, *MockRepository) {
		repo := NewMockRepository()
		service := newQuizServiceForTest(repo, events.NewMockEventPublisher())
		repo.quiz.On("GetByID", ctx, uint(10)).Return(testQuiz(), nil)
		repo.quiz.On("GetAttempt", ctx, uint(10), "student-1").Return(nil, repositories.ErrNotFound)
		repo.course.On("GetByID", ctx, uint(1)).Return(&models.Course{ID: 1}, nil)
		repo.course.On("IsEnrolled", ctx, uint(1), "student-1").Return(true, nil)
		return service, repo
	}

	t.Run("empty answers", func(t *testing.T) {
		service, _ := setup()

		_, err := service.SubmitAttempt(ctx, 10, "student-1", nil)

		var answerErr *AnswerValidationError
		require.ErrorAs(t, err, &answerErr)
		assert.True(t, IsValidation(err))
	})

	t.Run("question from another quiz", func(t *testing.T) {
		service, _ := setup()

		_, err := service.SubmitAttempt(ctx, 10, "student-1", []models.AnswerSubmission{
			{QuestionID: 1, SelectedOption: 0},
			{QuestionID: 999, SelectedOption: 0},
		})

		var answerErr *AnswerValidationError
		require.ErrorAs(t, err, &answerErr)
		assert.Equal(t, 1, answerErr.Index)
		assert.Equal(t, uint(999), answerErr.QuestionID)
	})

	t.Run("duplicate question reference", func(t *testing.T) {
		service, repo := setup()

		// Repeating a known-correct answer must not inflate the score
		// past the question count.
		_, err := service.SubmitAttempt(ctx, 10, "student-1", []models.AnswerSubmission{
			{QuestionID: 1, SelectedOption: 0},
			{QuestionID: 1, SelectedOption: 0},
			{QuestionID: 1, SelectedOption: 0},
		})

		var answerErr *AnswerValidationError
		require.ErrorAs(t, err, &answerErr)
		assert.Equal(t, 1, answerErr.Index)
		assert.Equal(t, uint(1), answerErr.QuestionID)
		repo.quiz.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
	})

	t.Run("option index out of range", func(t *testing.T) {
		service, repo := setup()

		_, err := service.SubmitAttempt(ctx, 10, "student-1", []models.AnswerSubmission{
			{QuestionID: 1, SelectedOption: 5},
		})

		var answerErr *AnswerValidationError
		require.ErrorAs(t, err, &answerErr)
		assert.Equal(t, 0, answerErr.Index)

		// Validation failures never reach the storage layer.
		repo.quiz.AssertNotCalled(t, "CreateAttempt", mock.Anything, mock.Anything)
	})
}

func TestScoreAttempt_CountsEachQuestionOnce(t *testing.T) {
	quiz := testQuiz()

	score := scoreAttempt(quiz, []models.AnswerSubmission{
		{QuestionID: 1, SelectedOption: 0},
		{QuestionID: 1, SelectedOption: 0},
		{QuestionID: 1, SelectedOption: 0},
	})

	// One of four questions answered correctly, however many times.
	assert.Equal(t, 25, score)
}

func TestQuizService_GetByCourse_StripsCorrectness(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepository()
	service := newQuizServiceForTest(repo, events.NewMockEventPublisher())

	repo.course.On("GetByID", ctx, uint(1)).Return(&models.Course{ID: 1}, nil)
	repo.course.On("IsEnrolled", ctx, uint(1), "student-1").Return(true, nil)
	repo.quiz.On("GetByCourse", ctx, uint(1)).Return([]*models.Quiz{testQuiz()}, nil)

	views, err := service.GetByCourse(ctx, 1, "student-1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Len(t, views[0].Questions, 4)

	for _, question := range views[0].Questions {
		assert.Len(t, question.Options, 3)
	}
}

func TestQuizService_Create_DefaultPassingScore(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepository()
	service := newQuizServiceForTest(repo, events.NewMockEventPublisher())

	repo.course.On("GetByID", ctx, uint(1)).Return(&models.Course{ID: 1}, nil)
	repo.quiz.On("Create", ctx, mock.AnythingOfType("*models.Quiz")).Return(nil)

	quiz, err := service.Create(ctx, &CreateQuizRequest{
		CourseID: 1,
		Title:    "Final exam",
		Questions: []CreateQuestionRequest{
			{Text: "q1", Options: []CreateOptionRequest{{Text: "a", IsCorrect: true}, {Text: "b"}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPassingScore, quiz.PassingScore)
	require.Len(t, quiz.Questions, 1)
	assert.Len(t, quiz.Questions[0].Options, 2)
}
