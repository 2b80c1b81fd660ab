package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/learnlite/course-platform/internal/cache"
	"github.com/learnlite/course-platform/internal/events"
	"github.com/learnlite/course-platform/internal/models"
	"github.com/learnlite/course-platform/internal/repositories"
	"github.com/learnlite/course-platform/internal/utils"
	"gorm.io/datatypes"
)

const (
	quizCacheTTL    = 5 * time.Minute
	quizCacheKeyFmt = "quiz:%d"
)

// QuizService covers quiz creation (administrative), the learner-facing
// quiz listing, single-attempt submission with scoring, and attempt
// read-back.
type QuizService interface {
	Create(ctx context.Context, req *CreateQuizRequest) (*models.Quiz, error)
	GetByCourse(ctx context.Context, courseID uint, userID string) ([]models.LearnerQuiz, error)
	SubmitAttempt(ctx context.Context, quizID uint, userID string, answers []models.AnswerSubmission) (*SubmitAttemptResult, error)
	GetAttempt(ctx context.Context, quizID uint, userID string) (*models.QuizAttempt, error)
}

type CreateQuizRequest struct {
	CourseID     uint                    `json:"course" validate:"required"`
	Title        string                  `json:"title" validate:"required,min=1,max=200"`
	PassingScore int                     `json:"passing_score" validate:"passing_score"`
	Questions    []CreateQuestionRequest `json:"questions" validate:"required,min=1,dive"`
}

type CreateQuestionRequest struct {
	Text    string                `json:"text" validate:"required"`
	Options []CreateOptionRequest `json:"options" validate:"required,min=2,dive"`
}

type CreateOptionRequest struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

// SubmitAttemptResult is the caller-facing outcome. The attempt carries the
// submitted answers and the aggregate score; option correctness flags are
// never part of the payload.
type SubmitAttemptResult struct {
	Score   int                 `json:"score"`
	Passed  bool                `json:"passed"`
	Attempt *models.QuizAttempt `json:"attempt"`
}

type quizService struct {
	repo      repositories.TransactionRepository
	gate      *EnrollmentGate
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    utils.Logger
	validator *utils.Validator
}

func NewQuizService(
	repo repositories.TransactionRepository,
	gate *EnrollmentGate,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger utils.Logger,
	validator *utils.Validator,
) QuizService {
	return &quizService{
		repo:      repo,
		gate:      gate,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

func (s *quizService) Create(ctx context.Context, req *CreateQuizRequest) (*models.Quiz, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Course().GetByID(ctx, req.CourseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	passingScore := req.PassingScore
	if passingScore == 0 {
		passingScore = models.DefaultPassingScore
	}

	quiz := &models.Quiz{
		CourseID:     req.CourseID,
		Title:        req.Title,
		PassingScore: passingScore,
	}
	for qi, q := range req.Questions {
		question := models.Question{Text: q.Text, Position: qi}
		for oi, o := range q.Options {
			question.Options = append(question.Options, models.Option{
				Text:      o.Text,
				Position:  oi,
				IsCorrect: o.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := s.repo.Quiz().Create(ctx, quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	s.logger.Info("Quiz created",
		"quiz_id", quiz.ID,
		"course_id", quiz.CourseID,
		"questions", len(quiz.Questions))
	return quiz, nil
}

// GetByCourse lists a course's quizzes for an enrolled student, stripped of
// correctness flags and attempt logs.
func (s *quizService) GetByCourse(ctx context.Context, courseID uint, userID string) ([]models.LearnerQuiz, error) {
	if _, err := s.repo.Course().GetByID(ctx, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if err := s.gate.Authorize(ctx, courseID, userID); err != nil {
		return nil, err
	}

	quizzes, err := s.repo.Quiz().GetByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	views := make([]models.LearnerQuiz, 0, len(quizzes))
	for _, quiz := range quizzes {
		views = append(views, quiz.LearnerView())
	}
	return views, nil
}

// GetAttempt returns the user's own attempt for read-back.
func (s *quizService) GetAttempt(ctx context.Context, quizID uint, userID string) (*models.QuizAttempt, error) {
	if _, err := s.loadQuiz(ctx, quizID); err != nil {
		return nil, err
	}

	attempt, err := s.repo.Quiz().GetAttempt(ctx, quizID, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	return attempt, nil
}

// SubmitAttempt validates and scores one quiz submission.
//
// Preconditions are checked in order, each a distinct failure: quiz exists,
// no prior attempt by this user, owning course exists and user is enrolled,
// answers are well-formed. The attempt insert, the progress mutation and the
// aggregate recompute then commit as one transaction; the (quiz, user)
// uniqueness lives in the storage layer so a concurrent duplicate resolves
// to exactly one attempt.
func (s *quizService) SubmitAttempt(ctx context.Context, quizID uint, userID string, answers []models.AnswerSubmission) (*SubmitAttemptResult, error) {
	quiz, err := s.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if prior, err := s.repo.Quiz().GetAttempt(ctx, quizID, userID); err == nil {
		return nil, priorAttemptConflict(prior)
	} else if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to check prior attempt: %w", err)
	}

	if _, err := s.repo.Course().GetByID(ctx, quiz.CourseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if err := s.gate.Authorize(ctx, quiz.CourseID, userID); err != nil {
		return nil, err
	}

	if err := validateAnswers(quiz, answers); err != nil {
		return nil, err
	}

	score := scoreAttempt(quiz, answers)
	passed := score >= quiz.PassingScore

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode answers: %w", err)
	}

	attempt := &models.QuizAttempt{
		QuizID:  quizID,
		UserID:  userID,
		Answers: datatypes.JSON(answersJSON),
		Score:   score,
		Passed:  passed,
	}

	progress, err := s.recordAttempt(ctx, quiz, attempt)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Quiz attempt scored",
		"quiz_id", quizID,
		"user_id", userID,
		"score", score,
		"passed", passed)

	s.publishAttemptEvents(ctx, quiz, attempt, progress)

	return &SubmitAttemptResult{Score: score, Passed: passed, Attempt: attempt}, nil
}

// recordAttempt applies all attempt side effects in one transaction: the
// immutable attempt row, the informational history entry, the conditional
// completed-set insert when passed, and the aggregate recompute.
func (s *quizService) recordAttempt(ctx context.Context, quiz *models.Quiz, attempt *models.QuizAttempt) (*models.Progress, error) {
	txRepo, err := s.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			txRepo.Rollback(ctx)
		}
	}()

	if err := txRepo.Quiz().CreateAttempt(ctx, attempt); err != nil {
		if repositories.IsDuplicateError(err) {
			// A concurrent submission won the race; surface its outcome.
			prior, perr := s.repo.Quiz().GetAttempt(ctx, quiz.ID, attempt.UserID)
			if perr != nil {
				return nil, fmt.Errorf("failed to load prior attempt: %w", perr)
			}
			return nil, priorAttemptConflict(prior)
		}
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	progress, err := txRepo.Progress().GetOrCreate(ctx, attempt.UserID, quiz.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	now := time.Now().UTC()
	entry := &models.ProgressQuizAttempt{
		ProgressID:  progress.ID,
		QuizID:      quiz.ID,
		Score:       attempt.Score,
		Passed:      attempt.Passed,
		AttemptDate: now,
	}
	if err := txRepo.Progress().AppendQuizAttempt(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record attempt history: %w", err)
	}
	progress.QuizAttempts = append(progress.QuizAttempts, *entry)

	if attempt.Passed {
		inserted, err := txRepo.Progress().AddCompletedQuiz(ctx, progress.ID, quiz.ID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to mark quiz completed: %w", err)
		}
		if inserted {
			progress.CompletedQuizzes = append(progress.CompletedQuizzes, models.QuizCompletion{
				ProgressID:  progress.ID,
				QuizID:      quiz.ID,
				CompletedAt: now,
			})
		}
	}

	totalLessons, err := txRepo.Course().CountLessons(ctx, quiz.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to count lessons: %w", err)
	}
	totalQuizzes, err := txRepo.Course().CountQuizzes(ctx, quiz.CourseID)
	if err != nil {
		return nil, fmt.Errorf("failed to count quizzes: %w", err)
	}

	RecomputeProgress(progress, totalLessons, totalQuizzes)
	if err := txRepo.Progress().UpdateAggregate(ctx, progress.ID, progress.OverallProgress, progress.IsCompleted); err != nil {
		return nil, fmt.Errorf("failed to update aggregate: %w", err)
	}

	if err := txRepo.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return progress, nil
}

func (s *quizService) publishAttemptEvents(ctx context.Context, quiz *models.Quiz, attempt *models.QuizAttempt, progress *models.Progress) {
	eventType := events.EventQuizAttempted
	if attempt.Passed {
		eventType = events.EventQuizPassed
	}
	event := events.NewProgressEvent(eventType, events.QuizAttemptedEvent{
		CourseID: quiz.CourseID,
		QuizID:   quiz.ID,
		UserID:   attempt.UserID,
		Score:    attempt.Score,
		Passed:   attempt.Passed,
	})
	if err := s.publisher.PublishProgressEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish attempt event", "quiz_id", quiz.ID, "error", err)
	}

	if progress.IsCompleted {
		completed := events.NewProgressEvent(events.EventCourseCompleted, events.CourseCompletedEvent{
			CourseID: quiz.CourseID,
			UserID:   attempt.UserID,
		})
		if err := s.publisher.PublishProgressEvent(ctx, completed); err != nil {
			s.logger.Warn("Failed to publish completion event", "course_id", quiz.CourseID, "error", err)
		}
	}
}

func (s *quizService) loadQuiz(ctx context.Context, quizID uint) (*models.Quiz, error) {
	cacheKey := fmt.Sprintf(quizCacheKeyFmt, quizID)

	var cached models.Quiz
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	quiz, err := s.repo.Quiz().GetByID(ctx, quizID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrQuizNotFound
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	if err := s.cache.Set(ctx, cacheKey, quiz, quizCacheTTL); err != nil {
		s.logger.Warn("Failed to cache quiz", "quiz_id", quizID, "error", err)
	}
	return quiz, nil
}

func priorAttemptConflict(prior *models.QuizAttempt) *AttemptConflictError {
	return &AttemptConflictError{
		QuizID:      prior.QuizID,
		Score:       prior.Score,
		Passed:      prior.Passed,
		AttemptDate: prior.CreatedAt,
	}
}

// validateAnswers rejects malformed submissions before any scoring: an
// empty list, a question reference outside this quiz, or an option index
// outside the question's option count. The error names the offending index.
func validateAnswers(quiz *models.Quiz, answers []models.AnswerSubmission) error {
	if len(answers) == 0 {
		return &AnswerValidationError{Index: 0, Message: "answers must be a non-empty array"}
	}

	seen := make(map[uint]bool, len(answers))
	for i, answer := range answers {
		question, ok := quiz.QuestionByID(answer.QuestionID)
		if !ok {
			return &AnswerValidationError{
				Index:      i,
				QuestionID: answer.QuestionID,
				Message:    "question does not belong to this quiz",
			}
		}
		if seen[answer.QuestionID] {
			return &AnswerValidationError{
				Index:      i,
				QuestionID: answer.QuestionID,
				Message:    "duplicate answer for question",
			}
		}
		seen[answer.QuestionID] = true
		if answer.SelectedOption < 0 || answer.SelectedOption >= len(question.Options) {
			return &AnswerValidationError{
				Index:      i,
				QuestionID: answer.QuestionID,
				Message:    fmt.Sprintf("selected option %d out of range", answer.SelectedOption),
			}
		}
	}
	return nil
}

// scoreAttempt computes round(100 * correct / totalQuestions) with
// round-half-up. Questions with no submitted answer count as incorrect; an
// attempt covering fewer questions than exist is legal and simply scores
// lower. Each question counts at most once, so the result is always in
// [0, 100] even for inputs validateAnswers would refuse.
func scoreAttempt(quiz *models.Quiz, answers []models.AnswerSubmission) int {
	totalQuestions := len(quiz.Questions)
	if totalQuestions == 0 {
		return 0
	}

	correct := 0
	scored := make(map[uint]bool, len(answers))
	for _, answer := range answers {
		question, ok := quiz.QuestionByID(answer.QuestionID)
		if !ok || scored[answer.QuestionID] {
			continue
		}
		scored[answer.QuestionID] = true
		if question.Options[answer.SelectedOption].IsCorrect {
			correct++
		}
	}

	return roundPercent(correct, totalQuestions)
}
