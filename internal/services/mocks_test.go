package services

import (
	"context"
	"time"

	"github.com/learnlite/course-platform/internal/models"
	"github.com/learnlite/course-platform/internal/repositories"
	"github.com/stretchr/testify/mock"
)

// MockCourseRepository is a mock implementation of CourseRepository
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) Create(ctx context.Context, course *models.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseRepository) GetByIDWithContent(ctx context.Context, id uint) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseRepository) Update(ctx context.Context, course *models.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCourseRepository) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Course), args.Get(1).(int64), args.Error(2)
}

func (m *MockCourseRepository) CountLessons(ctx context.Context, courseID uint) (int, error) {
	args := m.Called(ctx, courseID)
	return args.Int(0), args.Error(1)
}

func (m *MockCourseRepository) CountQuizzes(ctx context.Context, courseID uint) (int, error) {
	args := m.Called(ctx, courseID)
	return args.Int(0), args.Error(1)
}

func (m *MockCourseRepository) Enroll(ctx context.Context, courseID uint, userID string, at time.Time) (bool, error) {
	args := m.Called(ctx, courseID, userID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourseRepository) IsEnrolled(ctx context.Context, courseID uint, userID string) (bool, error) {
	args := m.Called(ctx, courseID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourseRepository) CountEnrolled(ctx context.Context, courseID uint) (int64, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).(int64), args.Error(1)
}

// MockLessonRepository is a mock implementation of LessonRepository
type MockLessonRepository struct {
	mock.Mock
}

func (m *MockLessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	args := m.Called(ctx, lesson)
	return args.Error(0)
}

func (m *MockLessonRepository) GetByID(ctx context.Context, id uint) (*models.Lesson, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Lesson), args.Error(1)
}

func (m *MockLessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	args := m.Called(ctx, lesson)
	return args.Error(0)
}

func (m *MockLessonRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLessonRepository) GetByCourse(ctx context.Context, courseID uint) ([]*models.Lesson, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Lesson), args.Error(1)
}

func (m *MockLessonRepository) ExistsInCourse(ctx context.Context, courseID, lessonID uint) (bool, error) {
	args := m.Called(ctx, courseID, lessonID)
	return args.Bool(0), args.Error(1)
}

// MockQuizRepository is a mock implementation of QuizRepository
type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetByID(ctx context.Context, id uint) (*models.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Quiz), args.Error(1)
}

func (m *MockQuizRepository) Update(ctx context.Context, quiz *models.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuizRepository) GetByCourse(ctx context.Context, courseID uint) ([]*models.Quiz, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Quiz), args.Error(1)
}

func (m *MockQuizRepository) ExistsInCourse(ctx context.Context, courseID, quizID uint) (bool, error) {
	args := m.Called(ctx, courseID, quizID)
	return args.Bool(0), args.Error(1)
}

func (m *MockQuizRepository) CreateAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockQuizRepository) GetAttempt(ctx context.Context, quizID uint, userID string) (*models.QuizAttempt, error) {
	args := m.Called(ctx, quizID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.QuizAttempt), args.Error(1)
}

// MockProgressRepository is a mock implementation of ProgressRepository
type MockProgressRepository struct {
	mock.Mock
}

func (m *MockProgressRepository) GetByUserAndCourse(ctx context.Context, userID string, courseID uint) (*models.Progress, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Progress), args.Error(1)
}

func (m *MockProgressRepository) GetOrCreate(ctx context.Context, userID string, courseID uint) (*models.Progress, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Progress), args.Error(1)
}

func (m *MockProgressRepository) GetAllByUser(ctx context.Context, userID string) ([]*models.Progress, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Progress), args.Error(1)
}

func (m *MockProgressRepository) AddCompletedLesson(ctx context.Context, progressID, lessonID uint, at time.Time) (bool, error) {
	args := m.Called(ctx, progressID, lessonID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockProgressRepository) AddCompletedQuiz(ctx context.Context, progressID, quizID uint, at time.Time) (bool, error) {
	args := m.Called(ctx, progressID, quizID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockProgressRepository) AppendQuizAttempt(ctx context.Context, entry *models.ProgressQuizAttempt) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockProgressRepository) UpdateAggregate(ctx context.Context, progressID uint, overallProgress int, isCompleted bool) error {
	args := m.Called(ctx, progressID, overallProgress, isCompleted)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockRepository bundles the mocks behind the aggregate interface. Begin
// returns the same instance so expectations set on the sub-mocks cover the
// transactional path too.
type MockRepository struct {
	course   *MockCourseRepository
	lesson   *MockLessonRepository
	quiz     *MockQuizRepository
	progress *MockProgressRepository
	user     *MockUserRepository

	CommitCalled   bool
	RollbackCalled bool
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		course:   new(MockCourseRepository),
		lesson:   new(MockLessonRepository),
		quiz:     new(MockQuizRepository),
		progress: new(MockProgressRepository),
		user:     new(MockUserRepository),
	}
}

func (r *MockRepository) Course() repositories.CourseRepository     { return r.course }
func (r *MockRepository) Lesson() repositories.LessonRepository     { return r.lesson }
func (r *MockRepository) Quiz() repositories.QuizRepository         { return r.quiz }
func (r *MockRepository) Progress() repositories.ProgressRepository { return r.progress }
func (r *MockRepository) User() repositories.UserRepository         { return r.user }

func (r *MockRepository) Begin(ctx context.Context) (repositories.TransactionRepository, error) {
	return r, nil
}

func (r *MockRepository) Commit(ctx context.Context) error {
	r.CommitCalled = true
	return nil
}

func (r *MockRepository) Rollback(ctx context.Context) error {
	r.RollbackCalled = true
	return nil
}
