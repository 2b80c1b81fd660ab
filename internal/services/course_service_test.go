package services

import (
	"context"
	"testing"

	"github.com/learnlite/course-platform/internal/cache"
	"github.com/learnlite/course-platform/internal/events"
	"github.com/learnlite/course-platform/internal/models"
	"github.com/learnlite/course-platform/internal/repositories"
	"github.com/learnlite/course-platform/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCourseServiceForTest(repo *MockRepository, publisher events.EventPublisher) CourseService {
	logger := utils.NewDevelopmentLogger()
	return NewCourseService(repo, cache.NoopCache{}, publisher, logger, utils.NewValidator())
}

func TestCourseService_Enroll(t *testing.T) {
	ctx := context.Background()

	t.Run("first enrollment succeeds and publishes", func(t *testing.T) {
		repo := NewMockRepository()
		publisher := events.NewMockEventPublisher()
		service := newCourseServiceForTest(repo, publisher)

		repo.course.On("GetByID", ctx, uint(1)).Return(&models.Course{ID: 1}, nil)
		repo.course.On("Enroll", ctx, uint(1), "student-1", mock.AnythingOfType("time.Time")).Return(true, nil)

		err := service.Enroll(ctx, 1, "student-1")
		require.NoError(t, err)

		published := publisher.GetPublishedEvents()
		require.Len(t, published, 1)
		assert.Equal(t, events.EventUserEnrolled, published[0].Type)
	})

	t.Run("duplicate enrollment is a conflict", func(t *testing.T) {
		repo := NewMockRepository()
		publisher := events.NewMockEventPublisher()
		service := newCourseServiceForTest(repo, publisher)

		repo.course.On("GetByID", ctx, uint(1)).Return(&models.Course{ID: 1}, nil)
		repo.course.On("Enroll", ctx, uint(1), "student-1", mock.AnythingOfType("time.Time")).Return(false, nil)

		err := service.Enroll(ctx, 1, "student-1")
		assert.ErrorIs(t, err, ErrAlreadyEnrolled)
		assert.True(t, IsConflict(err))
		assert.Empty(t, publisher.GetPublishedEvents())
	})

	t.Run("unknown course", func(t *testing.T) {
		repo := NewMockRepository()
		service := newCourseServiceForTest(repo, events.NewMockEventPublisher())

		repo.course.On("GetByID", ctx, uint(42)).Return(nil, repositories.ErrNotFound)

		err := service.Enroll(ctx, 42, "student-1")
		assert.ErrorIs(t, err, ErrCourseNotFound)
	})
}

func TestCourseService_List_Pagination(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepository()
	service := newCourseServiceForTest(repo, events.NewMockEventPublisher())

	courses := []*models.Course{{ID: 1}, {ID: 2}}
	repo.course.On("List", ctx, repositories.CourseFilters{Limit: 10, Offset: 10}).Return(courses, int64(25), nil)

	resp, err := service.List(ctx, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.CurrentPage)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, int64(25), resp.TotalCourses)
	assert.Len(t, resp.Courses, 2)
}

func TestCourseService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	repo := NewMockRepository()
	service := newCourseServiceForTest(repo, events.NewMockEventPublisher())

	_, err := service.Create(ctx, &CreateCourseRequest{Title: ""})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	repo.course.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
