package services

import (
	"context"
	"fmt"
	"time"

	"github.com/learnlite/course-platform/internal/cache"
	"github.com/learnlite/course-platform/internal/events"
	"github.com/learnlite/course-platform/internal/models"
	"github.com/learnlite/course-platform/internal/repositories"
	"github.com/learnlite/course-platform/internal/utils"
)

const (
	courseCacheTTL     = 5 * time.Minute
	courseCacheKeyFmt  = "course:%d"
	courseCachePattern = "course:*"
)

// CourseService covers course CRUD and enrollment.
type CourseService interface {
	Create(ctx context.Context, req *CreateCourseRequest) (*models.Course, error)
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	List(ctx context.Context, page, limit int) (*CourseListResponse, error)
	Update(ctx context.Context, id uint, req *UpdateCourseRequest) (*models.Course, error)
	Delete(ctx context.Context, id uint) error
	Enroll(ctx context.Context, courseID uint, userID string) error
}

type CreateCourseRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"required"`
	Instructor  string  `json:"instructor" validate:"required,min=1,max=100"`
	Price       float64 `json:"price" validate:"min=0"`
}

type UpdateCourseRequest struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,min=1"`
	Instructor  *string  `json:"instructor" validate:"omitempty,min=1,max=100"`
	Price       *float64 `json:"price" validate:"omitempty,min=0"`
}

type CourseListResponse struct {
	Courses      []*models.Course `json:"courses"`
	CurrentPage  int              `json:"currentPage"`
	TotalPages   int              `json:"totalPages"`
	TotalCourses int64            `json:"totalCourses"`
}

type courseService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    utils.Logger
	validator *utils.Validator
}

func NewCourseService(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger utils.Logger,
	validator *utils.Validator,
) CourseService {
	return &courseService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		validator: validator,
	}
}

func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:       req.Title,
		Description: req.Description,
		Instructor:  req.Instructor,
		Price:       req.Price,
	}
	if err := s.repo.Course().Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	s.logger.Info("Course created", "course_id", course.ID, "title", course.Title)
	return course, nil
}

func (s *courseService) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	cacheKey := fmt.Sprintf(courseCacheKeyFmt, id)

	var cached models.Course
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	course, err := s.repo.Course().GetByIDWithContent(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if enrolled, err := s.repo.Course().CountEnrolled(ctx, id); err == nil {
		course.EnrolledCount = int(enrolled)
	}

	if err := s.cache.Set(ctx, cacheKey, course, courseCacheTTL); err != nil {
		s.logger.Warn("Failed to cache course", "course_id", id, "error", err)
	}
	return course, nil
}

func (s *courseService) List(ctx context.Context, page, limit int) (*CourseListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	courses, total, err := s.repo.Course().List(ctx, repositories.CourseFilters{
		Limit:  limit,
		Offset: (page - 1) * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &CourseListResponse{
		Courses:      courses,
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalCourses: total,
	}, nil
}

func (s *courseService) Update(ctx context.Context, id uint, req *UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Instructor != nil {
		course.Instructor = *req.Instructor
	}
	if req.Price != nil {
		course.Price = *req.Price
	}

	if err := s.repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	s.invalidateCourse(ctx, id)
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Course().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to delete course: %w", err)
	}

	s.invalidateCourse(ctx, id)
	s.logger.Info("Course deleted", "course_id", id)
	return nil
}

// Enroll adds the user to the course's enrollment set. The single
// enrollment row carries both sides of the relationship, so there is no
// partially-applied state to compensate for; a duplicate request is a
// conflict, not a success.
func (s *courseService) Enroll(ctx context.Context, courseID uint, userID string) error {
	if _, err := s.repo.Course().GetByID(ctx, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrCourseNotFound
		}
		return fmt.Errorf("failed to get course: %w", err)
	}

	inserted, err := s.repo.Course().Enroll(ctx, courseID, userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to enroll: %w", err)
	}
	if !inserted {
		return ErrAlreadyEnrolled
	}

	s.logger.Info("User enrolled", "course_id", courseID, "user_id", userID)

	event := events.NewProgressEvent(events.EventUserEnrolled, events.UserEnrolledEvent{
		CourseID: courseID,
		UserID:   userID,
	})
	if err := s.publisher.PublishProgressEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish enrollment event", "course_id", courseID, "error", err)
	}
	return nil
}

func (s *courseService) invalidateCourse(ctx context.Context, id uint) {
	if err := s.cache.Delete(ctx, fmt.Sprintf(courseCacheKeyFmt, id)); err != nil {
		s.logger.Warn("Failed to invalidate course cache", "course_id", id, "error", err)
	}
}
