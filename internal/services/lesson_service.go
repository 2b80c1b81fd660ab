package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/learnlite/course-platform/internal/models"
	"github.com/learnlite/course-platform/internal/repositories"
	"github.com/learnlite/course-platform/internal/utils"
	"gorm.io/datatypes"
)

// LessonService covers lesson CRUD (administrative) and the
// enrollment-gated lesson listing for learners.
type LessonService interface {
	Create(ctx context.Context, req *CreateLessonRequest) (*models.Lesson, error)
	Update(ctx context.Context, id uint, req *UpdateLessonRequest) (*models.Lesson, error)
	Delete(ctx context.Context, id uint) error
	GetByCourse(ctx context.Context, courseID uint, userID string) ([]*models.Lesson, error)
}

type CreateLessonRequest struct {
	CourseID      uint                  `json:"course" validate:"required"`
	Title         string                `json:"title" validate:"required,min=1,max=200"`
	VideoURL      string                `json:"video_url" validate:"required,url"`
	Position      int                   `json:"order" validate:"min=0"`
	ResourceLinks []models.ResourceLink `json:"resource_links" validate:"omitempty,dive"`
}

type UpdateLessonRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=1,max=200"`
	VideoURL *string `json:"video_url" validate:"omitempty,url"`
	Position *int    `json:"order" validate:"omitempty,min=0"`
}

type lessonService struct {
	repo      repositories.Repository
	gate      *EnrollmentGate
	logger    utils.Logger
	validator *utils.Validator
}

func NewLessonService(
	repo repositories.Repository,
	gate *EnrollmentGate,
	logger utils.Logger,
	validator *utils.Validator,
) LessonService {
	return &lessonService{
		repo:      repo,
		gate:      gate,
		logger:    logger,
		validator: validator,
	}
}

func (s *lessonService) Create(ctx context.Context, req *CreateLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Course().GetByID(ctx, req.CourseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	lesson := &models.Lesson{
		CourseID: req.CourseID,
		Title:    req.Title,
		VideoURL: req.VideoURL,
		Position: req.Position,
	}
	if len(req.ResourceLinks) > 0 {
		links, err := json.Marshal(req.ResourceLinks)
		if err != nil {
			return nil, fmt.Errorf("failed to encode resource links: %w", err)
		}
		lesson.ResourceLinks = datatypes.JSON(links)
	}

	if err := s.repo.Lesson().Create(ctx, lesson); err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}

	s.logger.Info("Lesson created", "lesson_id", lesson.ID, "course_id", lesson.CourseID)
	return lesson, nil
}

func (s *lessonService) Update(ctx context.Context, id uint, req *UpdateLessonRequest) (*models.Lesson, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	lesson, err := s.repo.Lesson().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLessonNotFound
		}
		return nil, fmt.Errorf("failed to get lesson: %w", err)
	}

	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.VideoURL != nil {
		lesson.VideoURL = *req.VideoURL
	}
	if req.Position != nil {
		lesson.Position = *req.Position
	}

	if err := s.repo.Lesson().Update(ctx, lesson); err != nil {
		return nil, fmt.Errorf("failed to update lesson: %w", err)
	}
	return lesson, nil
}

func (s *lessonService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Lesson().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrLessonNotFound
		}
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	s.logger.Info("Lesson deleted", "lesson_id", id)
	return nil
}

// GetByCourse lists a course's lessons in display order for an enrolled
// student.
func (s *lessonService) GetByCourse(ctx context.Context, courseID uint, userID string) ([]*models.Lesson, error) {
	if _, err := s.repo.Course().GetByID(ctx, courseID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	if err := s.gate.Authorize(ctx, courseID, userID); err != nil {
		return nil, err
	}

	lessons, err := s.repo.Lesson().GetByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	return lessons, nil
}
