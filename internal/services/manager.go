package services

import (
	"github.com/learnlite/course-platform/internal/cache"
	"github.com/learnlite/course-platform/internal/events"
	"github.com/learnlite/course-platform/internal/repositories"
	"github.com/learnlite/course-platform/internal/utils"
)

// ServiceManager bundles the service layer so handlers depend on a single
// injected handle.
type ServiceManager interface {
	Course() CourseService
	Lesson() LessonService
	Quiz() QuizService
	Progress() ProgressService
	Report() ReportService
}

type serviceManager struct {
	course   CourseService
	lesson   LessonService
	quiz     QuizService
	progress ProgressService
	report   ReportService
}

func NewServiceManager(
	repo repositories.TransactionRepository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger utils.Logger,
	validator *utils.Validator,
) ServiceManager {
	gate := NewEnrollmentGate(repo)
	progress := NewProgressService(repo, gate, publisher, logger)
	return &serviceManager{
		course:   NewCourseService(repo, cacheService, publisher, logger, validator),
		lesson:   NewLessonService(repo, gate, logger, validator),
		quiz:     NewQuizService(repo, gate, cacheService, publisher, logger, validator),
		progress: progress,
		report:   NewReportService(repo, progress, cacheService, logger),
	}
}

func (m *serviceManager) Course() CourseService     { return m.course }
func (m *serviceManager) Lesson() LessonService     { return m.lesson }
func (m *serviceManager) Quiz() QuizService         { return m.quiz }
func (m *serviceManager) Progress() ProgressService { return m.progress }
func (m *serviceManager) Report() ReportService     { return m.report }
