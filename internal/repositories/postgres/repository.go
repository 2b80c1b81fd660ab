package postgres

import (
	"context"
	"errors"

	"github.com/learnlite/course-platform/internal/models"
	"github.com/learnlite/course-platform/internal/repositories"
	"gorm.io/gorm"
)

// Repository is the gorm-backed aggregate. Begin returns a copy bound to a
// transaction; all sub-repositories of that copy share it.
type Repository struct {
	db   *gorm.DB
	inTx bool
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Course() repositories.CourseRepository {
	return &CoursePostgreSQL{db: r.db}
}

func (r *Repository) Lesson() repositories.LessonRepository {
	return &LessonPostgreSQL{db: r.db}
}

func (r *Repository) Quiz() repositories.QuizRepository {
	return &QuizPostgreSQL{db: r.db}
}

func (r *Repository) Progress() repositories.ProgressRepository {
	return &ProgressPostgreSQL{db: r.db}
}

func (r *Repository) User() repositories.UserRepository {
	return &UserPostgreSQL{db: r.db}
}

func (r *Repository) Begin(ctx context.Context) (repositories.TransactionRepository, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &Repository{db: tx, inTx: true}, nil
}

func (r *Repository) Commit(_ context.Context) error {
	if !r.inTx {
		return errors.New("commit outside transaction")
	}
	return r.db.Commit().Error
}

func (r *Repository) Rollback(_ context.Context) error {
	if !r.inTx {
		return errors.New("rollback outside transaction")
	}
	return r.db.Rollback().Error
}

// AutoMigrate creates or updates the full schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Enrollment{},
		&models.Lesson{},
		&models.Quiz{},
		&models.Question{},
		&models.Option{},
		&models.QuizAttempt{},
		&models.Progress{},
		&models.LessonCompletion{},
		&models.QuizCompletion{},
		&models.ProgressQuizAttempt{},
	)
}
