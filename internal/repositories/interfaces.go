package repositories

import "context"

// ===== SHARED FILTER STRUCTS =====

type CourseFilters struct {
	Instructor *string `json:"instructor"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
	SortBy     string  `json:"sort_by"`    // "created_at", "title", "price"
	SortOrder  string  `json:"sort_order"` // "asc", "desc"
}

// ===== AGGREGATE REPOSITORY =====

// Repository bundles the per-entity repositories so services depend on a
// single injected handle instead of a global store.
type Repository interface {
	Course() CourseRepository
	Lesson() LessonRepository
	Quiz() QuizRepository
	Progress() ProgressRepository
	User() UserRepository
}

// TransactionRepository is implemented by repositories that can scope all
// sub-repositories to one transaction. Begin returns a Repository whose
// writes commit or roll back as a unit; the completion and attempt paths
// rely on this so a set update is never visible without its recomputed
// aggregate.
type TransactionRepository interface {
	Repository
	Begin(ctx context.Context) (TransactionRepository, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
