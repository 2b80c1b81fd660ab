package services

import (
	"context"
	"fmt"

	"github.com/learnlite/course-platform/internal/repositories"
)

// EnrollmentGate authorizes a user against a course's enrollment set. It is
// a pure check with no side effects; every enrollment-scoped completion,
// attempt, or progress-view operation passes through it first.
type EnrollmentGate struct {
	repo repositories.Repository
}

func NewEnrollmentGate(repo repositories.Repository) *EnrollmentGate {
	return &EnrollmentGate{repo: repo}
}

// Authorize returns ErrNotEnrolled when userID is not a member of the
// course's enrollment set.
func (g *EnrollmentGate) Authorize(ctx context.Context, courseID uint, userID string) error {
	enrolled, err := g.repo.Course().IsEnrolled(ctx, courseID, userID)
	if err != nil {
		return fmt.Errorf("failed to check enrollment: %w", err)
	}
	if !enrolled {
		return ErrNotEnrolled
	}
	return nil
}
