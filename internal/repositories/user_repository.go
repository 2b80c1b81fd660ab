package repositories

import (
	"context"

	"github.com/learnlite/course-platform/internal/models"
)

// UserRepository interface for user operations (this service is not the
// owner of user data; rows mirror the auth provider's identities)
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	// Upsert refreshes the local mirror from the asserted identity.
	Upsert(ctx context.Context, user *models.User) error
}
