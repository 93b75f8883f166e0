package repositories

import (
	"context"

	"harmonyhealth/internal/domain/models"
)

// UserRepository defines data access for accounts
type UserRepository interface {
	// Create inserts a user and fills in ID and CreatedAt.
	// Returns a ConflictError if the username is taken.
	Create(ctx context.Context, user *models.User) error

	// GetByID returns ErrNotFound if the user does not exist
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByUsername returns ErrNotFound if the user does not exist
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Exists reports whether a user row exists
	Exists(ctx context.Context, id int64) (bool, error)
}
