package repositories

import (
	"context"

	"harmonyhealth/internal/domain/models"
)

// ProfileRepository defines data access for user profiles
type ProfileRepository interface {
	// Create inserts the profile for a new user
	Create(ctx context.Context, profile *models.Profile) error

	// GetByUserID returns ErrNotFound if the user has no profile
	GetByUserID(ctx context.Context, userID int64) (*models.Profile, error)

	// Update overwrites all mutable columns. Returns ErrNotFound if no row matched.
	Update(ctx context.Context, profile *models.Profile) error
}
