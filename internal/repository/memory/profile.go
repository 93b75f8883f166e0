package memory

import (
	"context"

	"harmonyhealth/internal/domain"
	"harmonyhealth/internal/domain/models"
	"harmonyhealth/internal/domain/repositories"
)

// ProfileRepository implements repositories.ProfileRepository
type ProfileRepository struct{ s *Store }

// NewProfileRepository creates a profile repository over s
func NewProfileRepository(s *Store) repositories.ProfileRepository {
	return &ProfileRepository{s: s}
}

func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.users[profile.UserID]; !ok {
		return &domain.NotFoundError{Message: "user not found"}
	}
	if _, ok := r.s.data.profiles[profile.UserID]; ok {
		return &domain.ConflictError{Message: "profile already exists", ResourceType: "profile"}
	}
	r.s.data.profiles[profile.UserID] = *profile
	return nil
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.data.profiles[userID]
	if !ok {
		return nil, &domain.NotFoundError{Message: "profile not found"}
	}
	return &p, nil
}

func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.profiles[profile.UserID]; !ok {
		return &domain.NotFoundError{Message: "profile not found"}
	}
	r.s.data.profiles[profile.UserID] = *profile
	return nil
}
