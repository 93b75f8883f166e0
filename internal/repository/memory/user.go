package memory

import (
	"context"
	"fmt"

	"harmonyhealth/internal/domain"
	"harmonyhealth/internal/domain/models"
	"harmonyhealth/internal/domain/repositories"
)

// UserRepository implements repositories.UserRepository
type UserRepository struct{ s *Store }

// NewUserRepository creates a user repository over s
func NewUserRepository(s *Store) repositories.UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer r.s.lockWrite(ctx)()

	for _, u := range r.s.data.users {
		if u.Username == user.Username {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("username %q is already taken", user.Username),
				ResourceType: "user",
				ResourceID:   fmt.Sprint(u.ID),
			}
		}
	}

	user.ID = r.s.id()
	user.CreatedAt = r.s.now()
	r.s.data.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.data.users[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: "user not found"}
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.data.users {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, &domain.NotFoundError{Message: "user not found"}
}

func (r *UserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	_, ok := r.s.data.users[id]
	return ok, nil
}
