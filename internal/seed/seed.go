// Package seed loads the food catalog and the demo account into any store
// that implements the repository interfaces.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"harmonyhealth/internal/domain"
	"harmonyhealth/internal/domain/models"
	"harmonyhealth/internal/domain/repositories"
	"harmonyhealth/internal/domain/services"
)

// Seeder handles seeding of reference and demo data
type Seeder struct {
	foods  repositories.FoodRepository
	auth   services.AuthService
	logger *slog.Logger
}

// NewSeeder creates a new seeder
func NewSeeder(foods repositories.FoodRepository, auth services.AuthService, logger *slog.Logger) *Seeder {
	return &Seeder{
		foods:  foods,
		auth:   auth,
		logger: logger,
	}
}

// SeedFoods upserts the catalog by name, so running it twice is harmless
func (s *Seeder) SeedFoods(ctx context.Context) (int, error) {
	catalog := Catalog()
	for i := range catalog {
		if err := s.foods.Upsert(ctx, &catalog[i]); err != nil {
			return i, fmt.Errorf("seed food %s: %w", catalog[i].Name, err)
		}
	}
	s.logger.Info("food catalog seeded", "count", len(catalog))
	return len(catalog), nil
}

// SeedDemoUser registers the demo account. An existing account is left alone.
func (s *Seeder) SeedDemoUser(ctx context.Context, username, password string) (*models.User, error) {
	result, err := s.auth.Register(ctx, &services.RegisterRequest{
		Username: username,
		Password: password,
	})
	if errors.Is(err, domain.ErrConflict) {
		s.logger.Info("demo user already exists", "username", username)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("seed demo user: %w", err)
	}

	s.logger.Info("demo user created", "username", username, "id", result.User.ID)
	return result.User, nil
}
