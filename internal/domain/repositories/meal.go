package repositories

import (
	"context"
	"time"

	"harmonyhealth/internal/domain/models"
)

// FoodRepository defines read access to the food catalog
type FoodRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Food, error)
	List(ctx context.Context, query, category string) ([]models.Food, error)
	// Upsert inserts or refreshes a catalog entry by name (used by the seeder)
	Upsert(ctx context.Context, food *models.Food) error
}

// MealRepository defines data access for meal records and their items.
// Every method is scoped by owner.
type MealRepository interface {
	// GetOrCreate returns the meal for (user, date, type), creating an empty one if needed
	GetOrCreate(ctx context.Context, userID int64, date time.Time, mealType string) (*models.Meal, error)

	// AddItem inserts an item into a meal and fills in ID
	AddItem(ctx context.Context, item *models.MealItem) error

	// GetItem returns ErrNotFound when the item does not belong to the user
	GetItem(ctx context.Context, itemID, userID int64) (*models.MealItem, error)

	// UpdateItem rewrites the weight and nutrients of an item
	UpdateItem(ctx context.Context, item *models.MealItem) error

	// DeleteItem removes one item owned by the user, returning rows affected
	DeleteItem(ctx context.Context, itemID, userID int64) (int64, error)

	// RecomputeTotals sums the meal's items into its totals columns
	RecomputeTotals(ctx context.Context, mealID int64) error

	// ListByDate returns the user's meals for a day with items loaded
	ListByDate(ctx context.Context, userID int64, date time.Time) ([]models.Meal, error)
}
