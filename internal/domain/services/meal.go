package services

import (
	"context"

	"harmonyhealth/internal/domain/models"
)

// AddFoodRequest logs a food into one of the user's meals
type AddFoodRequest struct {
	Date     string  `json:"date"` // YYYY-MM-DD, defaults to today
	MealType string  `json:"meal_type"`
	FoodID   int64   `json:"food_id"`
	Weight   float64 `json:"weight"` // grams
}

// MealService manages the food catalog view and meal logging
type MealService interface {
	ListFoods(ctx context.Context, query, category string) ([]models.Food, error)
	AddFood(ctx context.Context, userID int64, req *AddFoodRequest) (*models.MealItem, error)
	RemoveFood(ctx context.Context, userID, itemID int64) error
	UpdateFoodWeight(ctx context.Context, userID, itemID int64, weight float64) (*models.MealItem, error)
	DailyMeals(ctx context.Context, userID int64, date string) (*models.DailyMeals, error)
}
