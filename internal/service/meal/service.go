package meal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"harmonyhealth/internal/domain"
	"harmonyhealth/internal/domain/models"
	"harmonyhealth/internal/domain/repositories"
	"harmonyhealth/internal/domain/services"
	"harmonyhealth/internal/service/profile"
)

// maxItemWeight is the heaviest single portion accepted, in grams
const maxItemWeight = 5000.0

// mealService implements the MealService interface
type mealService struct {
	foodRepo    repositories.FoodRepository
	mealRepo    repositories.MealRepository
	profileRepo repositories.ProfileRepository
	txManager   repositories.TransactionManager
	logger      *slog.Logger
	now         func() time.Time
}

// NewMealService creates a new meal service
func NewMealService(
	foodRepo repositories.FoodRepository,
	mealRepo repositories.MealRepository,
	profileRepo repositories.ProfileRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.MealService {
	return &mealService{
		foodRepo:    foodRepo,
		mealRepo:    mealRepo,
		profileRepo: profileRepo,
		txManager:   txManager,
		logger:      logger,
		now:         time.Now,
	}
}

func (s *mealService) ListFoods(ctx context.Context, query, category string) ([]models.Food, error) {
	foods, err := s.foodRepo.List(ctx, strings.TrimSpace(query), strings.TrimSpace(category))
	if err != nil {
		return nil, err
	}
	if foods == nil {
		foods = []models.Food{}
	}
	return foods, nil
}

func (s *mealService) AddFood(ctx context.Context, userID int64, req *services.AddFoodRequest) (*models.MealItem, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.MealType, validation.Required, validation.In(mealTypeValues()...)),
		validation.Field(&req.FoodID, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.Weight, validation.Required, validation.Min(0.1), validation.Max(maxItemWeight)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	date, err := s.parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	var item *models.MealItem
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		food, err := s.foodRepo.GetByID(txCtx, req.FoodID)
		if err != nil {
			return err
		}

		meal, err := s.mealRepo.GetOrCreate(txCtx, userID, date, req.MealType)
		if err != nil {
			return err
		}

		item = &models.MealItem{
			MealID:      meal.ID,
			FoodID:      food.ID,
			FoodName:    food.Name,
			WeightGrams: req.Weight,
			Nutrients:   food.Per100g.Scale(req.Weight / 100),
		}
		if err := s.mealRepo.AddItem(txCtx, item); err != nil {
			return err
		}
		return s.mealRepo.RecomputeTotals(txCtx, meal.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("food added to meal",
		"user_id", userID,
		"meal_id", item.MealID,
		"food_id", item.FoodID,
		"weight", item.WeightGrams,
	)

	return item, nil
}

func (s *mealService) RemoveFood(ctx context.Context, userID, itemID int64) error {
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		item, err := s.mealRepo.GetItem(txCtx, itemID, userID)
		if err != nil {
			return err
		}

		deleted, err := s.mealRepo.DeleteItem(txCtx, itemID, userID)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return &domain.NotFoundError{Message: fmt.Sprintf("meal item %d not found", itemID)}
		}
		return s.mealRepo.RecomputeTotals(txCtx, item.MealID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("food removed from meal", "user_id", userID, "item_id", itemID)
	return nil
}

func (s *mealService) UpdateFoodWeight(ctx context.Context, userID, itemID int64, weight float64) (*models.MealItem, error) {
	if err := validation.Validate(weight, validation.Required, validation.Min(0.1), validation.Max(maxItemWeight)); err != nil {
		return nil, fmt.Errorf("%w: weight: %v", domain.ErrValidation, err)
	}

	var item *models.MealItem
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		item, err = s.mealRepo.GetItem(txCtx, itemID, userID)
		if err != nil {
			return err
		}

		food, err := s.foodRepo.GetByID(txCtx, item.FoodID)
		if err != nil {
			return err
		}

		item.WeightGrams = weight
		item.Nutrients = food.Per100g.Scale(weight / 100)
		if err := s.mealRepo.UpdateItem(txCtx, item); err != nil {
			return err
		}
		return s.mealRepo.RecomputeTotals(txCtx, item.MealID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("meal item weight updated", "user_id", userID, "item_id", itemID, "weight", weight)
	return item, nil
}

func (s *mealService) DailyMeals(ctx context.Context, userID int64, date string) (*models.DailyMeals, error) {
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}

	meals, err := s.mealRepo.ListByDate(ctx, userID, day)
	if err != nil {
		return nil, err
	}

	byType := make(map[string]models.Meal, len(meals))
	for _, m := range meals {
		byType[m.MealType] = m
	}

	daily := &models.DailyMeals{
		Date:  day.Format(models.DateLayout),
		Meals: make([]models.Meal, 0, len(meals)),
	}
	for _, mealType := range models.MealTypes {
		m, ok := byType[mealType]
		if !ok {
			continue
		}
		if m.Items == nil {
			m.Items = []models.MealItem{}
		}
		daily.Meals = append(daily.Meals, m)
		daily.Totals = daily.Totals.Add(m.Totals)
	}

	p, err := s.profileRepo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		if metrics, err := profile.ComputeMetrics(p); err == nil {
			daily.Recommended = &metrics.RecommendedDiet
		}
	case errors.Is(err, domain.ErrNotFound):
		// No profile yet; the view simply has no targets
	default:
		return nil, err
	}

	return daily, nil
}

// parseDate accepts YYYY-MM-DD and defaults to today
func (s *mealService) parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		now := s.now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	d, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Message: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", value)}
	}
	return d, nil
}

func mealTypeValues() []interface{} {
	values := make([]interface{}, len(models.MealTypes))
	for i, t := range models.MealTypes {
		values[i] = t
	}
	return values
}
