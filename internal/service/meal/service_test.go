package meal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harmonyhealth/internal/domain"
	"harmonyhealth/internal/domain/models"
	"harmonyhealth/internal/domain/services"
	"harmonyhealth/internal/repository/memory"
)

type fixture struct {
	svc    *mealService
	userID int64
	rice   *models.Food
	egg    *models.Food
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	profiles := memory.NewProfileRepository(store)
	foods := memory.NewFoodRepository(store)

	user := &models.User{Username: "carol"}
	require.NoError(t, users.Create(ctx, user))
	require.NoError(t, profiles.Create(ctx, models.NewDefaultProfile(user.ID)))

	rice := &models.Food{Name: "米饭", Category: "主食", Per100g: models.Nutrients{Calories: 116, Protein: 2.6, Carbohydrates: 25.9, Fat: 0.3}}
	egg := &models.Food{Name: "鸡蛋", Category: "蛋类", Per100g: models.Nutrients{Calories: 144, Protein: 13.3, Carbohydrates: 2.8, Fat: 8.8}}
	require.NoError(t, foods.Upsert(ctx, rice))
	require.NoError(t, foods.Upsert(ctx, egg))

	svc := NewMealService(
		foods,
		memory.NewMealRepository(store),
		profiles,
		memory.NewTransactionManager(store),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	).(*mealService)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC) }

	return &fixture{svc: svc, userID: user.ID, rice: rice, egg: egg}
}

func TestAddFood_ScalesNutrients(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item, err := f.svc.AddFood(ctx, f.userID, &services.AddFoodRequest{
		MealType: models.MealLunch,
		FoodID:   f.rice.ID,
		Weight:   150,
	})
	require.NoError(t, err)
	assert.Equal(t, "米饭", item.FoodName)
	assert.Equal(t, 174.0, item.Nutrients.Calories)
	assert.Equal(t, 38.85, item.Nutrients.Carbohydrates)

	daily, err := f.svc.DailyMeals(ctx, f.userID, "")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", daily.Date)
	require.Len(t, daily.Meals, 1)
	assert.Equal(t, 174.0, daily.Meals[0].Totals.Calories)
	require.NotNil(t, daily.Recommended)
}

func TestAddFood_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  services.AddFoodRequest
	}{
		{"bad meal type", services.AddFoodRequest{MealType: "brunch", FoodID: f.rice.ID, Weight: 100}},
		{"zero weight", services.AddFoodRequest{MealType: models.MealLunch, FoodID: f.rice.ID}},
		{"huge weight", services.AddFoodRequest{MealType: models.MealLunch, FoodID: f.rice.ID, Weight: 9000}},
		{"bad date", services.AddFoodRequest{Date: "10/03/2025", MealType: models.MealLunch, FoodID: f.rice.ID, Weight: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.svc.AddFood(ctx, f.userID, &req)
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}

	_, err := f.svc.AddFood(ctx, f.userID, &services.AddFoodRequest{MealType: models.MealLunch, FoodID: 9999, Weight: 100})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDailyMeals_OrderAndTotals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, req := range []services.AddFoodRequest{
		{Date: "2025-03-09", MealType: models.MealDinner, FoodID: f.rice.ID, Weight: 100},
		{Date: "2025-03-09", MealType: models.MealBreakfast, FoodID: f.egg.ID, Weight: 50},
		{Date: "2025-03-09", MealType: models.MealBreakfast, FoodID: f.rice.ID, Weight: 100},
	} {
		req := req
		_, err := f.svc.AddFood(ctx, f.userID, &req)
		require.NoError(t, err)
	}

	daily, err := f.svc.DailyMeals(ctx, f.userID, "2025-03-09")
	require.NoError(t, err)
	require.Len(t, daily.Meals, 2)
	assert.Equal(t, models.MealBreakfast, daily.Meals[0].MealType)
	assert.Len(t, daily.Meals[0].Items, 2)
	assert.Equal(t, models.MealDinner, daily.Meals[1].MealType)
	// 72 + 116 + 116
	assert.Equal(t, 304.0, daily.Totals.Calories)
}

func TestUpdateAndRemoveFood(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	item, err := f.svc.AddFood(ctx, f.userID, &services.AddFoodRequest{MealType: models.MealSnack, FoodID: f.egg.ID, Weight: 100})
	require.NoError(t, err)

	updated, err := f.svc.UpdateFoodWeight(ctx, f.userID, item.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, 72.0, updated.Nutrients.Calories)

	daily, err := f.svc.DailyMeals(ctx, f.userID, "")
	require.NoError(t, err)
	assert.Equal(t, 72.0, daily.Totals.Calories)

	_, err = f.svc.UpdateFoodWeight(ctx, f.userID+1, item.ID, 20)
	assert.True(t, errors.Is(err, domain.ErrNotFound), "other users cannot touch the item")

	require.NoError(t, f.svc.RemoveFood(ctx, f.userID, item.ID))
	daily, err = f.svc.DailyMeals(ctx, f.userID, "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, daily.Totals.Calories)

	err = f.svc.RemoveFood(ctx, f.userID, item.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListFoods(t *testing.T) {
	f := newFixture(t)

	foods, err := f.svc.ListFoods(context.Background(), "鸡", "")
	require.NoError(t, err)
	require.Len(t, foods, 1)
	assert.Equal(t, "鸡蛋", foods[0].Name)

	foods, err = f.svc.ListFoods(context.Background(), "", "none")
	require.NoError(t, err)
	assert.Empty(t, foods)
}
