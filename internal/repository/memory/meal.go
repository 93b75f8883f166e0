package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"harmonyhealth/internal/domain"
	"harmonyhealth/internal/domain/models"
	"harmonyhealth/internal/domain/repositories"
)

// FoodRepository implements repositories.FoodRepository
type FoodRepository struct{ s *Store }

// NewFoodRepository creates a food catalog over s
func NewFoodRepository(s *Store) repositories.FoodRepository {
	return &FoodRepository{s: s}
}

func (r *FoodRepository) GetByID(ctx context.Context, id int64) (*models.Food, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	f, ok := r.s.data.foods[id]
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("food %d not found", id)}
	}
	return &f, nil
}

func (r *FoodRepository) List(ctx context.Context, query, category string) ([]models.Food, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	q := strings.ToLower(strings.TrimSpace(query))
	foods := []models.Food{}
	for _, f := range r.s.data.foods {
		if q != "" && !strings.Contains(strings.ToLower(f.Name), q) {
			continue
		}
		if category != "" && f.Category != category {
			continue
		}
		foods = append(foods, f)
	}
	sort.Slice(foods, func(i, j int) bool {
		if foods[i].Category != foods[j].Category {
			return foods[i].Category < foods[j].Category
		}
		return foods[i].Name < foods[j].Name
	})
	return foods, nil
}

func (r *FoodRepository) Upsert(ctx context.Context, food *models.Food) error {
	defer r.s.lockWrite(ctx)()

	for id, f := range r.s.data.foods {
		if f.Name == food.Name {
			food.ID = id
			food.CreatedAt = f.CreatedAt
			r.s.data.foods[id] = *food
			return nil
		}
	}
	food.ID = r.s.id()
	food.CreatedAt = r.s.now()
	r.s.data.foods[food.ID] = *food
	return nil
}

// MealRepository implements repositories.MealRepository
type MealRepository struct{ s *Store }

// NewMealRepository creates a meal repository over s
func NewMealRepository(s *Store) repositories.MealRepository {
	return &MealRepository{s: s}
}

func (r *MealRepository) GetOrCreate(ctx context.Context, userID int64, date time.Time, mealType string) (*models.Meal, error) {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.users[userID]; !ok {
		return nil, &domain.NotFoundError{Message: "user not found"}
	}

	key := mealKey{userID: userID, date: date.Format(models.DateLayout), mealType: mealType}
	if id, ok := r.s.data.mealIdx[key]; ok {
		m := r.s.data.meals[id]
		return &m, nil
	}

	m := models.Meal{ID: r.s.id(), UserID: userID, Date: date, MealType: mealType}
	r.s.data.meals[m.ID] = m
	r.s.data.mealIdx[key] = m.ID
	return &m, nil
}

func (r *MealRepository) AddItem(ctx context.Context, item *models.MealItem) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.meals[item.MealID]; !ok {
		return &domain.NotFoundError{Message: "meal not found"}
	}
	f, ok := r.s.data.foods[item.FoodID]
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("food %d not found", item.FoodID)}
	}
	item.ID = r.s.id()
	item.FoodName = f.Name
	r.s.data.items[item.ID] = *item
	return nil
}

func (r *MealRepository) GetItem(ctx context.Context, itemID, userID int64) (*models.MealItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item, ok := r.ownedItem(itemID, userID)
	if !ok {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("meal item %d not found", itemID)}
	}
	return &item, nil
}

func (r *MealRepository) UpdateItem(ctx context.Context, item *models.MealItem) error {
	defer r.s.lockWrite(ctx)()

	existing, ok := r.s.data.items[item.ID]
	if !ok {
		return &domain.NotFoundError{Message: fmt.Sprintf("meal item %d not found", item.ID)}
	}
	existing.WeightGrams = item.WeightGrams
	existing.Nutrients = item.Nutrients
	r.s.data.items[item.ID] = existing
	return nil
}

func (r *MealRepository) DeleteItem(ctx context.Context, itemID, userID int64) (int64, error) {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.ownedItem(itemID, userID); !ok {
		return 0, nil
	}
	delete(r.s.data.items, itemID)
	return 1, nil
}

func (r *MealRepository) RecomputeTotals(ctx context.Context, mealID int64) error {
	defer r.s.lockWrite(ctx)()

	m, ok := r.s.data.meals[mealID]
	if !ok {
		return &domain.NotFoundError{Message: "meal not found"}
	}
	var totals models.Nutrients
	for _, item := range r.s.data.items {
		if item.MealID == mealID {
			totals = totals.Add(item.Nutrients)
		}
	}
	m.Totals = totals
	r.s.data.meals[mealID] = m
	return nil
}

func (r *MealRepository) ListByDate(ctx context.Context, userID int64, date time.Time) ([]models.Meal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	day := date.Format(models.DateLayout)
	meals := []models.Meal{}
	for _, m := range r.s.data.meals {
		if m.UserID != userID || m.Date.Format(models.DateLayout) != day {
			continue
		}
		m.Items = []models.MealItem{}
		for _, item := range r.s.data.items {
			if item.MealID == m.ID {
				m.Items = append(m.Items, item)
			}
		}
		sort.Slice(m.Items, func(i, j int) bool { return m.Items[i].ID < m.Items[j].ID })
		meals = append(meals, m)
	}
	sort.Slice(meals, func(i, j int) bool { return meals[i].ID < meals[j].ID })
	return meals, nil
}

// ownedItem requires r.s.mu
func (r *MealRepository) ownedItem(itemID, userID int64) (models.MealItem, bool) {
	item, ok := r.s.data.items[itemID]
	if !ok {
		return models.MealItem{}, false
	}
	m, ok := r.s.data.meals[item.MealID]
	if !ok || m.UserID != userID {
		return models.MealItem{}, false
	}
	return item, true
}
