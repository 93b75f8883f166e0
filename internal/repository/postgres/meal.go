package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"harmonyhealth/internal/domain"
	"harmonyhealth/internal/domain/models"
	"harmonyhealth/internal/domain/repositories"
)

// PostgresMealRepository implements the MealRepository interface
type PostgresMealRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewMealRepository creates a new PostgresMealRepository
func NewMealRepository(config *RepositoryConfig) repositories.MealRepository {
	return &PostgresMealRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func (r *PostgresMealRepository) GetOrCreate(ctx context.Context, userID int64, date time.Time, mealType string) (*models.Meal, error) {
	// The no-op update makes RETURNING yield the existing row on conflict
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, meal_date, meal_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, meal_date, meal_type) DO UPDATE SET meal_type = EXCLUDED.meal_type
		RETURNING id, user_id, meal_date, meal_type,
		          total_calories, total_protein, total_carbohydrates, total_fat
	`, r.tables.Meals)

	var m models.Meal
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID, date, mealType).Scan(
		&m.ID, &m.UserID, &m.Date, &m.MealType,
		&m.Totals.Calories, &m.Totals.Protein, &m.Totals.Carbohydrates, &m.Totals.Fat,
	)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return nil, &domain.NotFoundError{Message: "user not found"}
		}
		return nil, fmt.Errorf("get or create meal: %w", err)
	}
	return &m, nil
}

func (r *PostgresMealRepository) AddItem(ctx context.Context, item *models.MealItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (meal_id, food_id, weight, calories, protein, carbohydrates, fat)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, r.tables.MealItems)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		item.MealID, item.FoodID, item.WeightGrams,
		item.Nutrients.Calories, item.Nutrients.Protein, item.Nutrients.Carbohydrates, item.Nutrients.Fat,
	).Scan(&item.ID)
	if err != nil {
		if verr := checkViolationError(err, "meal item"); verr != nil {
			return verr
		}
		return fmt.Errorf("add meal item: %w", err)
	}
	return nil
}

func (r *PostgresMealRepository) GetItem(ctx context.Context, itemID, userID int64) (*models.MealItem, error) {
	query := fmt.Sprintf(`
		SELECT i.id, i.meal_id, i.food_id, f.name, i.weight,
		       i.calories, i.protein, i.carbohydrates, i.fat
		FROM %s i
		JOIN %s m ON m.id = i.meal_id
		JOIN %s f ON f.id = i.food_id
		WHERE i.id = $1 AND m.user_id = $2
	`, r.tables.MealItems, r.tables.Meals, r.tables.Foods)

	var item models.MealItem
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, itemID, userID).Scan(
		&item.ID, &item.MealID, &item.FoodID, &item.FoodName, &item.WeightGrams,
		&item.Nutrients.Calories, &item.Nutrients.Protein, &item.Nutrients.Carbohydrates, &item.Nutrients.Fat,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("meal item %d not found", itemID)}
		}
		return nil, fmt.Errorf("get meal item: %w", err)
	}
	return &item, nil
}

func (r *PostgresMealRepository) UpdateItem(ctx context.Context, item *models.MealItem) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET weight = $2, calories = $3, protein = $4, carbohydrates = $5, fat = $6
		WHERE id = $1
	`, r.tables.MealItems)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query,
		item.ID, item.WeightGrams,
		item.Nutrients.Calories, item.Nutrients.Protein, item.Nutrients.Carbohydrates, item.Nutrients.Fat,
	)
	if err != nil {
		if verr := checkViolationError(err, "meal item"); verr != nil {
			return verr
		}
		return fmt.Errorf("update meal item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("meal item %d not found", item.ID)}
	}
	return nil
}

func (r *PostgresMealRepository) DeleteItem(ctx context.Context, itemID, userID int64) (int64, error) {
	query := fmt.Sprintf(`
		DELETE FROM %s i
		USING %s m
		WHERE i.meal_id = m.id AND i.id = $1 AND m.user_id = $2
	`, r.tables.MealItems, r.tables.Meals)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, itemID, userID)
	if err != nil {
		return 0, fmt.Errorf("delete meal item: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresMealRepository) RecomputeTotals(ctx context.Context, mealID int64) error {
	query := fmt.Sprintf(`
		UPDATE %s m SET
			total_calories = COALESCE(s.calories, 0),
			total_protein = COALESCE(s.protein, 0),
			total_carbohydrates = COALESCE(s.carbohydrates, 0),
			total_fat = COALESCE(s.fat, 0)
		FROM (
			SELECT ROUND(SUM(calories)::numeric, 2)::float8 AS calories,
			       ROUND(SUM(protein)::numeric, 2)::float8 AS protein,
			       ROUND(SUM(carbohydrates)::numeric, 2)::float8 AS carbohydrates,
			       ROUND(SUM(fat)::numeric, 2)::float8 AS fat
			FROM %s WHERE meal_id = $1
		) s
		WHERE m.id = $1
	`, r.tables.Meals, r.tables.MealItems)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, mealID); err != nil {
		return fmt.Errorf("recompute meal totals: %w", err)
	}
	return nil
}

func (r *PostgresMealRepository) ListByDate(ctx context.Context, userID int64, date time.Time) ([]models.Meal, error) {
	query := fmt.Sprintf(`
		SELECT m.id, m.user_id, m.meal_date, m.meal_type,
		       m.total_calories, m.total_protein, m.total_carbohydrates, m.total_fat,
		       i.id, i.food_id, f.name, i.weight,
		       i.calories, i.protein, i.carbohydrates, i.fat
		FROM %s m
		LEFT JOIN %s i ON i.meal_id = m.id
		LEFT JOIN %s f ON f.id = i.food_id
		WHERE m.user_id = $1 AND m.meal_date = $2
		ORDER BY m.id, i.id
	`, r.tables.Meals, r.tables.MealItems, r.tables.Foods)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	defer rows.Close()

	meals := []models.Meal{}
	for rows.Next() {
		var (
			m                   models.Meal
			itemID, foodID      *int64
			foodName            *string
			weight              *float64
			cal, pro, carb, fat *float64
		)
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.Date, &m.MealType,
			&m.Totals.Calories, &m.Totals.Protein, &m.Totals.Carbohydrates, &m.Totals.Fat,
			&itemID, &foodID, &foodName, &weight,
			&cal, &pro, &carb, &fat,
		); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}

		if len(meals) == 0 || meals[len(meals)-1].ID != m.ID {
			m.Items = []models.MealItem{}
			meals = append(meals, m)
		}
		if itemID == nil {
			continue
		}
		current := &meals[len(meals)-1]
		current.Items = append(current.Items, models.MealItem{
			ID:          *itemID,
			MealID:      m.ID,
			FoodID:      *foodID,
			FoodName:    *foodName,
			WeightGrams: *weight,
			Nutrients: models.Nutrients{
				Calories:      *cal,
				Protein:       *pro,
				Carbohydrates: *carb,
				Fat:           *fat,
			},
		})
	}
	return meals, rows.Err()
}
