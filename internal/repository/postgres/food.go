package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"harmonyhealth/internal/domain"
	"harmonyhealth/internal/domain/models"
	"harmonyhealth/internal/domain/repositories"
)

// PostgresFoodRepository implements the FoodRepository interface
type PostgresFoodRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewFoodRepository creates a new PostgresFoodRepository
func NewFoodRepository(config *RepositoryConfig) repositories.FoodRepository {
	return &PostgresFoodRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func (r *PostgresFoodRepository) GetByID(ctx context.Context, id int64) (*models.Food, error) {
	query := fmt.Sprintf(`
		SELECT id, name, category, calories, protein, carbohydrates, fat, created_at
		FROM %s WHERE id = $1
	`, r.tables.Foods)

	var f models.Food
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.Name, &f.Category,
		&f.Per100g.Calories, &f.Per100g.Protein, &f.Per100g.Carbohydrates, &f.Per100g.Fat,
		&f.CreatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("food %d not found", id)}
		}
		return nil, fmt.Errorf("get food: %w", err)
	}
	return &f, nil
}

func (r *PostgresFoodRepository) List(ctx context.Context, query, category string) ([]models.Food, error) {
	args := []interface{}{}
	var where []string
	if q := strings.TrimSpace(query); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if category != "" {
		args = append(args, category)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}

	sql := fmt.Sprintf(`SELECT id, name, category, calories, protein, carbohydrates, fat, created_at FROM %s`, r.tables.Foods)
	if len(where) > 0 {
		sql += " WHERE " + strings.Join(where, " AND ")
	}
	sql += " ORDER BY category, name"

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	defer rows.Close()

	foods := []models.Food{}
	for rows.Next() {
		var f models.Food
		if err := rows.Scan(
			&f.ID, &f.Name, &f.Category,
			&f.Per100g.Calories, &f.Per100g.Protein, &f.Per100g.Carbohydrates, &f.Per100g.Fat,
			&f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan food: %w", err)
		}
		foods = append(foods, f)
	}
	return foods, rows.Err()
}

func (r *PostgresFoodRepository) Upsert(ctx context.Context, f *models.Food) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, category, calories, protein, carbohydrates, fat)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name) DO UPDATE SET
			category = EXCLUDED.category,
			calories = EXCLUDED.calories,
			protein = EXCLUDED.protein,
			carbohydrates = EXCLUDED.carbohydrates,
			fat = EXCLUDED.fat
		RETURNING id, created_at
	`, r.tables.Foods)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		f.Name, f.Category, f.Per100g.Calories, f.Per100g.Protein, f.Per100g.Carbohydrates, f.Per100g.Fat,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert food: %w", err)
	}
	return nil
}
