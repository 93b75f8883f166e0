package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates all tables and indexes if they do not exist
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	statements := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				username VARCHAR(150) NOT NULL UNIQUE,
				email VARCHAR(254) NOT NULL DEFAULT '',
				password_hash TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				user_id BIGINT PRIMARY KEY REFERENCES %s(id) ON DELETE CASCADE,
				height DOUBLE PRECISION NOT NULL DEFAULT 170.0,
				weight DOUBLE PRECISION NOT NULL DEFAULT 55.0,
				age INTEGER NOT NULL DEFAULT 21,
				gender VARCHAR(10) NOT NULL DEFAULT 'male',
				information TEXT NOT NULL DEFAULT '',
				target TEXT NOT NULL DEFAULT '',
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Profiles, tables.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				title VARCHAR(200) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				day_of_week SMALLINT NOT NULL CHECK (day_of_week BETWEEN 1 AND 7),
				start_time TIME NOT NULL,
				end_time TIME NOT NULL,
				is_completed BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Plans, tables.Users),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_user_day ON %s(user_id, day_of_week, start_time)`, tables.Plans, tables.Plans),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				name VARCHAR(100) NOT NULL UNIQUE,
				category VARCHAR(50) NOT NULL DEFAULT '',
				calories DOUBLE PRECISION NOT NULL,
				protein DOUBLE PRECISION NOT NULL,
				carbohydrates DOUBLE PRECISION NOT NULL,
				fat DOUBLE PRECISION NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Foods),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				meal_date DATE NOT NULL,
				meal_type VARCHAR(20) NOT NULL,
				total_calories DOUBLE PRECISION NOT NULL DEFAULT 0,
				total_protein DOUBLE PRECISION NOT NULL DEFAULT 0,
				total_carbohydrates DOUBLE PRECISION NOT NULL DEFAULT 0,
				total_fat DOUBLE PRECISION NOT NULL DEFAULT 0,
				UNIQUE (user_id, meal_date, meal_type)
			)`, tables.Meals, tables.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				meal_id BIGINT NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				food_id BIGINT NOT NULL REFERENCES %s(id),
				weight DOUBLE PRECISION NOT NULL CHECK (weight > 0),
				calories DOUBLE PRECISION NOT NULL,
				protein DOUBLE PRECISION NOT NULL,
				carbohydrates DOUBLE PRECISION NOT NULL,
				fat DOUBLE PRECISION NOT NULL
			)`, tables.MealItems, tables.Meals, tables.Foods),
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	return nil
}

// DropAllTables drops every table, children first
func DropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	all := tables.All()
	for i := len(all) - 1; i >= 0; i-- {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", all[i])); err != nil {
			return fmt.Errorf("drop %s: %w", all[i], err)
		}
	}
	return nil
}
