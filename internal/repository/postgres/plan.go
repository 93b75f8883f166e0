package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"harmonyhealth/internal/domain"
	"harmonyhealth/internal/domain/models"
	"harmonyhealth/internal/domain/repositories"
)

const planColumns = `id, user_id, title, description, day_of_week, start_time, end_time, is_completed, created_at, updated_at`

// PostgresPlanRepository implements the PlanRepository interface
type PostgresPlanRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewPlanRepository creates a new PostgresPlanRepository
func NewPlanRepository(config *RepositoryConfig) repositories.PlanRepository {
	return &PostgresPlanRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func (r *PostgresPlanRepository) Create(ctx context.Context, plan *models.Plan) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, title, description, day_of_week, start_time, end_time, is_completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, r.tables.Plans)

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		plan.UserID,
		plan.Title,
		plan.Description,
		plan.DayOfWeek,
		toPgTime(plan.StartTime),
		toPgTime(plan.EndTime),
		plan.IsCompleted,
	).Scan(&plan.ID, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: "user not found"}
		}
		if verr := checkViolationError(err, "plan"); verr != nil {
			return verr
		}
		return fmt.Errorf("create plan: %w", err)
	}

	return nil
}

func (r *PostgresPlanRepository) CreateBatch(ctx context.Context, plans []models.Plan) ([]int64, error) {
	ids := make([]int64, 0, len(plans))
	for i := range plans {
		if err := r.Create(ctx, &plans[i]); err != nil {
			return nil, fmt.Errorf("plan %d: %w", i, err)
		}
		ids = append(ids, plans[i].ID)
	}
	return ids, nil
}

func (r *PostgresPlanRepository) UpdateFields(ctx context.Context, id, userID int64, fields *models.PlanFields) (*models.Plan, error) {
	args := []interface{}{id, userID}
	var sets []string
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if fields.Title != nil {
		set("title", *fields.Title)
	}
	if fields.Description != nil {
		set("description", *fields.Description)
	}
	if fields.DayOfWeek != nil {
		set("day_of_week", *fields.DayOfWeek)
	}
	if fields.StartTime != nil {
		set("start_time", toPgTime(*fields.StartTime))
	}
	if fields.EndTime != nil {
		set("end_time", toPgTime(*fields.EndTime))
	}
	if fields.IsCompleted != nil {
		set("is_completed", *fields.IsCompleted)
	}
	if len(sets) == 0 {
		return nil, &domain.ValidationError{Message: "no fields to update"}
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s
		WHERE id = $1 AND user_id = $2
		RETURNING %s
	`, r.tables.Plans, strings.Join(sets, ", "), planColumns)

	executor := GetExecutor(ctx, r.pool)
	plan, err := scanPlan(executor.QueryRow(ctx, query, args...))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("plan %d not found", id)}
		}
		if verr := checkViolationError(err, "plan"); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("update plan: %w", err)
	}
	return plan, nil
}

func (r *PostgresPlanRepository) GetByID(ctx context.Context, id, userID int64) (*models.Plan, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND user_id = $2`, planColumns, r.tables.Plans)

	executor := GetExecutor(ctx, r.pool)
	plan, err := scanPlan(executor.QueryRow(ctx, query, id, userID))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("plan %d not found", id)}
		}
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return plan, nil
}

func (r *PostgresPlanRepository) List(ctx context.Context, userID int64, filter models.PlanFilter) ([]models.Plan, error) {
	args := []interface{}{userID}
	where := []string{"user_id = $1"}
	add := func(cond string, value interface{}) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if filter.DayOfWeek != nil {
		add("day_of_week = $%d", *filter.DayOfWeek)
	}
	if filter.CreatedAfter != nil {
		add("created_at >= $%d", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		// Inclusive of the whole "before" day
		add("created_at < $%d", filter.CreatedBefore.Add(24*time.Hour))
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY start_time ASC, id ASC`,
		planColumns, r.tables.Plans, strings.Join(where, " AND "))

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return r.queryPlans(ctx, query, args...)
}

func (r *PostgresPlanRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]models.Plan, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, planColumns, r.tables.Plans)

	return r.queryPlans(ctx, query, userID, limit)
}

func (r *PostgresPlanRepository) CountCompleted(ctx context.Context, userID int64) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE user_id = $1 AND is_completed`, r.tables.Plans)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count completed plans: %w", err)
	}
	return count, nil
}

func (r *PostgresPlanRepository) Delete(ctx context.Context, id, userID int64) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, r.tables.Plans)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, id, userID)
	if err != nil {
		return 0, fmt.Errorf("delete plan: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresPlanRepository) DeleteAll(ctx context.Context, userID int64, dayOfWeek *int) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1`, r.tables.Plans)
	args := []interface{}{userID}
	if dayOfWeek != nil {
		query += " AND day_of_week = $2"
		args = append(args, *dayOfWeek)
	}

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete plans: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PostgresPlanRepository) queryPlans(ctx context.Context, query string, args ...interface{}) ([]models.Plan, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	plans := []models.Plan{}
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, *plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plans: %w", err)
	}
	return plans, nil
}

func scanPlan(row pgx.Row) (*models.Plan, error) {
	var (
		plan       models.Plan
		start, end pgtype.Time
	)
	err := row.Scan(
		&plan.ID,
		&plan.UserID,
		&plan.Title,
		&plan.Description,
		&plan.DayOfWeek,
		&start,
		&end,
		&plan.IsCompleted,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	plan.StartTime = models.ClockTimeFromMicroseconds(start.Microseconds)
	plan.EndTime = models.ClockTimeFromMicroseconds(end.Microseconds)
	return &plan, nil
}

func toPgTime(c models.ClockTime) pgtype.Time {
	return pgtype.Time{Microseconds: c.Microseconds(), Valid: true}
}
