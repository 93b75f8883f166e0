package repositories

import (
	"context"

	"harmonyhealth/internal/domain/models"
)

// PlanRepository defines data access for weekly plans.
// Every method is scoped by owner; rows of other users are never visible.
type PlanRepository interface {
	// Create inserts a plan and fills in ID and timestamps
	Create(ctx context.Context, plan *models.Plan) error

	// CreateBatch inserts all plans. Callers wrap it in a transaction for atomicity.
	CreateBatch(ctx context.Context, plans []models.Plan) ([]int64, error)

	// UpdateFields merges the supplied fields into the row (id, userID).
	// Returns ErrNotFound when no row matched.
	UpdateFields(ctx context.Context, id, userID int64, fields *models.PlanFields) (*models.Plan, error)

	// GetByID returns ErrNotFound when no row matched (id, userID)
	GetByID(ctx context.Context, id, userID int64) (*models.Plan, error)

	// List returns plans ordered by start_time ascending
	List(ctx context.Context, userID int64, filter models.PlanFilter) ([]models.Plan, error)

	// ListRecent returns the newest plans by creation time
	ListRecent(ctx context.Context, userID int64, limit int) ([]models.Plan, error)

	// CountCompleted returns the number of completed plans
	CountCompleted(ctx context.Context, userID int64) (int, error)

	// Delete removes one row and returns the number of rows affected
	Delete(ctx context.Context, id, userID int64) (int64, error)

	// DeleteAll removes every plan of the user, optionally for one day only
	DeleteAll(ctx context.Context, userID int64, dayOfWeek *int) (int64, error)
}
