package services

import (
	"context"

	"harmonyhealth/internal/domain/models"
)

// PlanService is the reconciliation service for weekly plans. Each method is
// atomic with respect to the rows it touches.
type PlanService interface {
	// UpsertPlan partially updates plan id when set, otherwise creates a plan
	// from fields (title, day_of_week, start_time, end_time required).
	UpsertPlan(ctx context.Context, userID int64, fields *models.PlanFields, id *int64) (*models.PlanUpsertOutcome, error)

	ListPlans(ctx context.Context, userID int64, filter models.PlanFilter) (*models.PlanList, error)

	// DeletePlan returns ErrNotFound when the plan is not the user's
	DeletePlan(ctx context.Context, userID, planID int64) error

	// DeleteAllPlans returns the number of deleted rows; zero is not an error
	DeleteAllPlans(ctx context.Context, userID int64, dayOfWeek *int) (int, error)

	// BulkCreate validates every element before inserting any of them
	BulkCreate(ctx context.Context, userID int64, plans []models.PlanFields) (*models.PlanBulkOutcome, error)

	RecentPlans(ctx context.Context, userID int64, limit int) ([]models.Plan, error)
	CompletedCount(ctx context.Context, userID int64) (int, error)
	WeeklySummary(ctx context.Context, userID int64) (*models.WeeklySummary, error)
	SetCompleted(ctx context.Context, userID, planID int64, completed bool) (*models.Plan, error)
}
