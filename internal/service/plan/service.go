package plan

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"harmonyhealth/internal/config"
	"harmonyhealth/internal/domain"
	"harmonyhealth/internal/domain/models"
	"harmonyhealth/internal/domain/repositories"
	"harmonyhealth/internal/domain/services"
	"harmonyhealth/internal/sanitizer"
)

// maxRecentPlans caps the recent plans view
const maxRecentPlans = 50

var freeText = sanitizer.New()

// planService implements the PlanService interface
type planService struct {
	planRepo  repositories.PlanRepository
	userRepo  repositories.UserRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewPlanService creates a new plan service
func NewPlanService(
	planRepo repositories.PlanRepository,
	userRepo repositories.UserRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.PlanService {
	return &planService{
		planRepo:  planRepo,
		userRepo:  userRepo,
		txManager: txManager,
		logger:    logger,
	}
}

func (s *planService) UpsertPlan(ctx context.Context, userID int64, fields *models.PlanFields, id *int64) (*models.PlanUpsertOutcome, error) {
	if fields == nil {
		fields = &models.PlanFields{}
	}
	normalizeFields(fields)

	if id != nil {
		return s.updatePlan(ctx, userID, *id, fields)
	}
	return s.createPlan(ctx, userID, fields)
}

func (s *planService) updatePlan(ctx context.Context, userID, id int64, fields *models.PlanFields) (*models.PlanUpsertOutcome, error) {
	if fields.IsEmpty() {
		return nil, &domain.ValidationError{Message: "no fields to update"}
	}
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	plan, err := s.planRepo.UpdateFields(ctx, id, userID, fields)
	if err != nil {
		return nil, err
	}

	s.logger.Info("plan updated", "plan_id", id, "user_id", userID)

	return &models.PlanUpsertOutcome{Updated: 1, ID: plan.ID, Plan: plan}, nil
}

func (s *planService) createPlan(ctx context.Context, userID int64, fields *models.PlanFields) (*models.PlanUpsertOutcome, error) {
	if missing := fields.MissingRequired(); len(missing) > 0 {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
		}
	}
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	plan := newPlan(userID, fields)

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.requireUser(txCtx, userID); err != nil {
			return err
		}
		return s.planRepo.Create(txCtx, plan)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("plan created",
		"plan_id", plan.ID,
		"user_id", userID,
		"day_of_week", plan.DayOfWeek,
	)

	return &models.PlanUpsertOutcome{Created: 1, ID: plan.ID, Plan: plan}, nil
}

func (s *planService) ListPlans(ctx context.Context, userID int64, filter models.PlanFilter) (*models.PlanList, error) {
	if err := validateFilter(&filter); err != nil {
		return nil, err
	}

	plans, err := s.planRepo.List(ctx, userID, filter)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []models.Plan{}
	}

	return &models.PlanList{Plans: plans, Count: len(plans)}, nil
}

func (s *planService) DeletePlan(ctx context.Context, userID, planID int64) error {
	deleted, err := s.planRepo.Delete(ctx, planID, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("plan %d not found", planID)}
	}

	s.logger.Info("plan deleted", "plan_id", planID, "user_id", userID)
	return nil
}

func (s *planService) DeleteAllPlans(ctx context.Context, userID int64, dayOfWeek *int) (int, error) {
	if dayOfWeek != nil {
		if err := validation.Validate(*dayOfWeek, validation.Required, validation.Min(1), validation.Max(7)); err != nil {
			return 0, fmt.Errorf("%w: day_of_week: %v", domain.ErrValidation, err)
		}
	}

	deleted, err := s.planRepo.DeleteAll(ctx, userID, dayOfWeek)
	if err != nil {
		return 0, err
	}

	s.logger.Info("plans deleted", "user_id", userID, "count", deleted)
	return int(deleted), nil
}

func (s *planService) BulkCreate(ctx context.Context, userID int64, items []models.PlanFields) (*models.PlanBulkOutcome, error) {
	if len(items) == 0 {
		return nil, &domain.ValidationError{Message: "plans must not be empty"}
	}
	if len(items) > config.MaxBulkPlans {
		return nil, &domain.ValidationError{
			Message: fmt.Sprintf("at most %d plans can be created at once", config.MaxBulkPlans),
		}
	}

	// Validate everything first so an invalid element never leaves a partial batch
	plans := make([]models.Plan, 0, len(items))
	reasons := make(map[int]string)
	var invalid []int
	for i := range items {
		fields := &items[i]
		normalizeFields(fields)
		if err := validateForCreate(fields); err != nil {
			invalid = append(invalid, i)
			reasons[i] = err.Error()
			continue
		}
		plans = append(plans, *newPlan(userID, fields))
	}
	if len(invalid) > 0 {
		return nil, &domain.BulkValidationError{
			Message:        fmt.Sprintf("%d of %d plans are invalid", len(invalid), len(items)),
			InvalidIndices: invalid,
			Reasons:        reasons,
		}
	}

	var ids []int64
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.requireUser(txCtx, userID); err != nil {
			return err
		}
		var err error
		ids, err = s.planRepo.CreateBatch(txCtx, plans)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("plans bulk created", "user_id", userID, "count", len(ids))

	return &models.PlanBulkOutcome{Created: len(ids), IDs: ids}, nil
}

func (s *planService) RecentPlans(ctx context.Context, userID int64, limit int) ([]models.Plan, error) {
	if limit <= 0 {
		limit = config.DefaultRecentPlans
	}
	if limit > maxRecentPlans {
		limit = maxRecentPlans
	}
	return s.planRepo.ListRecent(ctx, userID, limit)
}

func (s *planService) CompletedCount(ctx context.Context, userID int64) (int, error) {
	return s.planRepo.CountCompleted(ctx, userID)
}

func (s *planService) WeeklySummary(ctx context.Context, userID int64) (*models.WeeklySummary, error) {
	plans, err := s.planRepo.List(ctx, userID, models.PlanFilter{})
	if err != nil {
		return nil, err
	}
	return models.SummarizeWeek(plans), nil
}

func (s *planService) SetCompleted(ctx context.Context, userID, planID int64, completed bool) (*models.Plan, error) {
	plan, err := s.planRepo.UpdateFields(ctx, planID, userID, &models.PlanFields{IsCompleted: &completed})
	if err != nil {
		return nil, err
	}

	s.logger.Info("plan completion changed",
		"plan_id", planID,
		"user_id", userID,
		"completed", completed,
	)
	return plan, nil
}

func (s *planService) requireUser(ctx context.Context, userID int64) error {
	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return &domain.NotFoundError{Message: "user not found"}
	}
	return nil
}

func newPlan(userID int64, f *models.PlanFields) *models.Plan {
	plan := &models.Plan{
		UserID:    userID,
		Title:     *f.Title,
		DayOfWeek: *f.DayOfWeek,
		StartTime: *f.StartTime,
		EndTime:   *f.EndTime,
	}
	if f.Description != nil {
		plan.Description = *f.Description
	}
	if f.IsCompleted != nil {
		plan.IsCompleted = *f.IsCompleted
	}
	return plan
}

// normalizeFields strips markup from the free-text columns. Pointers are
// copied so the caller's values are left alone.
func normalizeFields(f *models.PlanFields) {
	if f.Title != nil {
		title := freeText.Plain(*f.Title)
		f.Title = &title
	}
	if f.Description != nil {
		description := freeText.Plain(*f.Description)
		f.Description = &description
	}
}

func validateForCreate(f *models.PlanFields) error {
	if missing := f.MissingRequired(); len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return validateFields(f)
}

// validateFields checks only the supplied fields
func validateFields(f *models.PlanFields) error {
	var errs validation.Errors = map[string]error{}

	if f.Title != nil {
		errs["title"] = validation.Validate(*f.Title,
			validation.Required,
			validation.RuneLength(1, config.MaxPlanTitleLength),
		)
	}
	if f.DayOfWeek != nil {
		errs["day_of_week"] = validation.Validate(*f.DayOfWeek, validation.Required, validation.Min(1), validation.Max(7))
	}
	if f.StartTime != nil && !f.StartTime.Valid() {
		errs["start_time"] = fmt.Errorf("must be a time of day")
	}
	if f.EndTime != nil && !f.EndTime.Valid() {
		errs["end_time"] = fmt.Errorf("must be a time of day")
	}

	if err := errs.Filter(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}

func validateFilter(f *models.PlanFilter) error {
	var errs validation.Errors = map[string]error{}

	if f.DayOfWeek != nil {
		errs["day_of_week"] = validation.Validate(*f.DayOfWeek, validation.Required, validation.Min(1), validation.Max(7))
	}
	errs["limit"] = validation.Validate(f.Limit, validation.Min(0))
	errs["offset"] = validation.Validate(f.Offset, validation.Min(0))
	if f.CreatedAfter != nil && f.CreatedBefore != nil && f.CreatedAfter.After(*f.CreatedBefore) {
		errs["created_after"] = fmt.Errorf("must not be later than created_before")
	}

	if err := errs.Filter(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return nil
}
