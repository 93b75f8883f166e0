package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"harmonyhealth/internal/domain"
	"harmonyhealth/internal/domain/models"
	"harmonyhealth/internal/domain/repositories"
)

// PlanRepository implements repositories.PlanRepository
type PlanRepository struct{ s *Store }

// NewPlanRepository creates a plan repository over s
func NewPlanRepository(s *Store) repositories.PlanRepository {
	return &PlanRepository{s: s}
}

func (r *PlanRepository) Create(ctx context.Context, plan *models.Plan) error {
	defer r.s.lockWrite(ctx)()
	return r.insert(plan)
}

func (r *PlanRepository) CreateBatch(ctx context.Context, plans []models.Plan) ([]int64, error) {
	defer r.s.lockWrite(ctx)()

	ids := make([]int64, 0, len(plans))
	for i := range plans {
		if err := r.insert(&plans[i]); err != nil {
			return nil, fmt.Errorf("plan %d: %w", i, err)
		}
		ids = append(ids, plans[i].ID)
	}
	return ids, nil
}

// insert requires r.s.mu
func (r *PlanRepository) insert(plan *models.Plan) error {
	if _, ok := r.s.data.users[plan.UserID]; !ok {
		return &domain.NotFoundError{Message: "user not found"}
	}
	now := r.s.now()
	plan.ID = r.s.id()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	r.s.data.plans[plan.ID] = *plan
	return nil
}

func (r *PlanRepository) UpdateFields(ctx context.Context, id, userID int64, fields *models.PlanFields) (*models.Plan, error) {
	if fields.IsEmpty() {
		return nil, &domain.ValidationError{Message: "no fields to update"}
	}

	defer r.s.lockWrite(ctx)()

	p, ok := r.s.data.plans[id]
	if !ok || p.UserID != userID {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("plan %d not found", id)}
	}

	if fields.Title != nil {
		p.Title = *fields.Title
	}
	if fields.Description != nil {
		p.Description = *fields.Description
	}
	if fields.DayOfWeek != nil {
		p.DayOfWeek = *fields.DayOfWeek
	}
	if fields.StartTime != nil {
		p.StartTime = *fields.StartTime
	}
	if fields.EndTime != nil {
		p.EndTime = *fields.EndTime
	}
	if fields.IsCompleted != nil {
		p.IsCompleted = *fields.IsCompleted
	}
	p.UpdatedAt = r.s.now()

	r.s.data.plans[id] = p
	return &p, nil
}

func (r *PlanRepository) GetByID(ctx context.Context, id, userID int64) (*models.Plan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.data.plans[id]
	if !ok || p.UserID != userID {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("plan %d not found", id)}
	}
	return &p, nil
}

func (r *PlanRepository) List(ctx context.Context, userID int64, filter models.PlanFilter) ([]models.Plan, error) {
	plans := r.owned(userID, func(p *models.Plan) bool {
		if filter.DayOfWeek != nil && p.DayOfWeek != *filter.DayOfWeek {
			return false
		}
		if filter.CreatedAfter != nil && p.CreatedAt.Before(*filter.CreatedAfter) {
			return false
		}
		if filter.CreatedBefore != nil && !p.CreatedAt.Before(filter.CreatedBefore.Add(24*time.Hour)) {
			return false
		}
		return true
	})

	sort.Slice(plans, func(i, j int) bool {
		if plans[i].StartTime != plans[j].StartTime {
			return plans[i].StartTime < plans[j].StartTime
		}
		return plans[i].ID < plans[j].ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(plans) {
			return []models.Plan{}, nil
		}
		plans = plans[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(plans) {
		plans = plans[:filter.Limit]
	}
	return plans, nil
}

func (r *PlanRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]models.Plan, error) {
	plans := r.owned(userID, nil)
	sort.Slice(plans, func(i, j int) bool {
		if !plans[i].CreatedAt.Equal(plans[j].CreatedAt) {
			return plans[i].CreatedAt.After(plans[j].CreatedAt)
		}
		return plans[i].ID > plans[j].ID
	})
	if limit > 0 && limit < len(plans) {
		plans = plans[:limit]
	}
	return plans, nil
}

func (r *PlanRepository) CountCompleted(ctx context.Context, userID int64) (int, error) {
	return len(r.owned(userID, func(p *models.Plan) bool { return p.IsCompleted })), nil
}

func (r *PlanRepository) Delete(ctx context.Context, id, userID int64) (int64, error) {
	defer r.s.lockWrite(ctx)()

	p, ok := r.s.data.plans[id]
	if !ok || p.UserID != userID {
		return 0, nil
	}
	delete(r.s.data.plans, id)
	return 1, nil
}

func (r *PlanRepository) DeleteAll(ctx context.Context, userID int64, dayOfWeek *int) (int64, error) {
	defer r.s.lockWrite(ctx)()

	var deleted int64
	for id, p := range r.s.data.plans {
		if p.UserID != userID {
			continue
		}
		if dayOfWeek != nil && p.DayOfWeek != *dayOfWeek {
			continue
		}
		delete(r.s.data.plans, id)
		deleted++
	}
	return deleted, nil
}

func (r *PlanRepository) owned(userID int64, keep func(*models.Plan) bool) []models.Plan {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	plans := []models.Plan{}
	for _, p := range r.s.data.plans {
		if p.UserID != userID {
			continue
		}
		if keep != nil && !keep(&p) {
			continue
		}
		plans = append(plans, p)
	}
	return plans
}
