package handler

import (
	"log/slog"
	"net/http"

	"harmonyhealth/internal/domain/models"
	"harmonyhealth/internal/domain/services"
	"harmonyhealth/internal/httputil"
)

// PlanHandler handles weekly plan HTTP requests
type PlanHandler struct {
	planService services.PlanService
	logger      *slog.Logger
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planService services.PlanService, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		logger:      logger,
	}
}

// planRequest is one plan in a request body. ID selects an update.
type planRequest struct {
	ID          *int64                  `json:"id"`
	Title       *string                 `json:"title"`
	Description httputil.OptionalString `json:"description"`
	DayOfWeek   *int                    `json:"day_of_week"`
	StartTime   *models.ClockTime       `json:"start_time"`
	EndTime     *models.ClockTime       `json:"end_time"`
	IsCompleted *bool                   `json:"is_completed"`
}

func (p *planRequest) fields() *models.PlanFields {
	return &models.PlanFields{
		Title:       p.Title,
		Description: p.Description.Update(),
		DayOfWeek:   p.DayOfWeek,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		IsCompleted: p.IsCompleted,
	}
}

// ListPlans returns plans ordered by start time
// GET /api/plans?day_of_week=&created_after=&created_before=&limit=&offset=
func (h *PlanHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var (
		filter models.PlanFilter
		err    error
	)
	if filter.DayOfWeek, err = queryInt(r, "day_of_week"); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.CreatedAfter, err = queryDate(r, "created_after"); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if filter.CreatedBefore, err = queryDate(r, "created_before"); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	for key, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		v, err := queryInt(r, key)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if v != nil {
			*dst = *v
		}
	}

	list, err := h.planService.ListPlans(r.Context(), userID, filter)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, list)
}

// UpsertPlan creates a plan, or partially updates it when id is set
// POST /api/plans
func (h *PlanHandler) UpsertPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req planRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := h.planService.UpsertPlan(r.Context(), userID, req.fields(), req.ID)
	if err != nil {
		handleError(w, err)
		return
	}

	status := http.StatusOK
	if outcome.Created > 0 {
		status = http.StatusCreated
	}
	httputil.RespondJSON(w, status, outcome)
}

// BulkCreate inserts every plan or none of them
// POST /api/plans/bulk
func (h *PlanHandler) BulkCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Plans []planRequest `json:"plans"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	fields := make([]models.PlanFields, len(req.Plans))
	for i := range req.Plans {
		fields[i] = *req.Plans[i].fields()
	}

	outcome, err := h.planService.BulkCreate(r.Context(), userID, fields)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, outcome)
}

// DeletePlan removes one plan
// DELETE /api/plans/{id}
func (h *PlanHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	planID, ok := PathID(w, r, "id", "Plan ID")
	if !ok {
		return
	}

	if err := h.planService.DeletePlan(r.Context(), userID, planID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteAllPlans removes every plan, or every plan of one day
// DELETE /api/plans?day_of_week=
func (h *PlanHandler) DeleteAllPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	day, err := queryInt(r, "day_of_week")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.planService.DeleteAllPlans(r.Context(), userID, day)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// RecentPlans returns the newest plans
// GET /api/plans/recent?limit=
func (h *PlanHandler) RecentPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit, err := queryInt(r, "limit")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	n := 0
	if limit != nil {
		n = *limit
	}

	plans, err := h.planService.RecentPlans(r.Context(), userID, n)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"plans": plans})
}

// CompletedCount returns the number of completed plans
// GET /api/plans/completed-count
func (h *PlanHandler) CompletedCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	count, err := h.planService.CompletedCount(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int{"completed": count})
}

// WeeklySummary aggregates planned and completed minutes per weekday
// GET /api/plans/summary
func (h *PlanHandler) WeeklySummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	summary, err := h.planService.WeeklySummary(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, summary)
}

// SetCompletion marks a plan completed or not
// PATCH /api/plans/{id}/completion
func (h *PlanHandler) SetCompletion(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	planID, ok := PathID(w, r, "id", "Plan ID")
	if !ok {
		return
	}

	var req struct {
		IsCompleted *bool `json:"is_completed"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.IsCompleted == nil {
		httputil.RespondError(w, http.StatusBadRequest, "is_completed is required")
		return
	}

	plan, err := h.planService.SetCompleted(r.Context(), userID, planID, *req.IsCompleted)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, plan)
}
