package handler

import (
	"log/slog"
	"net/http"

	"harmonyhealth/internal/domain/services"
	"harmonyhealth/internal/httputil"
)

// MealHandler handles food catalog and meal logging HTTP requests
type MealHandler struct {
	mealService services.MealService
	logger      *slog.Logger
}

// NewMealHandler creates a new meal handler
func NewMealHandler(mealService services.MealService, logger *slog.Logger) *MealHandler {
	return &MealHandler{
		mealService: mealService,
		logger:      logger,
	}
}

// ListFoods searches the catalog
// GET /api/foods?q=&category=
func (h *MealHandler) ListFoods(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	foods, err := h.mealService.ListFoods(r.Context(), q.Get("q"), q.Get("category"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"foods": foods})
}

// AddFood logs a food into a meal
// POST /api/meals/items
func (h *MealHandler) AddFood(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req services.AddFoodRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.mealService.AddFood(r.Context(), userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, item)
}

// RemoveFood deletes a logged item
// DELETE /api/meals/items/{id}
func (h *MealHandler) RemoveFood(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	itemID, ok := PathID(w, r, "id", "Item ID")
	if !ok {
		return
	}

	if err := h.mealService.RemoveFood(r.Context(), userID, itemID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// UpdateFoodWeight changes the grams of a logged item
// PATCH /api/meals/items/{id}
func (h *MealHandler) UpdateFoodWeight(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	itemID, ok := PathID(w, r, "id", "Item ID")
	if !ok {
		return
	}

	var req struct {
		Weight float64 `json:"weight"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.mealService.UpdateFoodWeight(r.Context(), userID, itemID, req.Weight)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, item)
}

// DailyMeals returns every meal of one day with totals and targets
// GET /api/meals/daily?date=YYYY-MM-DD
func (h *MealHandler) DailyMeals(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	daily, err := h.mealService.DailyMeals(r.Context(), userID, r.URL.Query().Get("date"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, daily)
}
