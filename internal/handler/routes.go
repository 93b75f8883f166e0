package handler

import "net/http"

// Handlers groups every HTTP handler served by the API
type Handlers struct {
	Health  *HealthHandler
	Auth    *AuthHandler
	Profile *ProfileHandler
	Plans   *PlanHandler
	Meals   *MealHandler
	Chat    *ChatHandler
	Models  *ModelsHandler

	// ChatLimiter wraps the chat route only. Optional.
	ChatLimiter func(http.Handler) http.Handler
}

// Register mounts the routes on mux
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health.Health)

	mux.HandleFunc("POST /api/auth/register", h.Auth.Register)
	mux.HandleFunc("POST /api/auth/login", h.Auth.Login)
	mux.HandleFunc("GET /api/auth/me", h.Auth.Me)

	mux.HandleFunc("GET /api/profile", h.Profile.GetProfile)
	mux.HandleFunc("PATCH /api/profile", h.Profile.UpdateProfile)
	mux.HandleFunc("GET /api/profile/metrics", h.Profile.GetMetrics)

	mux.HandleFunc("GET /api/plans", h.Plans.ListPlans)
	mux.HandleFunc("POST /api/plans", h.Plans.UpsertPlan)
	mux.HandleFunc("DELETE /api/plans", h.Plans.DeleteAllPlans)
	mux.HandleFunc("POST /api/plans/bulk", h.Plans.BulkCreate)
	mux.HandleFunc("GET /api/plans/recent", h.Plans.RecentPlans)
	mux.HandleFunc("GET /api/plans/completed-count", h.Plans.CompletedCount)
	mux.HandleFunc("GET /api/plans/summary", h.Plans.WeeklySummary)
	mux.HandleFunc("DELETE /api/plans/{id}", h.Plans.DeletePlan)
	mux.HandleFunc("PATCH /api/plans/{id}/completion", h.Plans.SetCompletion)

	mux.HandleFunc("GET /api/foods", h.Meals.ListFoods)
	mux.HandleFunc("POST /api/meals/items", h.Meals.AddFood)
	mux.HandleFunc("DELETE /api/meals/items/{id}", h.Meals.RemoveFood)
	mux.HandleFunc("PATCH /api/meals/items/{id}", h.Meals.UpdateFoodWeight)
	mux.HandleFunc("GET /api/meals/daily", h.Meals.DailyMeals)

	var chat http.Handler = http.HandlerFunc(h.Chat.Chat)
	if h.ChatLimiter != nil {
		chat = h.ChatLimiter(chat)
	}
	mux.Handle("POST /api/chat", chat)

	if h.Models != nil {
		mux.HandleFunc("GET /api/models", h.Models.GetCapabilities)
	}
}
