package handler

import (
	"log/slog"
	"net/http"

	"harmonyhealth/internal/domain/models"
	"harmonyhealth/internal/domain/services"
	"harmonyhealth/internal/httputil"
)

// ProfileHandler handles profile HTTP requests
type ProfileHandler struct {
	profileService services.ProfileService
	logger         *slog.Logger
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService services.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger,
	}
}

// updateProfileRequest is the PATCH body. Absent fields are left untouched;
// null clears the free-text fields.
type updateProfileRequest struct {
	Height      *float64                `json:"height"`
	Weight      *float64                `json:"weight"`
	Age         *int                    `json:"age"`
	Gender      *string                 `json:"gender"`
	Information httputil.OptionalString `json:"information"`
	Target      httputil.OptionalString `json:"target"`
}

// GetProfile returns the user's profile
// GET /api/profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, profile)
}

// UpdateProfile applies a partial profile update
// PATCH /api/profile
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	profile, err := h.profileService.UpdateProfile(r.Context(), userID, &models.ProfileUpdate{
		Height:      req.Height,
		Weight:      req.Weight,
		Age:         req.Age,
		Gender:      req.Gender,
		Information: req.Information.Update(),
		Target:      req.Target.Update(),
	})
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, profile)
}

// GetMetrics returns BMI, BMR and calorie targets
// GET /api/profile/metrics
func (h *ProfileHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	metrics, err := h.profileService.HealthMetrics(r.Context(), userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, metrics)
}
