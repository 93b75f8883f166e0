package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"harmonyhealth/internal/domain/models"
	"harmonyhealth/internal/httputil"
)

// requireUser returns the authenticated user id, writing 401 when absent
func requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := httputil.GetUserID(r)
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return 0, false
	}
	return userID, true
}

// PathID parses a positive integer path parameter, writing 400 on failure
func PathID(w http.ResponseWriter, r *http.Request, name, label string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		httputil.RespondError(w, http.StatusBadRequest, label+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter
func queryInt(r *http.Request, key string) (*int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", key)
	}
	return &v, nil
}

// queryDate reads an optional YYYY-MM-DD query parameter
func queryDate(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be YYYY-MM-DD", key)
	}
	return &d, nil
}
