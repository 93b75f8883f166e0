package handler

import (
	"errors"
	"net/http"

	"harmonyhealth/internal/domain"
	assistant "harmonyhealth/internal/domain/models/assistant"
	assistantSvc "harmonyhealth/internal/domain/services/assistant"
	"harmonyhealth/internal/httputil"
)

// handleError converts domain errors to HTTP responses
func handleError(w http.ResponseWriter, err error) {
	var (
		conflictErr *domain.ConflictError
		bulkErr     *domain.BulkValidationError
	)

	switch {
	case errors.As(err, &bulkErr):
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, bulkErr.Error(), map[string]interface{}{
			"invalid_indices": bulkErr.InvalidIndices,
			"reasons":         bulkErr.Reasons,
		})
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &conflictErr):
		httputil.RespondError(w, http.StatusConflict, conflictErr.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// handleAssistantError writes the result body of an aborted chat.
// Errors outside the assistant taxonomy fall back to handleError.
func handleAssistantError(w http.ResponseWriter, err error) {
	var (
		unknown  *assistantSvc.UnknownToolError
		failed   *assistantSvc.ToolFailedError
		internal *assistantSvc.InternalError
		timeout  *assistantSvc.TimeoutError
	)

	switch {
	case errors.As(err, &unknown):
		httputil.RespondJSON(w, http.StatusBadRequest, unknown.Result())
	case errors.As(err, &failed):
		httputil.RespondJSON(w, statusForResult(failed.Outcome), failed.Result())
	case errors.As(err, &timeout):
		httputil.RespondJSON(w, http.StatusGatewayTimeout, timeout.Result())
	case errors.As(err, &internal):
		httputil.RespondJSON(w, http.StatusInternalServerError, internal.Result())
	default:
		handleError(w, err)
	}
}

// statusForResult maps a failed tool result code onto an HTTP status
func statusForResult(r assistant.Result) int {
	switch r.Kind() {
	case assistant.KindValidation, assistant.KindNotFound:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
