package tools

import (
	"errors"

	"harmonyhealth/internal/domain"
	models "harmonyhealth/internal/domain/models/assistant"
)

// serviceResult converts a domain service error into a tool outcome.
// Errors outside the domain taxonomy are returned for the caller to treat
// as internal failures.
func serviceResult(err error) (models.Result, error) {
	var bulkErr *domain.BulkValidationError
	switch {
	case errors.As(err, &bulkErr):
		return models.Invalid(bulkErr.Message, map[string]interface{}{
			"invalid_indices": bulkErr.InvalidIndices,
			"reasons":         bulkErr.Reasons,
		}), nil
	case errors.Is(err, domain.ErrValidation):
		return models.Invalid(err.Error(), nil), nil
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrForbidden):
		return models.NotFound(err.Error(), nil), nil
	default:
		return models.Result{}, err
	}
}

// argumentResult reports a malformed argument the schema could not catch
func argumentResult(err error) models.Result {
	return models.Invalid(err.Error(), nil)
}
