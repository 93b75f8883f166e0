package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harmonyhealth/internal/domain"
)

func TestCheckViolationError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23514", ConstraintName: "dev_plans_day_of_week_check"}

	err := checkViolationError(fmt.Errorf("wrapped: %w", pgErr), "plan")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, "invalid plan: violates dev_plans_day_of_week_check", err.Error())

	assert.Nil(t, checkViolationError(&pgconn.PgError{Code: "23505"}, "plan"))
	assert.Nil(t, checkViolationError(errors.New("boom"), "plan"))
}

func TestPgErrorClassifiers(t *testing.T) {
	assert.True(t, IsPgDuplicateError(&pgconn.PgError{Code: "23505"}))
	assert.True(t, IsPgForeignKeyError(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"})))
	assert.True(t, IsPgNoRowsError(fmt.Errorf("get: %w", pgx.ErrNoRows)))
	assert.False(t, IsPgCheckViolation(errors.New("boom")))
}
