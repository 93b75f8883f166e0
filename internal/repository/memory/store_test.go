package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harmonyhealth/internal/domain/models"
)

func newOwner(t *testing.T, store *Store) int64 {
	t.Helper()
	user := &models.User{Username: "owner"}
	require.NoError(t, NewUserRepository(store).Create(context.Background(), user))
	return user.ID
}

func newPlan(userID int64, title string) *models.Plan {
	return &models.Plan{
		UserID:    userID,
		Title:     title,
		DayOfWeek: 1,
		StartTime: models.NewClockTime(7, 0),
		EndTime:   models.NewClockTime(8, 0),
	}
}

func TestExecTx_RollbackRestoresSnapshot(t *testing.T) {
	store := NewStore()
	plans := NewPlanRepository(store)
	tm := NewTransactionManager(store)
	ctx := context.Background()
	owner := newOwner(t, store)

	errBoom := errors.New("boom")
	err := tm.ExecTx(ctx, func(txCtx context.Context) error {
		require.NoError(t, plans.Create(txCtx, newPlan(owner, "Run")))
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	list, err := plans.List(ctx, owner, models.PlanFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestExecTx_RollbackKeepsWritesOutsideTransaction(t *testing.T) {
	store := NewStore()
	plans := NewPlanRepository(store)
	tm := NewTransactionManager(store)
	ctx := context.Background()
	owner := newOwner(t, store)

	existing := newPlan(owner, "Run")
	require.NoError(t, plans.Create(ctx, existing))

	started := make(chan struct{})
	done := make(chan int64)
	err := tm.ExecTx(ctx, func(txCtx context.Context) error {
		go func() {
			close(started)
			n, _ := plans.Delete(ctx, existing.ID, owner)
			done <- n
		}()
		<-started
		time.Sleep(20 * time.Millisecond)
		return errors.New("abort")
	})
	require.Error(t, err)

	assert.Equal(t, int64(1), <-done)
	_, err = plans.GetByID(ctx, existing.ID, owner)
	assert.Error(t, err, "the delete committed after the rollback must stick")
}

func TestExecTx_NestedJoinsOuter(t *testing.T) {
	store := NewStore()
	plans := NewPlanRepository(store)
	tm := NewTransactionManager(store)
	ctx := context.Background()
	owner := newOwner(t, store)

	err := tm.ExecTx(ctx, func(txCtx context.Context) error {
		return tm.ExecTx(txCtx, func(inner context.Context) error {
			return plans.Create(inner, newPlan(owner, "Swim"))
		})
	})
	require.NoError(t, err)

	list, err := plans.List(ctx, owner, models.PlanFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
