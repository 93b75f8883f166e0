package plan

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harmonyhealth/internal/domain"
	"harmonyhealth/internal/domain/models"
	"harmonyhealth/internal/domain/services"
	"harmonyhealth/internal/repository/memory"
)

func newTestService(t *testing.T) (services.PlanService, int64) {
	t.Helper()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)

	user := &models.User{Username: "alice"}
	require.NoError(t, users.Create(context.Background(), user))

	svc := NewPlanService(
		memory.NewPlanRepository(store),
		users,
		memory.NewTransactionManager(store),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return svc, user.ID
}

func ptr[T any](v T) *T { return &v }

func runFields(title string, day int, start, end string) models.PlanFields {
	s, _ := models.ParseClockTime(start)
	e, _ := models.ParseClockTime(end)
	return models.PlanFields{
		Title:     ptr(title),
		DayOfWeek: ptr(day),
		StartTime: &s,
		EndTime:   &e,
	}
}

func TestUpsertPlan_Create(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	fields := runFields("  Run  ", 1, "07:00", "08:00")
	out, err := svc.UpsertPlan(ctx, userID, &fields, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Created)
	assert.Equal(t, 0, out.Updated)
	assert.NotZero(t, out.ID)
	assert.Equal(t, "Run", out.Plan.Title)

	list, err := svc.ListPlans(ctx, userID, models.PlanFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, 60, list.Plans[0].DurationMinutes())
}

func TestUpsertPlan_StripsMarkup(t *testing.T) {
	svc, userID := newTestService(t)

	fields := runFields("<b>Yoga</b>", 3, "18:00", "19:00")
	fields.Description = ptr("mat & block<script>x()</script>")
	out, err := svc.UpsertPlan(context.Background(), userID, &fields, nil)
	require.NoError(t, err)
	assert.Equal(t, "Yoga", out.Plan.Title)
	assert.Equal(t, "mat & block", out.Plan.Description)

	markupOnly := runFields("<i></i>", 3, "18:00", "19:00")
	_, err = svc.UpsertPlan(context.Background(), userID, &markupOnly, nil)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestUpsertPlan_CreateMissingFields(t *testing.T) {
	svc, userID := newTestService(t)

	_, err := svc.UpsertPlan(context.Background(), userID, &models.PlanFields{Title: ptr("Run")}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
	assert.Contains(t, err.Error(), "day_of_week")
}

func TestUpsertPlan_CreateUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)
	fields := runFields("Run", 1, "07:00", "08:00")

	_, err := svc.UpsertPlan(context.Background(), 999, &fields, nil)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpsertPlan_InvalidValues(t *testing.T) {
	svc, userID := newTestService(t)

	tests := []struct {
		name   string
		fields models.PlanFields
	}{
		{"day zero", runFields("Run", 0, "07:00", "08:00")},
		{"day eight", runFields("Run", 8, "07:00", "08:00")},
		{"blank title", runFields("   ", 2, "07:00", "08:00")},
		{"bad clock", func() models.PlanFields {
			f := runFields("Run", 2, "07:00", "08:00")
			f.EndTime = ptr(models.ClockTime(24 * 60))
			return f
		}()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpsertPlan(context.Background(), userID, &tt.fields, nil)
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}
}

func TestUpsertPlan_PartialUpdate(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	fields := runFields("Run", 1, "07:00", "08:00")
	created, err := svc.UpsertPlan(ctx, userID, &fields, nil)
	require.NoError(t, err)

	out, err := svc.UpsertPlan(ctx, userID, &models.PlanFields{Title: ptr("Swim")}, &created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Updated)
	assert.Equal(t, "Swim", out.Plan.Title)
	assert.Equal(t, 1, out.Plan.DayOfWeek, "unspecified fields keep their values")
	assert.Equal(t, "07:00", out.Plan.StartTime.String())
}

func TestUpsertPlan_UpdateErrors(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	_, err := svc.UpsertPlan(ctx, userID, &models.PlanFields{Title: ptr("Swim")}, ptr(int64(42)))
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	fields := runFields("Run", 1, "07:00", "08:00")
	created, err := svc.UpsertPlan(ctx, userID, &fields, nil)
	require.NoError(t, err)

	_, err = svc.UpsertPlan(ctx, userID, &models.PlanFields{}, &created.ID)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestListPlans_FilterAndOrder(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	for _, f := range []models.PlanFields{
		runFields("Evening", 3, "19:00", "20:00"),
		runFields("Morning", 3, "06:30", "07:00"),
		runFields("Other day", 4, "05:00", "06:00"),
	} {
		f := f
		_, err := svc.UpsertPlan(ctx, userID, &f, nil)
		require.NoError(t, err)
	}

	list, err := svc.ListPlans(ctx, userID, models.PlanFilter{DayOfWeek: ptr(3)})
	require.NoError(t, err)
	require.Equal(t, 2, list.Count)
	assert.Equal(t, "Morning", list.Plans[0].Title)
	assert.Equal(t, "Evening", list.Plans[1].Title)

	_, err = svc.ListPlans(ctx, userID, models.PlanFilter{Limit: -1})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestDeletePlan(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	fields := runFields("Run", 1, "07:00", "08:00")
	created, err := svc.UpsertPlan(ctx, userID, &fields, nil)
	require.NoError(t, err)

	require.NoError(t, svc.DeletePlan(ctx, userID, created.ID))

	err = svc.DeletePlan(ctx, userID, created.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDeletePlan_OtherOwner(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	fields := runFields("Run", 1, "07:00", "08:00")
	created, err := svc.UpsertPlan(ctx, userID, &fields, nil)
	require.NoError(t, err)

	err = svc.DeletePlan(ctx, userID+100, created.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestDeleteAllPlans(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	n, err := svc.DeleteAllPlans(ctx, userID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "deleting nothing is not an error")

	for _, day := range []int{1, 1, 2} {
		f := runFields("Run", day, "07:00", "08:00")
		_, err := svc.UpsertPlan(ctx, userID, &f, nil)
		require.NoError(t, err)
	}

	n, err = svc.DeleteAllPlans(ctx, userID, ptr(1))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.DeleteAllPlans(ctx, userID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBulkCreate_AllOrNothing(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	batch := []models.PlanFields{
		runFields("Run", 1, "07:00", "08:00"),
		runFields("Bad", 9, "07:00", "08:00"),
		runFields("Swim", 2, "18:00", "19:00"),
		{Title: ptr("Incomplete")},
	}

	_, err := svc.BulkCreate(ctx, userID, batch)
	require.Error(t, err)

	var bulkErr *domain.BulkValidationError
	require.True(t, errors.As(err, &bulkErr))
	assert.Equal(t, []int{1, 3}, bulkErr.InvalidIndices)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	list, err := svc.ListPlans(ctx, userID, models.PlanFilter{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Count, "no plan is persisted when any element is invalid")
}

func TestBulkCreate_Success(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	out, err := svc.BulkCreate(ctx, userID, []models.PlanFields{
		runFields("Run", 1, "07:00", "08:00"),
		runFields("Swim", 2, "18:00", "19:00"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Created)
	assert.Len(t, out.IDs, 2)

	_, err = svc.BulkCreate(ctx, userID, nil)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestBulkCreate_UnknownUserRollsBack(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.BulkCreate(context.Background(), 404, []models.PlanFields{
		runFields("Run", 1, "07:00", "08:00"),
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestWeeklySummaryAndCompletion(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	late := runFields("Late shift", 5, "23:00", "01:00")
	created, err := svc.UpsertPlan(ctx, userID, &late, nil)
	require.NoError(t, err)
	early := runFields("Stretch", 5, "06:00", "06:30")
	_, err = svc.UpsertPlan(ctx, userID, &early, nil)
	require.NoError(t, err)

	plan, err := svc.SetCompleted(ctx, userID, created.ID, true)
	require.NoError(t, err)
	assert.True(t, plan.IsCompleted)

	count, err := svc.CompletedCount(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	summary, err := svc.WeeklySummary(ctx, userID)
	require.NoError(t, err)
	friday := summary.Days[4]
	assert.Equal(t, 5, friday.DayOfWeek)
	assert.Equal(t, 2, friday.Plans)
	assert.Equal(t, 150, friday.PlannedMinutes)
	assert.Equal(t, 120, friday.CompletedMinutes)
	assert.Equal(t, 2, summary.TotalPlans)

	recent, err := svc.RecentPlans(ctx, userID, 0)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}
