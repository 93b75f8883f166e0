package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_MarshalIncludesDuration(t *testing.T) {
	p := Plan{
		ID:        3,
		UserID:    9,
		Title:     "夜跑",
		DayOfWeek: 2,
		StartTime: NewClockTime(22, 30),
		EndTime:   NewClockTime(0, 15),
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, float64(105), got["duration_minutes"])
	assert.Equal(t, "22:30", got["start_time"])
	assert.NotContains(t, got, "user_id")
}

func TestPlanFields_MissingRequired(t *testing.T) {
	title := "晨练"
	day := 1
	f := PlanFields{Title: &title, DayOfWeek: &day}

	assert.False(t, f.IsEmpty())
	assert.Equal(t, []string{"start_time", "end_time"}, f.MissingRequired())
	assert.True(t, (&PlanFields{}).IsEmpty())
}

func TestSummarizeWeek(t *testing.T) {
	plans := []Plan{
		{DayOfWeek: 1, StartTime: NewClockTime(7, 0), EndTime: NewClockTime(8, 0), IsCompleted: true},
		{DayOfWeek: 1, StartTime: NewClockTime(12, 0), EndTime: NewClockTime(12, 30)},
		{DayOfWeek: 7, StartTime: NewClockTime(23, 0), EndTime: NewClockTime(0, 30), IsCompleted: true},
		{DayOfWeek: 0, StartTime: NewClockTime(1, 0), EndTime: NewClockTime(2, 0)},
	}

	s := SummarizeWeek(plans)

	require.Len(t, s.Days, 7)
	assert.Equal(t, 1, s.Days[0].DayOfWeek)
	assert.Equal(t, 2, s.Days[0].Plans)
	assert.Equal(t, 1, s.Days[0].Completed)
	assert.Equal(t, 90, s.Days[0].PlannedMinutes)
	assert.Equal(t, 60, s.Days[0].CompletedMinutes)
	assert.Equal(t, 90, s.Days[6].CompletedMinutes)
	assert.Zero(t, s.Days[3].Plans)

	assert.Equal(t, 3, s.TotalPlans)
	assert.Equal(t, 2, s.CompletedPlans)
	assert.Equal(t, 180, s.PlannedMinutes)
	assert.Equal(t, 150, s.CompletedMinutes)
}

func TestSummarizeWeek_Empty(t *testing.T) {
	s := SummarizeWeek(nil)
	assert.Len(t, s.Days, 7)
	assert.Zero(t, s.TotalPlans)
}
