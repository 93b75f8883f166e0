package models

import (
	"encoding/json"
	"time"
)

// Plan is a weekly recurring activity or diet entry owned by one user.
// StartTime may be after EndTime; the span then crosses midnight.
type Plan struct {
	ID          int64     `json:"id" db:"id"`
	UserID      int64     `json:"-" db:"user_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	DayOfWeek   int       `json:"day_of_week" db:"day_of_week"` // 1 = Monday ... 7 = Sunday
	StartTime   ClockTime `json:"start_time" db:"start_time"`
	EndTime     ClockTime `json:"end_time" db:"end_time"`
	IsCompleted bool      `json:"is_completed" db:"is_completed"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// DurationMinutes returns the planned length, adding 24h when the plan ends
// before it starts.
func (p *Plan) DurationMinutes() int {
	return p.StartTime.MinutesUntil(p.EndTime)
}

// MarshalJSON adds the derived duration to the wire form
func (p Plan) MarshalJSON() ([]byte, error) {
	type plan Plan
	return json.Marshal(struct {
		plan
		DurationMinutes int `json:"duration_minutes"`
	}{plan(p), p.DurationMinutes()})
}

// PlanFields is a partial set of plan columns. Nil means "not supplied".
type PlanFields struct {
	Title       *string
	Description *string
	DayOfWeek   *int
	StartTime   *ClockTime
	EndTime     *ClockTime
	IsCompleted *bool
}

// IsEmpty reports whether no column is supplied
func (f *PlanFields) IsEmpty() bool {
	return f.Title == nil && f.Description == nil && f.DayOfWeek == nil &&
		f.StartTime == nil && f.EndTime == nil && f.IsCompleted == nil
}

// MissingRequired lists the create-time required fields that are absent
func (f *PlanFields) MissingRequired() []string {
	var missing []string
	if f.Title == nil {
		missing = append(missing, "title")
	}
	if f.DayOfWeek == nil {
		missing = append(missing, "day_of_week")
	}
	if f.StartTime == nil {
		missing = append(missing, "start_time")
	}
	if f.EndTime == nil {
		missing = append(missing, "end_time")
	}
	return missing
}

// PlanFilter narrows a plan listing. Zero values mean "no filter".
type PlanFilter struct {
	DayOfWeek     *int
	CreatedAfter  *time.Time // inclusive, start of day
	CreatedBefore *time.Time // inclusive, whole day
	Limit         int
	Offset        int
}

// PlanUpsertOutcome reports the effect of a single upsert
type PlanUpsertOutcome struct {
	Created int   `json:"created"`
	Updated int   `json:"updated"`
	ID      int64 `json:"id"`
	Plan    *Plan `json:"plan,omitempty"`
}

// PlanList is a page of plans plus its size
type PlanList struct {
	Plans []Plan `json:"plans"`
	Count int    `json:"count"`
}

// PlanBulkOutcome reports an all-or-nothing bulk create
type PlanBulkOutcome struct {
	Created int     `json:"created"`
	IDs     []int64 `json:"ids"`
}

// DaySummary aggregates one weekday
type DaySummary struct {
	DayOfWeek        int `json:"day_of_week"`
	Plans            int `json:"plans"`
	Completed        int `json:"completed"`
	PlannedMinutes   int `json:"planned_minutes"`
	CompletedMinutes int `json:"completed_minutes"`
}

// WeeklySummary aggregates a user's whole week
type WeeklySummary struct {
	Days             []DaySummary `json:"days"`
	PlannedMinutes   int          `json:"planned_minutes"`
	CompletedMinutes int          `json:"completed_minutes"`
	CompletedPlans   int          `json:"completed_plans"`
	TotalPlans       int          `json:"total_plans"`
}

// SummarizeWeek folds plans into per-day totals for days 1..7
func SummarizeWeek(plans []Plan) *WeeklySummary {
	summary := &WeeklySummary{Days: make([]DaySummary, 7)}
	for i := range summary.Days {
		summary.Days[i].DayOfWeek = i + 1
	}

	for i := range plans {
		p := &plans[i]
		if p.DayOfWeek < 1 || p.DayOfWeek > 7 {
			continue
		}
		day := &summary.Days[p.DayOfWeek-1]
		minutes := p.DurationMinutes()

		day.Plans++
		day.PlannedMinutes += minutes
		summary.TotalPlans++
		summary.PlannedMinutes += minutes
		if p.IsCompleted {
			day.Completed++
			day.CompletedMinutes += minutes
			summary.CompletedPlans++
			summary.CompletedMinutes += minutes
		}
	}

	return summary
}
