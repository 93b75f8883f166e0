package services

import (
	"context"

	"harmonyhealth/internal/domain/models"
)

// InfoUpdateOutcome reports which fields an UpdateInfo call changed
type InfoUpdateOutcome struct {
	UpdatedFields []string        `json:"updated_fields"`
	IgnoredFields []string        `json:"ignored_fields,omitempty"`
	Profile       *models.Profile `json:"profile"`
}

// ProfileService manages body metrics and goals
type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*models.Profile, error)

	// UpdateProfile applies a typed partial update
	UpdateProfile(ctx context.Context, userID int64, update *models.ProfileUpdate) (*models.Profile, error)

	// UpdateInfo applies a loosely typed update keyed by field name.
	// Only height, weight, age, information and target are accepted; other
	// keys are ignored and reported back.
	UpdateInfo(ctx context.Context, userID int64, updates map[string]interface{}) (*InfoUpdateOutcome, error)

	// GetInfo returns the requested fields, or all fields when attributes is empty
	GetInfo(ctx context.Context, userID int64, attributes []string) (map[string]interface{}, error)

	// HealthMetrics derives BMI, BMR and calorie targets from the profile
	HealthMetrics(ctx context.Context, userID int64) (*models.HealthMetrics, error)
}
