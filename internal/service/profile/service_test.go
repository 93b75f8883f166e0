package profile

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

func newTestService(t *testing.T) (services.ProfileService, int64) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	profiles := memory.NewProfileRepository(store)

	user := &models.User{Username: "bob"}
	require.NoError(t, users.Create(ctx, user))
	require.NoError(t, profiles.Create(ctx, models.NewDefaultProfile(user.ID)))

	return NewProfileService(profiles, slog.New(slog.NewTextHandler(io.Discard, nil))), user.ID
}

func TestUpdateInfo(t *testing.T) {
	svc, userID := newTestService(t)

	out, err := svc.UpdateInfo(context.Background(), userID, map[string]interface{}{
		"weight": 68.5,
		"age":    "30",
		"target": "lose 3kg",
		"gender": "female",
		"shoe":   44,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"weight", "age", "target"}, out.UpdatedFields)
	assert.Equal(t, []string{"gender", "shoe"}, out.IgnoredFields)
	assert.Equal(t, 68.5, out.Profile.Weight)
	assert.Equal(t, 30, out.Profile.Age)
	assert.Equal(t, models.GenderMale, out.Profile.Gender)
}

func TestUpdateInfo_Rejects(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		updates map[string]interface{}
	}{
		{"empty", map[string]interface{}{}},
		{"only unsupported", map[string]interface{}{"gender": "female"}},
		{"non numeric", map[string]interface{}{"height": "tall"}},
		{"out of range", map[string]interface{}{"height": 20.0}},
		{"fractional age", map[string]interface{}{"age": 30.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateInfo(ctx, userID, tt.updates)
			assert.True(t, errors.Is(err, domain.ErrValidation), "got %v", err)
		})
	}
}

func TestUpdateInfo_UnknownUser(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateInfo(context.Background(), 404, map[string]interface{}{"weight": 60.0})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetInfo(t *testing.T) {
	svc, userID := newTestService(t)
	ctx := context.Background()

	all, err := svc.GetInfo(ctx, userID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 6)
	assert.Equal(t, models.DefaultHeight, all["height"])

	some, err := svc.GetInfo(ctx, userID, []string{"weight", "nickname"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"weight": models.DefaultWeight}, some)

	_, err = svc.GetInfo(ctx, userID, []string{"nickname"})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestComputeMetrics(t *testing.T) {
	p := &models.Profile{Height: 170, Weight: 55, Age: 21, Gender: models.GenderMale}

	m, err := ComputeMetrics(p)
	require.NoError(t, err)
	assert.Equal(t, 19.03, m.BMI)
	assert.Equal(t, "正常", m.BMICategory)
	// 10*55 + 6.25*170 - 5*21 + 5
	assert.Equal(t, 1512.5, m.BMR)
	assert.Equal(t, 1815.0, m.DailyCalories)
	assert.Equal(t, 79.4, m.RecommendedDiet.Protein)
	assert.Equal(t, 238.2, m.RecommendedDiet.Carbohydrates)
	assert.Equal(t, 55.5, m.RecommendedDiet.Fat)

	p.Gender = models.GenderFemale
	m, err = ComputeMetrics(p)
	require.NoError(t, err)
	assert.Equal(t, 1346.5, m.BMR)

	_, err = ComputeMetrics(&models.Profile{})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestBMICategory(t *testing.T) {
	tests := []struct {
		bmi  float64
		want string
	}{
		{17.9, "偏瘦"},
		{18.5, "正常"},
		{23.99, "正常"},
		{24, "偏胖"},
		{28, "肥胖"},
	}
	for _, tt := range tests {
		if got := BMICategory(tt.bmi); got != tt.want {
			t.Errorf("BMICategory(%v) = %q, want %q", tt.bmi, got, tt.want)
		}
	}
}
