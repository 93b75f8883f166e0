package seed

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"harmonyhealth/internal/auth"
	"harmonyhealth/internal/repository/memory"
	authService "harmonyhealth/internal/service/auth"
)

func newSeeder(t *testing.T) (*Seeder, *memory.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()

	tokens, err := auth.NewHMACTokens("0123456789abcdef0123456789abcdef", "harmonyhealth", time.Hour, logger)
	require.NoError(t, err)

	authSvc := authService.NewAuthService(
		memory.NewUserRepository(store),
		memory.NewProfileRepository(store),
		memory.NewTransactionManager(store),
		tokens,
		logger,
	)
	return NewSeeder(memory.NewFoodRepository(store), authSvc, logger), store
}

func TestCatalog_NamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, f := range Catalog() {
		assert.False(t, seen[f.Name], "duplicate food %s", f.Name)
		seen[f.Name] = true
		assert.Positive(t, f.Per100g.Calories, f.Name)
	}
}

func TestSeedFoods_Idempotent(t *testing.T) {
	s, store := newSeeder(t)
	ctx := context.Background()

	n, err := s.SeedFoods(ctx)
	require.NoError(t, err)
	_, err = s.SeedFoods(ctx)
	require.NoError(t, err)

	foods, err := memory.NewFoodRepository(store).List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, foods, n)
}

func TestSeedDemoUser(t *testing.T) {
	s, _ := newSeeder(t)
	ctx := context.Background()

	user, err := s.SeedDemoUser(ctx, "demo", "demo-password")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "demo", user.Username)

	again, err := s.SeedDemoUser(ctx, "demo", "demo-password")
	require.NoError(t, err)
	assert.Nil(t, again)
}
