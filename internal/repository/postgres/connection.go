package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"harmonyhealth/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Users     string
	Profiles  string
	Plans     string
	Foods     string
	Meals     string
	MealItems string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Users:     fmt.Sprintf("%susers", prefix),
		Profiles:  fmt.Sprintf("%sprofiles", prefix),
		Plans:     fmt.Sprintf("%splans", prefix),
		Foods:     fmt.Sprintf("%sfoods", prefix),
		Meals:     fmt.Sprintf("%smeals", prefix),
		MealItems: fmt.Sprintf("%smeal_items", prefix),
	}
}

// All returns every table in dependency order (parents first)
func (t *TableNames) All() []string {
	return []string{t.Users, t.Profiles, t.Plans, t.Foods, t.Meals, t.MealItems}
}

// CreateConnectionPool creates a new pgx connection pool.
//
// Port 6543 is treated as a transaction-mode PgBouncer, which cannot hold
// prepared statements; the pool then switches to QueryExecModeCacheDescribe
// unless the connection string already chose a mode via
// ?default_query_exec_mode=...
//
// Table prefixes are interpolated with fmt.Sprintf before statements reach
// the server, so each environment gets its own statement cache entries.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or the pool when there is none.
// Repositories use it so they join a caller's transaction automatically.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
