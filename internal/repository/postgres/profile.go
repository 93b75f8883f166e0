package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"harmonyhealth/internal/domain"
	"harmonyhealth/internal/domain/models"
	"harmonyhealth/internal/domain/repositories"
)

// PostgresProfileRepository implements the ProfileRepository interface
type PostgresProfileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewProfileRepository creates a new PostgresProfileRepository
func NewProfileRepository(config *RepositoryConfig) repositories.ProfileRepository {
	return &PostgresProfileRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

func (r *PostgresProfileRepository) Create(ctx context.Context, p *models.Profile) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, height, weight, age, gender, information, target, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.Profiles)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		p.UserID, p.Height, p.Weight, p.Age, p.Gender, p.Information, p.Target, p.UpdatedAt,
	)
	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{Message: "profile already exists", ResourceType: "profile"}
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	query := fmt.Sprintf(`
		SELECT user_id, height, weight, age, gender, information, target, updated_at
		FROM %s
		WHERE user_id = $1
	`, r.tables.Profiles)

	var p models.Profile
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.Height,
		&p.Weight,
		&p.Age,
		&p.Gender,
		&p.Information,
		&p.Target,
		&p.UpdatedAt,
	)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: "profile not found"}
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (r *PostgresProfileRepository) Update(ctx context.Context, p *models.Profile) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET height = $2, weight = $3, age = $4, gender = $5,
		    information = $6, target = $7, updated_at = $8
		WHERE user_id = $1
	`, r.tables.Profiles)

	executor := GetExecutor(ctx, r.pool)
	tag, err := executor.Exec(ctx, query,
		p.UserID, p.Height, p.Weight, p.Age, p.Gender, p.Information, p.Target, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: "profile not found"}
	}
	return nil
}
