package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	authn "harmonyhealth/internal/auth"
	"harmonyhealth/internal/config"
	"harmonyhealth/internal/domain"
	"harmonyhealth/internal/domain/models"
	"harmonyhealth/internal/domain/repositories"
	"harmonyhealth/internal/domain/services"
)

// authService implements the AuthService interface
type authService struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	txManager   repositories.TransactionManager
	tokens      authn.TokenIssuer
	logger      *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	txManager repositories.TransactionManager,
	tokens authn.TokenIssuer,
	logger *slog.Logger,
) services.AuthService {
	return &authService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		txManager:   txManager,
		tokens:      tokens,
		logger:      logger,
	}
}

// Register creates the account and its default profile atomically
func (s *authService) Register(ctx context.Context, req *services.RegisterRequest) (*models.AuthResult, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := validation.ValidateStruct(req,
		validation.Field(&req.Username, validation.Required, validation.Length(3, config.MaxUsernameLength)),
		validation.Field(&req.Password, validation.Required, validation.Length(config.MinPasswordLength, 128)),
		validation.Field(&req.Email, is.EmailFormat),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hash, err := authn.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Create(txCtx, user); err != nil {
			return err
		}
		return s.profileRepo.Create(txCtx, models.NewDefaultProfile(user.ID))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)

	return s.issue(user)
}

// Login verifies credentials. Unknown users and wrong passwords are indistinguishable.
func (s *authService) Login(ctx context.Context, req *services.LoginRequest) (*models.AuthResult, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Username, validation.Required),
		validation.Field(&req.Password, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.UnauthorizedError{Message: "invalid username or password"}
		}
		return nil, err
	}

	ok, err := authn.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Info("login failed", "user_id", user.ID)
		return nil, &domain.UnauthorizedError{Message: "invalid username or password"}
	}

	return s.issue(user)
}

func (s *authService) Me(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *authService) issue(user *models.User) (*models.AuthResult, error) {
	token, claims, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, err
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return &models.AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}
