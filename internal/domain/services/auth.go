package services

import (
	"context"

	"harmonyhealth/internal/domain/models"
)

// RegisterRequest carries new account credentials
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

// LoginRequest carries login credentials
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthService manages accounts and session tokens
type AuthService interface {
	// Register creates the user and its default profile in one transaction
	Register(ctx context.Context, req *RegisterRequest) (*models.AuthResult, error)

	// Login verifies credentials and issues a token
	Login(ctx context.Context, req *LoginRequest) (*models.AuthResult, error)

	// Me returns the authenticated user
	Me(ctx context.Context, userID int64) (*models.User, error)
}
