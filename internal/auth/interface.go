package auth

import "harmonyhealth/internal/domain/models"

// TokenVerifier defines the interface for bearer token verification.
// The middleware only depends on this, so local HS256 tokens and an
// external JWKS-backed identity provider are interchangeable.
type TokenVerifier interface {
	// VerifyToken validates a token string and returns the parsed claims.
	// Returns domain.ErrUnauthorized if the token is invalid or expired.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier
	Close() error
}

// TokenIssuer mints session tokens for authenticated users
type TokenIssuer interface {
	IssueToken(user *models.User) (token string, claims *models.Claims, err error)
}
