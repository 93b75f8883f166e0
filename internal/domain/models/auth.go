package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims issued by the auth service.
// The subject claim carries the numeric user id.
type Claims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, exp, iat, jti)
	Username             string `json:"username,omitempty"`
}

// GetUserID returns the numeric user ID from the JWT subject claim.
func (c *Claims) GetUserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid subject %q", c.Subject)
	}
	return id, nil
}
