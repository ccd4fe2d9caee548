package auth

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of access token claims worth showing a user.
type Claims struct {
	Subject   string    `json:"subject" yaml:"subject"`
	Email     string    `json:"email,omitempty" yaml:"email,omitempty"`
	Role      string    `json:"role,omitempty" yaml:"role,omitempty"`
	IssuedAt  time.Time `json:"issued_at,omitempty" yaml:"issued_at,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// Expired reports whether the token had expired at now. Tokens without an
// exp claim never expire.
func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// tokenClaims mirrors the backend's access token payload.
type tokenClaims struct {
	gojwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// InspectToken decodes the claims of a JWT access token without verifying
// its signature.
func InspectToken(token string) (Claims, error) {
	if token == "" {
		return Claims{}, errors.New("auth: empty token")
	}

	var tc tokenClaims
	if _, _, err := gojwt.NewParser().ParseUnverified(token, &tc); err != nil {
		return Claims{}, fmt.Errorf("auth: decode token: %w", err)
	}

	claims := Claims{
		Subject: tc.Subject,
		Email:   tc.Email,
		Role:    tc.Role,
	}
	if claims.Subject == "" {
		claims.Subject = tc.UserID
	}
	if tc.IssuedAt != nil {
		claims.IssuedAt = tc.IssuedAt.Time
	}
	if tc.ExpiresAt != nil {
		claims.ExpiresAt = tc.ExpiresAt.Time
	}
	return claims, nil
}
