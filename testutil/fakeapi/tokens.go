package fakeapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kbukum/studyhub/model"
)

// AccessTokenTTL is the lifetime of minted access tokens.
const AccessTokenTTL = 15 * time.Minute

const ctxUserID = "user_id"

var errTokenRevoked = errors.New("token revoked")

type accessClaims struct {
	gojwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

// mintLocked signs a new access token for u. Callers hold s.mu.
func (s *Server) mintLocked(u model.User) (string, error) {
	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: gojwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
		UserID: u.ID,
		Email:  u.Email,
		Role:   string(u.Role),
	}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	s.live[claims.ID] = struct{}{}
	return signed, nil
}

// verify checks signature, expiry and revocation and returns the user ID.
func (s *Server) verify(token string) (string, error) {
	var claims accessClaims
	_, err := gojwt.ParseWithClaims(token, &claims, func(t *gojwt.Token) (any, error) {
		return s.secret, nil
	}, gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live[claims.ID]; !ok {
		return "", errTokenRevoked
	}
	return claims.UserID, nil
}

// requireAuth validates the Bearer token and stores the user ID in the Gin
// context. Missing headers get the plain string error shape, bad tokens
// the nested one.
func (s *Server) requireAuth(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Authorization header required",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid authorization header format",
		})
		return
	}

	userID, err := s.verify(parts[1])
	switch {
	case errors.Is(err, errTokenRevoked), errors.Is(err, gojwt.ErrTokenExpired):
		c.AbortWithStatusJSON(http.StatusUnauthorized, nestedError("TOKEN_EXPIRED", "Token has expired"))
		return
	case err != nil:
		c.AbortWithStatusJSON(http.StatusUnauthorized, nestedError("INVALID_TOKEN", "Invalid token"))
		return
	}

	c.Set(ctxUserID, userID)
	c.Next()
}

func nestedError(code, message string) gin.H {
	return gin.H{"error": gin.H{"code": code, "message": message}}
}
