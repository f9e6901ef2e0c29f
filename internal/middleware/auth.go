package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jengzang/roads-dashboard-go/pkg/response"
)

// ClaimsKey is the context key holding the verified token claims
const ClaimsKey = "claims"

var (
	errMissingToken = errors.New("missing bearer token")

	// ErrNoSecret is returned when tokens are issued or checked without a signing secret
	ErrNoSecret = errors.New("jwt secret is not configured")
)

// IssueToken signs an HS256 token for subject valid for ttl
func IssueToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies an HS256 token and returns its claims
func ParseToken(secret, token string) (*jwt.RegisteredClaims, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// JWTAuth rejects requests without a valid bearer token
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.Error(c, http.StatusUnauthorized, "Unauthorized", errMissingToken)
			c.Abort()
			return
		}

		claims, err := ParseToken(secret, strings.TrimSpace(token))
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Unauthorized", err)
			c.Abort()
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}
