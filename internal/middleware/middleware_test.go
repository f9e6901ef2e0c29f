package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterAllow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "limits are per client")

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"), "window has passed")
}

func TestRateLimiterEvict(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, time.Minute)
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	now = now.Add(30 * time.Second)
	rl.Allow("b")
	require.Equal(t, 2, rl.Clients())

	now = now.Add(45 * time.Second)
	rl.evict()
	assert.Equal(t, 1, rl.Clients())
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newEngine(RateLimit(NewRateLimiter(1, time.Hour)))

	assert.Equal(t, http.StatusOK, get(r, "").Code)
	w := get(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "Terlalu banyak permintaan")
}

func TestRateLimitDisabled(t *testing.T) {
	r := newEngine(RateLimit(NewRateLimiter(0, time.Minute)))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, get(r, "").Code)
	}
}

func TestJWTAuth(t *testing.T) {
	const secret = "test-secret"
	r := newEngine(JWTAuth(secret))

	token, err := IssueToken(secret, "admin", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(r, "Bearer "+token).Code)

	other, err := IssueToken("other-secret", "admin", time.Hour)
	require.NoError(t, err)
	expired, err := IssueToken(secret, "admin", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"empty token", "Bearer "},
		{"garbage", "Bearer not-a-token"},
		{"wrong secret", "Bearer " + other},
		{"expired", "Bearer " + expired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, get(r, tt.header).Code)
		})
	}
}

func TestParseTokenClaims(t *testing.T) {
	token, err := IssueToken("s", "ops", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken("s", token)
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
}

func TestLoggerPassesThrough(t *testing.T) {
	r := newEngine(Logger())
	w := get(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestEmptySecretRejected(t *testing.T) {
	_, err := IssueToken("", "admin", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)

	forged, err := IssueToken("known-default", "admin", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken("", forged)
	assert.ErrorIs(t, err, ErrNoSecret)

	r := newEngine(JWTAuth(""))
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer "+forged).Code)
}
