package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"edu-service/internal/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(2, 2)

	assert.True(t, rl.Allow("test-key"))
	assert.True(t, rl.Allow("test-key"))

	// Burst exhausted.
	assert.False(t, rl.Allow("test-key"))
}

func TestRateLimiter_DifferentKeys(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	assert.True(t, rl.Allow("key1"))
	assert.True(t, rl.Allow("key2"))

	assert.False(t, rl.Allow("key1"))
	assert.False(t, rl.Allow("key2"))
}

func TestRateLimiter_Middleware(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(2, 2)
	mw := rl.Middleware()

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	run := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		assert.NoError(t, mw(handler)(c))
		return rec
	}

	first := run()
	assert.Equal(t, http.StatusOK, first.Code)
	assert.NotEmpty(t, first.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, first.Header().Get("X-RateLimit-Remaining"))

	second := run()
	assert.Equal(t, http.StatusOK, second.Code)

	third := run()
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "0", third.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "1", third.Header().Get("Retry-After"))
}

func TestRateLimiter_AuthenticatedUsersLimitedIndependently(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(1, 1)
	mw := rl.Middleware()

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}

	runAs := func(userID uuid.UUID) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set(auth.ContextKeyClaims, &auth.Claims{UserID: userID})
		assert.NoError(t, mw(handler)(c))
		return rec.Code
	}

	alice := uuid.New()
	bob := uuid.New()

	// Requests share a client IP but carry distinct identities, so one
	// user exhausting their bucket must not throttle the other.
	assert.Equal(t, http.StatusOK, runAs(alice))
	assert.Equal(t, http.StatusTooManyRequests, runAs(alice))
	assert.Equal(t, http.StatusOK, runAs(bob))
}
