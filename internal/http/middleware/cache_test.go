package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"edu-service/internal/auth"
	"edu-service/internal/infra/cache"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testIdentityHeader = "X-Test-User"

// identityStub stands in for the Guard: it attaches claims for the user
// named in a test header, leaving requests without one anonymous.
func identityStub() echo.MiddlewareFunc {
	ids := map[string]uuid.UUID{}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if name := c.Request().Header.Get(testIdentityHeader); name != "" {
				id, ok := ids[name]
				if !ok {
					id = uuid.New()
					ids[name] = id
				}
				c.Set(auth.ContextKeyClaims, &auth.Claims{UserID: id})
			}
			return next(c)
		}
	}
}

type cacheFixture struct {
	echo     *echo.Echo
	policies *auth.PolicyRegistry
	calls    atomic.Int64
}

func newCacheFixture(t *testing.T, ttl time.Duration) *cacheFixture {
	t.Helper()
	f := &cacheFixture{
		echo:     echo.New(),
		policies: auth.NewPolicyRegistry(),
	}

	gate := NewResponseCache(cache.NewMemoryStore(64), ttl, f.policies)
	f.echo.Use(identityStub())
	f.echo.Use(gate.Middleware())

	handler := func(c echo.Context) error {
		n := f.calls.Add(1)
		return c.JSON(http.StatusOK, map[string]interface{}{
			"call":     n,
			"category": c.QueryParam("category"),
		})
	}

	f.echo.GET("/api/courses", handler)
	f.policies.Register(http.MethodGet, "/api/courses", auth.Roles())

	f.echo.GET("/api/live", handler)
	f.policies.Register(http.MethodGet, "/api/live", auth.Roles().WithNoCache())

	f.echo.POST("/api/courses", handler)
	f.policies.Register(http.MethodPost, "/api/courses", auth.Roles().WithNoCache())

	f.echo.GET("/api/error", func(c echo.Context) error {
		f.calls.Add(1)
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "upstream"})
	})
	f.policies.Register(http.MethodGet, "/api/error", auth.Roles())

	return f
}

func (f *cacheFixture) request(method, target, userName string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if userName != "" {
		req.Header.Set(testIdentityHeader, userName)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func TestResponseCache_HandlerInvokedOnceWithinTTL(t *testing.T) {
	f := newCacheFixture(t, time.Minute)

	first := f.request(http.MethodGet, "/api/courses", "alice")
	second := f.request(http.MethodGet, "/api/courses", "alice")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.Bytes(), second.Body.Bytes())
	assert.Equal(t, int64(1), f.calls.Load())
}

func TestResponseCache_BypassRouteInvokesHandlerEveryTime(t *testing.T) {
	f := newCacheFixture(t, time.Minute)

	for i := 0; i < 3; i++ {
		rec := f.request(http.MethodGet, "/api/live", "alice")
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, int64(3), f.calls.Load())
}

func TestResponseCache_ExpiredEntryReinvokesHandler(t *testing.T) {
	f := newCacheFixture(t, 10*time.Millisecond)

	f.request(http.MethodGet, "/api/courses", "alice")
	time.Sleep(20 * time.Millisecond)
	f.request(http.MethodGet, "/api/courses", "alice")

	assert.Equal(t, int64(2), f.calls.Load())
}

func TestResponseCache_KeyIncludesIdentity(t *testing.T) {
	f := newCacheFixture(t, time.Minute)

	alice := f.request(http.MethodGet, "/api/courses", "alice")
	bob := f.request(http.MethodGet, "/api/courses", "bob")

	// One user's cached response must never be replayed to another.
	assert.Equal(t, int64(2), f.calls.Load())
	assert.NotEqual(t, alice.Body.String(), bob.Body.String())

	aliceAgain := f.request(http.MethodGet, "/api/courses", "alice")
	assert.Equal(t, alice.Body.String(), aliceAgain.Body.String())
	assert.Equal(t, int64(2), f.calls.Load())
}

func TestResponseCache_KeyIncludesQuery(t *testing.T) {
	f := newCacheFixture(t, time.Minute)

	f.request(http.MethodGet, "/api/courses?category=go", "alice")
	f.request(http.MethodGet, "/api/courses?category=rust", "alice")
	f.request(http.MethodGet, "/api/courses?category=go", "alice")

	assert.Equal(t, int64(2), f.calls.Load())
}

func TestResponseCache_AnonymousIsItsOwnIdentity(t *testing.T) {
	f := newCacheFixture(t, time.Minute)

	f.request(http.MethodGet, "/api/courses", "")
	f.request(http.MethodGet, "/api/courses", "alice")

	assert.Equal(t, int64(2), f.calls.Load())
}

func TestResponseCache_NonGETNotCached(t *testing.T) {
	f := newCacheFixture(t, time.Minute)

	f.request(http.MethodPost, "/api/courses", "alice")
	f.request(http.MethodPost, "/api/courses", "alice")

	assert.Equal(t, int64(2), f.calls.Load())
}

func TestResponseCache_ErrorResponsesNotCached(t *testing.T) {
	f := newCacheFixture(t, time.Minute)

	first := f.request(http.MethodGet, "/api/error", "alice")
	second := f.request(http.MethodGet, "/api/error", "alice")

	assert.Equal(t, http.StatusBadGateway, first.Code)
	assert.Equal(t, http.StatusBadGateway, second.Code)
	assert.Equal(t, int64(2), f.calls.Load())
}

func TestResponseCache_StoreFailureDegradesToMiss(t *testing.T) {
	policies := auth.NewPolicyRegistry()
	policies.Register(http.MethodGet, "/api/courses", auth.Roles())

	e := echo.New()
	gate := NewResponseCache(failingStore{}, time.Minute, policies)
	e.Use(gate.Middleware())

	var calls atomic.Int64
	e.GET("/api/courses", func(c echo.Context) error {
		calls.Add(1)
		return c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/courses", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", rec.Body.String())
	}

	assert.Equal(t, int64(2), calls.Load())
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (*cache.Entry, bool) {
	return nil, false
}

func (failingStore) Set(context.Context, string, *cache.Entry, time.Duration) error {
	return fmt.Errorf("store unavailable")
}

func (failingStore) Delete(context.Context, string) error {
	return fmt.Errorf("store unavailable")
}
