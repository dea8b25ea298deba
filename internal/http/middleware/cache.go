package middleware

import (
	"bytes"
	"net/http"
	"time"

	"edu-service/internal/auth"
	"edu-service/internal/infra/cache"

	"github.com/labstack/echo/v4"
)

const anonymousIdentity = "anon"

// ResponseCache serves successful GET responses from a shared TTL cache.
// It must be installed strictly after the Guard: the request is already
// authorized by the time a cached response can short-circuit the handler,
// and the caller's identity is part of the cache key so one user's cached
// response can never be replayed to another.
type ResponseCache struct {
	store    cache.Store
	ttl      time.Duration
	policies *auth.PolicyRegistry
}

func NewResponseCache(store cache.Store, ttl time.Duration, policies *auth.PolicyRegistry) *ResponseCache {
	return &ResponseCache{
		store:    store,
		ttl:      ttl,
		policies: policies,
	}
}

func (m *ResponseCache) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			policy := m.policies.Lookup(c.Request().Method, c.Path())
			if policy.NoCache {
				return next(c)
			}

			ctx := c.Request().Context()
			key := cacheKey(c)

			if entry, hit := m.store.Get(ctx, key); hit {
				return c.Blob(entry.Status, entry.ContentType, entry.Body)
			}

			capture := &captureWriter{ResponseWriter: c.Response().Writer}
			c.Response().Writer = capture

			if err := next(c); err != nil {
				return err
			}

			status := c.Response().Status
			if status < http.StatusOK || status >= http.StatusMultipleChoices {
				return nil
			}

			entry := &cache.Entry{
				Status:      status,
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				Body:        capture.buf.Bytes(),
			}
			if err := m.store.Set(ctx, key, entry, m.ttl); err != nil {
				// Cache failures never fail the request.
				c.Logger().Warnf("failed to cache response for %s: %v", key, err)
			}

			return nil
		}
	}
}

// cacheKey is method + path + sorted query + caller identity.
func cacheKey(c echo.Context) string {
	identity := anonymousIdentity
	if claims, err := auth.GetClaims(c); err == nil {
		identity = claims.UserID.String()
	}

	req := c.Request()
	return req.Method + " " + req.URL.Path + "?" + req.URL.Query().Encode() + "#" + identity
}

type captureWriter struct {
	http.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}
