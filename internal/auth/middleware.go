package auth

import (
	"errors"
	"net/http"
	"strings"

	apperrors "edu-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Guard intercepts every request before business logic. It resolves the
// route's policy, extracts and verifies the bearer token, attaches the
// claims to the request context and allows or denies in one terminal
// decision per request.
type Guard struct {
	tokens   *TokenService
	policies *PolicyRegistry
}

func NewGuard(tokens *TokenService, policies *PolicyRegistry) *Guard {
	return &Guard{
		tokens:   tokens,
		policies: policies,
	}
}

func (g *Guard) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			policy := g.policies.Lookup(c.Request().Method, c.Path())
			if policy.Public {
				return next(c)
			}

			token := extractBearerToken(c)
			if token == "" {
				return respondError(c, http.StatusUnauthorized, msgMissingAuthorization)
			}

			claims, err := g.tokens.Verify(token, policy.Roles...)
			if err != nil {
				// The precise deny reason stays in the logs; the caller
				// only sees a generic rejection.
				c.Logger().Warnf("request denied for %s %s: %v", c.Request().Method, c.Path(), err)
				if errors.Is(err, apperrors.ErrForbidden) {
					return respondError(c, http.StatusForbidden, msgInsufficientRole)
				}
				return respondError(c, http.StatusUnauthorized, msgInvalidOrExpiredToken)
			}

			c.Set(ContextKeyClaims, claims)

			return next(c)
		}
	}
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(headerAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}

	return parts[1]
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{jsonKeyError: message})
}

// GetClaims returns the verified claims attached by the Guard. Handlers must
// treat the returned value as read-only.
func GetClaims(c echo.Context) (*Claims, error) {
	raw := c.Get(ContextKeyClaims)
	if raw == nil {
		return nil, apperrors.Unauthenticated(msgUserNotAuthenticated)
	}

	claims, ok := raw.(*Claims)
	if !ok || claims == nil {
		return nil, apperrors.Internal(msgInvalidClaimsCtx, nil)
	}

	return claims, nil
}

// GetUserID returns the authenticated user's id from the request context.
func GetUserID(c echo.Context) (uuid.UUID, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}
