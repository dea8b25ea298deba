package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"edu-service/internal/auth"
	apperrors "edu-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateTTL    = 10 * time.Minute
	oauthStateBytes  = 32
)

// OAuthHandler drives the federated login flow: redirect to the provider,
// then exchange the callback code for a verified identity, resolve it to a
// local account and issue a token exactly as local login would.
type OAuthHandler struct {
	provider auth.IdentityProvider
	resolver *auth.Resolver
	tokens   *auth.TokenService
}

func NewOAuthHandler(provider auth.IdentityProvider, resolver *auth.Resolver, tokens *auth.TokenService) *OAuthHandler {
	return &OAuthHandler{
		provider: provider,
		resolver: resolver,
		tokens:   tokens,
	}
}

func (h *OAuthHandler) Redirect(c echo.Context) error {
	state, err := randomState()
	if err != nil {
		c.Logger().Errorf("failed to generate oauth state: %v", err)
		return respondError(c, http.StatusInternalServerError, msgFederatedLoginFail)
	}

	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   int(oauthStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusTemporaryRedirect, h.provider.AuthURL(state))
}

func (h *OAuthHandler) Callback(c echo.Context) error {
	state := c.QueryParam("state")
	cookie, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || cookie.Value != state {
		return respondError(c, http.StatusUnauthorized, msgInvalidOAuthState)
	}

	// The state is single-use; expire the cookie as soon as it matches so a
	// replayed callback within the TTL fails the check above.
	c.SetCookie(&http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	code := c.QueryParam("code")
	if code == "" {
		return respondError(c, http.StatusBadRequest, msgInvalidRequestBody)
	}

	ctx := c.Request().Context()

	identity, err := h.provider.Exchange(ctx, code)
	if err != nil {
		c.Logger().Warnf("oauth exchange failed: %v", err)
		if errors.Is(err, apperrors.ErrInvalidIdentity) {
			return respondError(c, http.StatusBadRequest, msgFederatedLoginFail)
		}
		return respondError(c, http.StatusUnauthorized, msgFederatedLoginFail)
	}

	u, err := h.resolver.Resolve(ctx, identity)
	if err != nil {
		c.Logger().Errorf("federated identity resolution failed: %v", err)
		switch {
		case errors.Is(err, apperrors.ErrInvalidIdentity):
			return respondError(c, http.StatusBadRequest, msgFederatedLoginFail)
		case errors.Is(err, apperrors.ErrConflict):
			return respondError(c, http.StatusConflict, msgFederatedLoginFail)
		}
		return respondError(c, http.StatusInternalServerError, msgFederatedLoginFail)
	}

	token, err := h.tokens.Generate(u)
	if err != nil {
		c.Logger().Errorf("token generation failed for user %s: %v", u.ID, err)
		return respondError(c, http.StatusInternalServerError, msgGenerateTokenFail)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		User:        viewOf(u),
		Message:     msgFederatedLoginSuccess,
		AccessToken: token,
	})
}

func randomState() (string, error) {
	buf := make([]byte, oauthStateBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
