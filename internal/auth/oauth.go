package auth

import (
	"context"

	apperrors "edu-service/pkg/errors"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const googleIssuer = "https://accounts.google.com"

// IdentityProvider is the boundary to an external OIDC provider: it produces
// the redirect URL for the login flow and turns an authorization code into a
// verified FederatedIdentity.
type IdentityProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (FederatedIdentity, error)
}

// OIDCProvider implements IdentityProvider against any OIDC issuer that
// supports discovery. ID tokens are verified (signature, audience, expiry)
// before any profile field is trusted.
type OIDCProvider struct {
	oauth    *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

func NewOIDCProvider(ctx context.Context, issuer, clientID, clientSecret, redirectURL string) (*OIDCProvider, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, apperrors.Internal("oidc discovery failed", err)
	}

	return &OIDCProvider{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// NewGoogleProvider wires the Google issuer.
func NewGoogleProvider(ctx context.Context, clientID, clientSecret, redirectURL string) (*OIDCProvider, error) {
	return NewOIDCProvider(ctx, googleIssuer, clientID, clientSecret, redirectURL)
}

func (p *OIDCProvider) AuthURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

func (p *OIDCProvider) Exchange(ctx context.Context, code string) (FederatedIdentity, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return FederatedIdentity{}, apperrors.Unauthenticated("code exchange failed")
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return FederatedIdentity{}, apperrors.Unauthenticated("provider response missing id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return FederatedIdentity{}, apperrors.Unauthenticated("id_token verification failed")
	}

	var profile struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		GivenName     string `json:"given_name"`
		FamilyName    string `json:"family_name"`
		Picture       string `json:"picture"`
	}
	if err := idToken.Claims(&profile); err != nil {
		return FederatedIdentity{}, apperrors.InvalidIdentity("unreadable id_token claims")
	}

	// An account the provider has not verified an email for is unusable here.
	if profile.Email == "" || !profile.EmailVerified {
		return FederatedIdentity{}, apperrors.InvalidIdentity(msgMissingEmail)
	}

	return FederatedIdentity{
		Email:     profile.Email,
		Subject:   idToken.Subject,
		FirstName: profile.GivenName,
		LastName:  profile.FamilyName,
		AvatarURL: profile.Picture,
	}, nil
}
