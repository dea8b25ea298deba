package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"edu-service/internal/domain/user"
	"edu-service/internal/repository"
	apperrors "edu-service/pkg/errors"
)

// FederatedIdentity is the externally-verified profile handed over by an
// identity provider. It is transient input and never stored verbatim.
type FederatedIdentity struct {
	Email     string
	Subject   string
	FirstName string
	LastName  string
	AvatarURL string
}

// Resolver links externally-authenticated identities to local accounts by
// email. Existing accounts are returned unchanged: provider profile fields
// never overwrite local ones.
type Resolver struct {
	users repository.UserStore
}

func NewResolver(users repository.UserStore) *Resolver {
	return &Resolver{users: users}
}

// Resolve finds or creates the local user for a federated identity. First
// logins default to the STUDENT role and carry no password hash. Concurrent
// first logins for the same email race on creation; the loser gets the
// store's uniqueness Conflict and retries once as a lookup.
func (r *Resolver) Resolve(ctx context.Context, identity FederatedIdentity) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" {
		return nil, apperrors.InvalidIdentity(msgMissingEmail)
	}

	u, err := r.users.GetByEmail(ctx, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.Internal("failed to look up federated user", err)
	}

	u, err = r.createFromIdentity(ctx, email, identity)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, apperrors.ErrConflict) {
		return nil, err
	}

	// Lost the creation race: the account exists now, fetch it.
	u, err = r.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Conflict("federated account creation conflict")
		}
		return nil, apperrors.Internal("failed to look up federated user", err)
	}

	return u, nil
}

func (r *Resolver) createFromIdentity(ctx context.Context, email string, identity FederatedIdentity) (*user.User, error) {
	input := user.CreateUserInput{
		Username:  usernameFromEmail(email),
		Email:     email,
		Role:      user.RoleStudent,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		AvatarURL: identity.AvatarURL,
	}

	u, err := r.users.Create(ctx, input)
	if err == nil {
		return u, nil
	}

	// A username collision with an unrelated account is not the email race;
	// retry once with a random suffix before giving up.
	if errors.Is(err, apperrors.ErrConflict) {
		if _, lookupErr := r.users.GetByEmail(ctx, email); lookupErr == nil {
			return nil, err
		}
		input.Username = input.Username + "-" + randomSuffix()
		return r.users.Create(ctx, input)
	}

	return nil, apperrors.Internal("failed to create federated user", err)
}

func usernameFromEmail(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		local = email[:at]
	}

	var b strings.Builder
	for _, ch := range local {
		switch {
		case ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9', ch == '.', ch == '_', ch == '-':
			b.WriteRune(ch)
		case ch >= 'A' && ch <= 'Z':
			b.WriteRune(ch + ('a' - 'A'))
		}
	}

	if b.Len() < 3 {
		return "user-" + randomSuffix()
	}

	return b.String()
}

func randomSuffix() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(buf)
}
