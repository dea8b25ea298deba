package auth

import (
	"errors"
	"testing"
	"time"

	"edu-service/internal/domain/user"
	apperrors "edu-service/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789abcdefghijklmnop"

func testUser(role user.Role) *user.User {
	return &user.User{
		ID:       uuid.New(),
		Username: "alice",
		Email:    "a@x.com",
		Role:     role,
	}
}

func TestTokenService_RoundTrip(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	u := testUser(user.RoleStudent)

	token, err := svc.Generate(u)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, user.RoleStudent.String(), claims.Role)
	assert.True(t, claims.ExpiresAt.After(claims.IssuedAt.Time))
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewTokenService(testSecret, -time.Minute)

	token, err := svc.Generate(testUser(user.RoleStudent))
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrExpired))
}

func TestTokenService_WrongSecret(t *testing.T) {
	issuer := NewTokenService(testSecret, time.Hour)
	verifier := NewTokenService("another-secret-0123456789abcdefghij", time.Hour)

	token, err := issuer.Generate(testUser(user.RoleStudent))
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))
}

func TestTokenService_Malformed(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Verify(token)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated), "token %q", token)
	}
}

func TestTokenService_RoleGating(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	token, err := svc.Generate(testUser(user.RoleStudent))
	require.NoError(t, err)

	_, err = svc.Verify(token, user.RoleAdmin)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))

	claims, err := svc.Verify(token, user.RoleAdmin, user.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, user.RoleStudent.String(), claims.Role)

	// Empty required set means any authenticated role.
	_, err = svc.Verify(token)
	assert.NoError(t, err)
}

func TestTokenService_UnknownRoleForbidden(t *testing.T) {
	// Sign a token carrying a role outside the closed enum with the same
	// secret; a valid signature must not upgrade an unknown role.
	now := time.Now()
	claims := Claims{
		UserID: uuid.New(),
		Email:  "a@x.com",
		Role:   "SUPERUSER",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	svc := NewTokenService(testSecret, time.Hour)
	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrForbidden))
}

func TestTokenService_RejectsNonHMACAlg(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	// alg=none style tokens must never verify.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: uuid.New(),
		Role:   user.RoleAdmin.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(unsigned)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))
}

func TestTokenService_MissingSecret(t *testing.T) {
	svc := NewTokenService("", time.Hour)

	_, err := svc.Generate(testUser(user.RoleAdmin))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInternal))
}
