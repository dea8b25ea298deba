package auth

import (
	"errors"
	"fmt"
	"time"

	"edu-service/internal/domain/user"
	apperrors "edu-service/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the decoded payload of a bearer token. It is reconstructed on
// every request and never persisted.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// UserRole returns the claims' role as the closed enum. The second return is
// false when the token carries a role value outside the enum.
func (c *Claims) UserRole() (user.Role, bool) {
	return user.ParseRole(c.Role)
}

type TokenService struct {
	secret []byte
	expiry time.Duration
}

func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		expiry: expiry,
	}
}

// Generate mints a signed, time-bounded bearer token for the user. Tokens
// are stateless: once issued they stay valid until expiry, there is no
// revocation list.
func (s *TokenService) Generate(u *user.User) (string, error) {
	if len(s.secret) == 0 {
		return "", apperrors.Internal(msgSigningSecretMissing, nil)
	}

	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.Internal("failed to sign token", err)
	}

	return signed, nil
}

// Verify validates signature and expiry, reconstructs the claims and, when
// requiredRoles is non-empty, enforces role membership. A valid signature
// carrying a role outside the closed enum is Forbidden, never upgraded.
func (s *TokenService) Verify(tokenString string, requiredRoles ...user.Role) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf(msgUnexpectedSigningMethod, token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Expired(msgTokenExpired)
		}
		return nil, apperrors.Unauthenticated(msgTokenInvalid)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.Unauthenticated(msgTokenInvalid)
	}

	role, ok := claims.UserRole()
	if !ok {
		return nil, apperrors.Forbidden(msgUnknownRole)
	}

	if len(requiredRoles) > 0 && !roleAllowed(role, requiredRoles) {
		return nil, apperrors.Forbidden(msgInsufficientRole)
	}

	return claims, nil
}

func roleAllowed(role user.Role, allowed []user.Role) bool {
	for _, r := range allowed {
		if role == r {
			return true
		}
	}
	return false
}
