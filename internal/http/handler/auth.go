package handler

import (
	"errors"
	"net/http"
	"strings"

	"edu-service/internal/auth"
	"edu-service/internal/domain/user"
	"edu-service/internal/repository"
	apperrors "edu-service/pkg/errors"
	"edu-service/pkg/password"
	"edu-service/pkg/validator"

	"github.com/labstack/echo/v4"
)

// Pre-computed bcrypt hash (cost 12) used to equalize timing on failed lookups.
// The actual plaintext is irrelevant — this just ensures constant-time response.
const dummyBcryptHash = "$2a$12$dWR5CQpS4zNHLavLSIr4o.P6QDQEUJKv7mJ7WekUHHqyRSRMJzH0S"

type AuthHandler struct {
	userStore  repository.UserStore
	tokens     *auth.TokenService
	bcryptCost int
}

func NewAuthHandler(userStore repository.UserStore, tokens *auth.TokenService, bcryptCost int) *AuthHandler {
	return &AuthHandler{
		userStore:  userStore,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type UserView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type AuthResponse struct {
	User        UserView `json:"user"`
	Message     string   `json:"message"`
	AccessToken string   `json:"accessToken"`
}

func viewOf(u *user.User) UserView {
	return UserView{
		ID:       u.ID.String(),
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role.String(),
	}
}

func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Username == "" || req.Email == "" || req.Password == "" || req.Role == "" {
		return respondError(c, http.StatusBadRequest, msgMissingFields)
	}

	if err := validator.Username(req.Username); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.Email(req.Email); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}
	if err := validator.Password(req.Password); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	role, ok := user.ParseRole(req.Role)
	if !ok {
		return respondError(c, http.StatusBadRequest, msgInvalidRole)
	}

	passwordHash, err := password.HashWithCost(req.Password, h.bcryptCost)
	if err != nil {
		return respondError(c, http.StatusInternalServerError, msgPasswordProcessFail)
	}

	u, err := h.userStore.Create(c.Request().Context(), user.CreateUserInput{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: &passwordHash,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				return respondError(c, http.StatusConflict, appErr.Message)
			}
			return respondError(c, http.StatusConflict, msgEmailAlreadyExists)
		}
		c.Logger().Errorf("signup failed for %s: %v", req.Email, err)
		return respondError(c, http.StatusInternalServerError, msgCreateAccountFail)
	}

	token, err := h.tokens.Generate(u)
	if err != nil {
		c.Logger().Errorf("token generation failed for user %s: %v", u.ID, err)
		return respondError(c, http.StatusInternalServerError, msgGenerateTokenFail)
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		User:        viewOf(u),
		Message:     msgSignupSuccess,
		AccessToken: token,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindStrictJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		password.Verify("", dummyBcryptHash)
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	u, err := h.userStore.GetByEmail(c.Request().Context(), req.Email)
	if err != nil {
		// Run bcrypt against a dummy hash to prevent timing oracle.
		// Without this, "user not found" returns in ~1ms while
		// "wrong password" takes ~200ms, leaking email existence.
		password.Verify(req.Password, dummyBcryptHash)
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	if !u.HasPassword() {
		// Federated-only accounts have no hash to compare; burn the same
		// bcrypt cost anyway so they are indistinguishable from a wrong
		// password.
		password.Verify(req.Password, dummyBcryptHash)
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	if !password.Verify(req.Password, *u.PasswordHash) {
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	// The submitted role must match the account; an account never changes
	// role by logging in differently.
	if req.Role != "" && req.Role != u.Role.String() {
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	token, err := h.tokens.Generate(u)
	if err != nil {
		c.Logger().Errorf("token generation failed for user %s: %v", u.ID, err)
		return respondError(c, http.StatusInternalServerError, msgGenerateTokenFail)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		User:        viewOf(u),
		Message:     msgLoginSuccess,
		AccessToken: token,
	})
}

// Me returns the account behind the request's verified claims.
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := auth.GetClaims(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, msgInvalidCredentials)
	}

	u, err := h.userStore.GetByID(c.Request().Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return respondError(c, http.StatusNotFound, msgUserNotFound)
		}
		return err
	}

	return c.JSON(http.StatusOK, viewOf(u))
}
