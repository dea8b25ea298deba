package user

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account roles. Role is assigned at creation and
// never changes through this service.
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
	RoleAdmin      Role = "ADMIN"
)

// ParseRole maps a raw role name onto the closed enum.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID       uuid.UUID
	Username string
	Email    string
	// PasswordHash is nil for accounts created through a federated login.
	PasswordHash *string
	Role         Role
	FirstName    string
	LastName     string
	AvatarURL    string
	Bio          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can authenticate with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

type CreateUserInput struct {
	Username     string
	Email        string
	PasswordHash *string
	Role         Role
	FirstName    string
	LastName     string
	AvatarURL    string
	Bio          string
}

type UpdateUserInput struct {
	Username     *string
	Email        *string
	PasswordHash *string
	FirstName    *string
	LastName     *string
	AvatarURL    *string
	Bio          *string
}
