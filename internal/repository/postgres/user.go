package postgres

import (
	"context"
	"fmt"

	"edu-service/internal/domain/user"
	apperrors "edu-service/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = "id, username, email, password_hash, role, first_name, last_name, avatar_url, bio, created_at, updated_at"

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.FirstName,
		&u.LastName,
		&u.AvatarURL,
		&u.Bio,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, input user.CreateUserInput) (*user.User, error) {
	query := `
		INSERT INTO users (username, email, password_hash, role, first_name, last_name, avatar_url, bio)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query,
		input.Username,
		input.Email,
		input.PasswordHash,
		input.Role,
		input.FirstName,
		input.LastName,
		input.AvatarURL,
		input.Bio,
	))

	if err != nil {
		switch {
		case isEmailViolation(err):
			return nil, apperrors.Conflict("user with this email already exists")
		case isUsernameViolation(err):
			return nil, apperrors.Conflict("user with this username already exists")
		case isUniqueViolation(err):
			return nil, apperrors.Conflict("user already exists")
		}
		return nil, errFailedCreateUser(err)
	}

	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = $1"

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedGetUser(err)
	}

	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = $1"

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedGetUser(err)
	}

	return u, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE username = $1"

	u, err := scanUser(r.db.Pool.QueryRow(ctx, query, username))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errUserNotFound)
		}
		return nil, errFailedGetUser(err)
	}

	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, input user.UpdateUserInput) error {
	query := "UPDATE users SET updated_at = NOW()"
	args := []interface{}{id}
	argCount := 1

	appendArg := func(column string, value interface{}) {
		argCount++
		query += fmt.Sprintf(", %s = $%d", column, argCount)
		args = append(args, value)
	}

	if input.Username != nil {
		appendArg("username", *input.Username)
	}
	if input.Email != nil {
		appendArg("email", *input.Email)
	}
	if input.PasswordHash != nil {
		appendArg("password_hash", *input.PasswordHash)
	}
	if input.FirstName != nil {
		appendArg("first_name", *input.FirstName)
	}
	if input.LastName != nil {
		appendArg("last_name", *input.LastName)
	}
	if input.AvatarURL != nil {
		appendArg("avatar_url", *input.AvatarURL)
	}
	if input.Bio != nil {
		appendArg("bio", *input.Bio)
	}

	query += " WHERE id = $1"

	result, err := r.db.Pool.Exec(ctx, query, args...)
	if err != nil {
		switch {
		case isEmailViolation(err):
			return apperrors.Conflict("email already exists")
		case isUsernameViolation(err):
			return apperrors.Conflict("username already exists")
		case isUniqueViolation(err):
			return apperrors.Conflict("user already exists")
		}
		return errFailedUpdateUser(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errUserNotFound)
	}

	return nil
}
