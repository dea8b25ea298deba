package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// uniqueViolationConstraint returns the name of the violated constraint so
// callers can distinguish an email collision from a username collision.
func uniqueViolationConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return pgErr.ConstraintName
	}
	return ""
}

func isEmailViolation(err error) bool {
	return strings.Contains(uniqueViolationConstraint(err), "email")
}

func isUsernameViolation(err error) bool {
	return strings.Contains(uniqueViolationConstraint(err), "username")
}
