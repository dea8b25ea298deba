package validator

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minEmailLength    = 3
	maxEmailLength    = 255
	minPasswordLength = 8
	maxPasswordLength = 128
	minUsernameLength = 3
	maxUsernameLength = 64
	maxNameLength     = 128
	maxBioLength      = 2048

	errEmailEmptyFmt        = "email cannot be empty"
	errEmailLengthFmt       = "email must be between %d and %d characters"
	errEmailInvalidFmt      = "invalid email format"
	errPasswordMinLengthFmt = "password must be at least %d characters"
	errPasswordMaxLengthFmt = "password must not exceed %d characters"
	errUsernameEmptyFmt     = "username cannot be empty"
	errUsernameLengthFmt    = "username must be between %d and %d characters"
	errUsernameInvalidFmt   = "username may only contain letters, digits, dots, dashes and underscores"
	errRoleEmptyFmt         = "role cannot be empty"
	errNameMaxLengthFmt     = "name must not exceed %d characters"
	errBioMaxLengthFmt      = "bio must not exceed %d characters"
	errNameControlCharsFmt  = "name cannot contain control characters"
	asciiControlStart       = 32
	asciiDelete             = 127
)

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
)

func Email(email string) error {
	if email == "" {
		return fmt.Errorf(errEmailEmptyFmt)
	}

	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return fmt.Errorf(errEmailLengthFmt, minEmailLength, maxEmailLength)
	}

	if !emailRegex.MatchString(email) {
		return fmt.Errorf(errEmailInvalidFmt)
	}

	return nil
}

func Password(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf(errPasswordMinLengthFmt, minPasswordLength)
	}

	if len(password) > maxPasswordLength {
		return fmt.Errorf(errPasswordMaxLengthFmt, maxPasswordLength)
	}

	return nil
}

func Username(username string) error {
	if username == "" {
		return fmt.Errorf(errUsernameEmptyFmt)
	}

	if len(username) < minUsernameLength || len(username) > maxUsernameLength {
		return fmt.Errorf(errUsernameLengthFmt, minUsernameLength, maxUsernameLength)
	}

	if !usernameRegex.MatchString(username) {
		return fmt.Errorf(errUsernameInvalidFmt)
	}

	return nil
}

func Role(role string) error {
	if strings.TrimSpace(role) == "" {
		return fmt.Errorf(errRoleEmptyFmt)
	}

	return nil
}

func Name(name string) error {
	if len(name) > maxNameLength {
		return fmt.Errorf(errNameMaxLengthFmt, maxNameLength)
	}

	for _, char := range name {
		if char < asciiControlStart || char == asciiDelete {
			return fmt.Errorf(errNameControlCharsFmt)
		}
	}

	return nil
}

func Bio(bio string) error {
	if len(bio) > maxBioLength {
		return fmt.Errorf(errBioMaxLengthFmt, maxBioLength)
	}

	return nil
}
