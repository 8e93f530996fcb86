package services

import (
	"regexp"

	apperrors "github.com/slothcave/members-portal/internal/errors"
)

// nameRegex validates names: letters and spaces only, at most 20 characters
var nameRegex = regexp.MustCompile(`^[a-zA-Z ]{1,20}$`)

// emailRegex validates email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	maxEmailLength    = 50
	maxPasswordLength = 20
)

// validateSignup checks the signup fields. The blank check runs before any
// format validation so empty forms surface a distinct error.
func validateSignup(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return apperrors.ErrBlankField
	}

	if !nameRegex.MatchString(name) {
		return apperrors.ErrInvalidName
	}

	if len(email) > maxEmailLength || !emailRegex.MatchString(email) {
		return apperrors.ErrInvalidEmail
	}

	if len(password) > maxPasswordLength {
		return apperrors.ErrInvalidPassword
	}

	return nil
}

// validateLoginName checks only the name format. The password is never
// format-validated before login, only matched against the stored hash.
func validateLoginName(name string) error {
	if !nameRegex.MatchString(name) {
		return apperrors.ErrInvalidName
	}
	return nil
}
