package errors

import "errors"

var (
	// ErrBlankField is returned when a submitted form field is empty.
	ErrBlankField = errors.New("field is blank")
	// ErrInvalidName is returned when a name fails format validation.
	ErrInvalidName = errors.New("invalid name format")
	// ErrInvalidEmail is returned when an email fails format validation.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrInvalidPassword is returned when a password fails format validation.
	ErrInvalidPassword = errors.New("invalid password format")
	// ErrUserExists is returned when a user with the same name or email already exists.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when no single user matches the lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword is returned when the password does not match the stored hash.
	ErrWrongPassword = errors.New("wrong password")
)
