package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when an account already uses the email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrStoreUnavailable is returned when no database was configured.
	ErrStoreUnavailable = errors.New("store unavailable")
)
