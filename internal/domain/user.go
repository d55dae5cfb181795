package domain

import "time"

// User is an account that can sign in and own todos.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	IsGuest      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
