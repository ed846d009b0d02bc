// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account. PasswordHash is a self-describing bcrypt record; the
// plaintext password is never stored.
type User struct {
	ID           string
	UserName     string
	PasswordHash string
	CreatedAt    time.Time
}
