// Package models holds the client-side view of server data.
package models

import "time"

type Task struct {
	ID          string
	Title       string
	Description string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
