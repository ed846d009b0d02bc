// Package tasks is the ownership-scoped task store. Every read and write is
// filtered by the owner's user ID inside the SQL predicate, so a task owned
// by somebody else looks exactly like a task that does not exist.
package tasks

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	// List returns the owner's tasks in insertion order.
	List(ctx context.Context, userID string, filter models.TaskFilter) ([]*models.Task, error)
	Get(ctx context.Context, id, userID string) (*models.Task, error)
	// Update overwrites the mutable fields of an owned task.
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id, userID string) error
}

func prepare(task *models.Task, now func() time.Time) {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = models.TaskStatusOpen
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now().UTC()
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = task.CreatedAt
	}
}

// validID reports whether id can name a task at all. Malformed ids are
// answered with common.ErrorNotFound without touching the database.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}
