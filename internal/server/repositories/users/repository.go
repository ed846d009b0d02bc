// Package users is the credential store: it persists accounts and looks
// them up by username. Accounts are never updated or deleted.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophtasks/internal/server/models"
	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts user, filling ID and CreatedAt when empty. A taken
	// username yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetUserByLogin returns common.ErrorNotFound when no account matches.
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
}

func prepare(user *models.User, now func() time.Time) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now().UTC()
	}
}
