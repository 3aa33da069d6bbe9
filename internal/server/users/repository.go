package users

import (
	"context"

	"github.com/dkhodakov/habitsync/internal/server/models"
)

// Repository persists user display identities.
type Repository interface {
	// Upsert inserts the user or refreshes its username.
	Upsert(ctx context.Context, user *models.User) error

	// GetByID returns a user or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
