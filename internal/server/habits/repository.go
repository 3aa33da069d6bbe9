package habits

import (
	"context"

	"github.com/dkhodakov/habitsync/internal/server/models"
)

// Repository describes CRUD operations for Habit rows. Every operation that
// touches an existing row is scoped to the owning user; a cross-owner id
// behaves exactly like a missing one.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Habit, error)

	GetByID(ctx context.Context, userID, id string) (*models.Habit, error)

	Insert(ctx context.Context, habit *models.Habit) error

	// Update applies non-nil fields and returns common.ErrNotFound when the
	// row does not exist or belongs to someone else.
	Update(ctx context.Context, userID, id string, name, category *string) error

	Delete(ctx context.Context, userID, id string) error
}
