package checkins

import (
	"context"

	"github.com/dkhodakov/habitsync/internal/server/models"
)

// Repository describes check-in persistence plus the feed projections built
// on top of it.
type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]models.CheckIn, error)

	// Find returns the check-in for (habitID, userID, date) or
	// common.ErrNotFound. There is at most one by schema constraint.
	Find(ctx context.Context, habitID, userID, date string) (*models.CheckIn, error)

	Insert(ctx context.Context, checkIn *models.CheckIn) error

	Delete(ctx context.Context, id string) error

	// DeleteByHabit removes all of a habit's check-ins (delete cascade).
	DeleteByHabit(ctx context.Context, habitID string) error

	// ListRecentEvents returns the newest feed events joined with user and
	// habit display names, newest-first.
	ListRecentEvents(ctx context.Context, limit int) ([]models.FeedEvent, error)

	// GetEventDetail returns the joined projection for one check-in id or
	// common.ErrNotFound when the row has disappeared.
	GetEventDetail(ctx context.Context, id string) (*models.FeedEvent, error)
}
