// Package gateway defines the remote collaborators the sync engine talks to
// and provides their HTTP implementation. The engine only sees the Client
// interface; tests substitute fakes.
package gateway

import (
	"context"

	"github.com/dkhodakov/habitsync/internal/client/models"
)

// Client is the remote habit and feed gateway. Every call is scoped
// server-side to the authenticated caller; cross-owner calls fail with an
// authorization error, which the engine treats like any other failure.
type Client interface {
	Close() error

	// SetToken installs the bearer token used on subsequent calls.
	SetToken(token string)

	// List returns the caller's full habit and check-in sets.
	List(ctx context.Context) (*models.HabitData, error)

	// CreateHabit creates a habit and returns it with its server-assigned id.
	CreateHabit(ctx context.Context, name string) (*models.Habit, error)

	// UpdateHabit edits a habit's name and/or category.
	UpdateHabit(ctx context.Context, id string, upd models.HabitUpdate) (*models.Habit, error)

	// DeleteHabit deletes a habit; the server cascades its check-ins.
	DeleteHabit(ctx context.Context, id string) error

	// ToggleCheckIn inserts or removes the check-in for (id, date) and
	// reports which action the server took.
	ToggleCheckIn(ctx context.Context, id string, date string) (*models.ToggleResult, error)

	// ListRecent returns the most recent feed events, newest-first.
	ListRecent(ctx context.Context, limit int) ([]models.FeedEvent, error)

	// GetEventDetail returns the joined projection for one check-in id,
	// or common.ErrNotFound when the row no longer exists.
	GetEventDetail(ctx context.Context, id string) (*models.FeedEvent, error)
}
