// Package cache holds the client's single source of truth for habits and
// check-ins and mediates every write through an optimistic protocol:
// snapshot before mutating, replace with server truth on confirmation,
// restore the snapshot on failure.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dkhodakov/habitsync/internal/client/gateway"
	"github.com/dkhodakov/habitsync/internal/client/models"
	"github.com/dkhodakov/habitsync/internal/client/stats"
	"github.com/dkhodakov/habitsync/internal/common"
	"github.com/dkhodakov/habitsync/internal/logging"
	"github.com/google/uuid"
)

// placeholderPrefix marks locally synthesized check-in ids. They exist only
// while the insert request is in flight and are replaced by server identity
// during reconciliation.
const placeholderPrefix = "optimistic-"

// Cache owns the in-memory {habits, checkIns} state. All mutations go
// through its methods; readers receive copies, never internal slices.
type Cache struct {
	client gateway.Client
	log    logging.Logger

	mu   sync.Mutex
	data models.HabitData

	// gen counts mutations per entity. A rollback whose generation no
	// longer matches is stale (a newer mutation took over) and is dropped.
	gen map[string]uint64
}

func New(client gateway.Client, log logging.Logger) *Cache {
	return &Cache{
		client: client,
		log:    log.With("component", "cache"),
		gen:    make(map[string]uint64),
	}
}

// Refresh replaces local state with the server's authoritative sets.
func (c *Cache) Refresh(ctx context.Context) error {
	data, err := c.client.List(ctx)
	if err != nil {
		return fmt.Errorf("fetching habits: %w", err)
	}

	c.mu.Lock()
	c.data = *data
	c.mu.Unlock()
	return nil
}

// Habits returns a copy of the current habit list, creation order preserved.
func (c *Cache) Habits() []models.Habit {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Habit, len(c.data.Habits))
	copy(out, c.data.Habits)
	return out
}

// CheckIns returns a copy of the current check-in set.
func (c *Cache) CheckIns() []models.CheckIn {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.CheckIn, len(c.data.CheckIns))
	copy(out, c.data.CheckIns)
	return out
}

// HasCheckIn reports whether (habitID, date) is currently checked.
func (c *Cache) HasCheckIn(habitID, date string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.findCheckIn(habitID, date) >= 0
}

// Stats derives completion statistics for one habit.
func (c *Cache) Stats(habitID string) stats.Stats {
	return stats.Compute(habitID, c.CheckIns())
}

// Momentum scores the last seven days across all habits.
func (c *Cache) Momentum() int {
	c.mu.Lock()
	habits := make([]models.Habit, len(c.data.Habits))
	copy(habits, c.data.Habits)
	checkIns := make([]models.CheckIn, len(c.data.CheckIns))
	copy(checkIns, c.data.CheckIns)
	c.mu.Unlock()
	return stats.Momentum(habits, checkIns)
}

// CreateHabit validates the name, asks the server to create the habit and
// merges the confirmed record in. No optimistic insert: the server assigns
// the identity, so there is nothing sensible to show before it answers.
func (c *Cache) CreateHabit(ctx context.Context, name string) (*models.Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: habit name must not be empty", common.ErrValidation)
	}

	habit, err := c.client.CreateHabit(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("creating habit: %w", err)
	}

	c.mu.Lock()
	c.data.Habits = append(c.data.Habits, *habit)
	c.mu.Unlock()
	return habit, nil
}

// DeleteHabit optimistically removes the habit, then confirms with the
// server. On failure the pre-mutation snapshot is restored verbatim. On
// success a full re-fetch reconciles the cascaded check-in deletions.
func (c *Cache) DeleteHabit(ctx context.Context, id string) error {
	c.mu.Lock()
	snap := c.data.Clone()
	genAt := c.bumpGen(id)

	kept := c.data.Habits[:0:0]
	found := false
	for _, h := range c.data.Habits {
		if h.ID == id {
			found = true
			continue
		}
		kept = append(kept, h)
	}
	c.data.Habits = kept
	c.mu.Unlock()

	if !found {
		return fmt.Errorf("%w: habit %s", common.ErrNotFound, id)
	}

	if err := c.client.DeleteHabit(ctx, id); err != nil {
		c.restore(id, genAt, snap)
		return fmt.Errorf("deleting habit: %w", err)
	}

	c.reconcile(ctx)
	return nil
}

// ToggleCheckIn flips the check-in for (habitID, date): insert-if-absent,
// delete-if-present. The insert path synthesizes a placeholder check-in so
// the change is visible immediately; reconciliation replaces it with server
// identity, and failure restores the snapshot.
func (c *Cache) ToggleCheckIn(ctx context.Context, habitID, date string) error {
	if _, err := models.ParseDay(date); err != nil {
		return fmt.Errorf("%w: invalid date %q", common.ErrValidation, date)
	}

	c.mu.Lock()
	snap := c.data.Clone()
	genAt := c.bumpGen(habitID)

	if i := c.findCheckIn(habitID, date); i >= 0 {
		c.data.CheckIns = append(c.data.CheckIns[:i], c.data.CheckIns[i+1:]...)
	} else {
		c.data.CheckIns = append(c.data.CheckIns, models.CheckIn{
			ID:      placeholderPrefix + uuid.NewString(),
			HabitID: habitID,
			Date:    date,
		})
	}
	c.mu.Unlock()

	res, err := c.client.ToggleCheckIn(ctx, habitID, date)
	if err != nil {
		c.restore(habitID, genAt, snap)
		return fmt.Errorf("toggling check-in: %w", err)
	}

	c.mergeToggle(habitID, date, genAt, res)
	return nil
}

// UpdateHabit edits name/category. Edits are low-frequency and go through an
// explicit edit flow, so no optimistic mutation: local state changes only
// after the server confirms.
func (c *Cache) UpdateHabit(ctx context.Context, id string, upd models.HabitUpdate) (*models.Habit, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, fmt.Errorf("%w: habit name must not be empty", common.ErrValidation)
	}

	habit, err := c.client.UpdateHabit(ctx, id, upd)
	if err != nil {
		return nil, fmt.Errorf("updating habit: %w", err)
	}

	c.mu.Lock()
	for i := range c.data.Habits {
		if c.data.Habits[i].ID == id {
			c.data.Habits[i] = *habit
			break
		}
	}
	c.mu.Unlock()
	return habit, nil
}

// findCheckIn returns the index of (habitID, date) or -1. Callers hold mu.
func (c *Cache) findCheckIn(habitID, date string) int {
	for i, ci := range c.data.CheckIns {
		if ci.HabitID == habitID && ci.Date == date {
			return i
		}
	}
	return -1
}

// bumpGen advances the entity's mutation generation. Callers hold mu.
func (c *Cache) bumpGen(entity string) uint64 {
	c.gen[entity]++
	return c.gen[entity]
}

// restore puts the snapshot back unless a newer mutation on the same entity
// has started since; a stale rollback must not clobber newer optimistic
// state.
func (c *Cache) restore(entity string, genAt uint64, snap models.HabitData) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen[entity] != genAt {
		return
	}
	c.data = snap
}

// mergeToggle reconciles local state with the server's toggle response,
// swapping any placeholder for the confirmed check-in. Skipped when a newer
// mutation owns the entity.
func (c *Cache) mergeToggle(habitID, date string, genAt uint64, res *models.ToggleResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen[habitID] != genAt {
		return
	}

	i := c.findCheckIn(habitID, date)
	switch res.Action {
	case models.ActionChecked:
		if res.CheckIn == nil {
			return
		}
		if i >= 0 {
			c.data.CheckIns[i] = *res.CheckIn
		} else {
			c.data.CheckIns = append(c.data.CheckIns, *res.CheckIn)
		}
	case models.ActionUnchecked:
		if i >= 0 {
			c.data.CheckIns = append(c.data.CheckIns[:i], c.data.CheckIns[i+1:]...)
		}
	}
}

// reconcile re-fetches server truth after a confirmed mutation. Best effort:
// the mutation already succeeded, so a failed re-fetch is only logged and
// the next Refresh will converge.
func (c *Cache) reconcile(ctx context.Context) {
	if err := c.Refresh(ctx); err != nil {
		c.log.Warn(ctx, "post-mutation refresh failed", "err", err)
	}
}
