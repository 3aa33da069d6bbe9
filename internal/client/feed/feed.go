// Package feed merges a one-time bulk fetch of recent activity with a live
// change subscription into a single newest-first, duplicate-free event list.
//
// Identity-based deduplication is the sole consistency mechanism: arrival
// timing is never used to infer correctness. Live events are always
// prepended ahead of the bootstrap page, even when that makes timestamps
// locally non-monotonic at the boundary.
package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dkhodakov/habitsync/internal/client/gateway"
	"github.com/dkhodakov/habitsync/internal/client/models"
	"github.com/dkhodakov/habitsync/internal/client/notifier"
	"github.com/dkhodakov/habitsync/internal/common"
	"github.com/dkhodakov/habitsync/internal/logging"
)

// DefaultLimit is the bootstrap page size requested from the feed gateway.
// The server applies its own cap on top.
const DefaultLimit = 50

// Synchronizer owns the merged feed list. Only the synchronizer writes to
// it; everything else reads through Events.
type Synchronizer struct {
	client gateway.Client
	source notifier.Notifier
	log    logging.Logger
	limit  int

	mu     sync.Mutex
	events []models.FeedEvent
	seen   map[string]struct{}

	teardown sync.Once
	done     chan struct{}
}

func New(client gateway.Client, source notifier.Notifier, log logging.Logger) *Synchronizer {
	return &Synchronizer{
		client: client,
		source: source,
		log:    log.With("component", "feed"),
		limit:  DefaultLimit,
		seen:   make(map[string]struct{}),
		done:   make(chan struct{}),
	}
}

// Bootstrap performs the one-time bulk fetch. It is not repeated; after it
// returns, the list is maintained incrementally by the live merge.
func (s *Synchronizer) Bootstrap(ctx context.Context) error {
	events, err := s.client.ListRecent(ctx, s.limit)
	if err != nil {
		return fmt.Errorf("feed bootstrap: %w", err)
	}

	s.mu.Lock()
	s.events = events
	s.seen = make(map[string]struct{}, len(events))
	for _, e := range events {
		s.seen[e.ID] = struct{}{}
	}
	s.mu.Unlock()
	return nil
}

// Start establishes the push subscription and launches the merge loop. The
// loop exits when the subscription channel closes or Close is called.
func (s *Synchronizer) Start(ctx context.Context) error {
	ch, err := s.source.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("feed subscription: %w", err)
	}

	go s.mergeLoop(ctx, ch)
	return nil
}

func (s *Synchronizer) mergeLoop(ctx context.Context, ch <-chan notifier.Notification) {
	for {
		select {
		case note, ok := <-ch:
			if !ok {
				return
			}
			s.merge(ctx, note.ID)
		case <-s.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// merge fetches the joined detail for one notified identity and prepends it,
// unless the identity is already present. A failed or empty detail lookup
// means the event lost significance (e.g. raced with a deletion): the
// notification is dropped silently and never retried.
func (s *Synchronizer) merge(ctx context.Context, id string) {
	s.mu.Lock()
	_, dup := s.seen[id]
	s.mu.Unlock()
	if dup {
		return
	}

	event, err := s.client.GetEventDetail(ctx, id)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.log.Debug(ctx, "dropping feed notification", "id", id, "err", err)
		}
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// re-check: a duplicate notification may have raced the detail fetch
	if _, dup := s.seen[id]; dup {
		return
	}
	s.seen[id] = struct{}{}
	s.events = append([]models.FeedEvent{*event}, s.events...)
}

// Events returns a copy of the merged list, newest-first.
func (s *Synchronizer) Events() []models.FeedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FeedEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Close stops the merge loop and tears the push subscription down. Exactly
// one teardown happens no matter how many times Close is called.
func (s *Synchronizer) Close() error {
	var err error
	s.teardown.Do(func() {
		close(s.done)
		err = s.source.Close()
	})
	return err
}
