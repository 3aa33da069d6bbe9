// Package notifier delivers push notifications of new check-in insertions.
// Notifications carry record identity only; consumers fetch the joined
// detail themselves.
package notifier

import "context"

// Notification announces one inserted check-in.
type Notification struct {
	ID string `json:"id"`
}

// Notifier is a single-topic push subscription.
//
// Subscribe registers the process-wide listener and returns the delivery
// channel. The channel is closed when the connection drops, the context is
// canceled, or Close is called. Close must tear the subscription down
// exactly once; further calls are no-ops.
type Notifier interface {
	Subscribe(ctx context.Context) (<-chan Notification, error)
	Close() error
}
