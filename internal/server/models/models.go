// Package models defines the server's persistence rows and API projections.
// JSON tags match what the client gateway expects on the wire.
package models

import "time"

// User is the owner identity extracted from the bearer token and mirrored
// into the store so feed events can join a display name.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Habit struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type CheckIn struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habitId"`
	UserID    string    `json:"userId"`
	Date      string    `json:"date"` // YYYY-MM-DD
	CreatedAt time.Time `json:"-"`
}

// FeedEvent joins a check-in to its owner's and habit's display names.
// Identity equals the check-in id.
type FeedEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	HabitName string    `json:"habitName"`
	Timestamp time.Time `json:"timestamp"`
}
