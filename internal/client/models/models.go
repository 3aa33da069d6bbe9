// Package models defines the client-side data model: habits, check-ins and
// feed events as the server reports them, plus the DTOs exchanged with the
// remote gateway.
package models

import "time"

// DayFormat is the calendar-day encoding used for check-in dates.
// Day granularity only; no time of day, no zone offset.
const DayFormat = "2006-01-02"

// Habit is a recurring habit owned by a single user.
type Habit struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CheckIn records that a habit was completed on a calendar day.
// At most one check-in exists per (habit, date, user).
type CheckIn struct {
	ID      string `json:"id"`
	HabitID string `json:"habitId"`
	UserID  string `json:"userId"`
	Date    string `json:"date"` // YYYY-MM-DD
}

// HabitData is the bulk payload returned by the gateway's List call and the
// unit the mutation cache snapshots before an optimistic change.
type HabitData struct {
	Habits   []Habit   `json:"habits"`
	CheckIns []CheckIn `json:"checkIns"`
}

// Clone returns a deep copy. Snapshots must not alias cache slices.
func (d HabitData) Clone() HabitData {
	out := HabitData{
		Habits:   make([]Habit, len(d.Habits)),
		CheckIns: make([]CheckIn, len(d.CheckIns)),
	}
	copy(out.Habits, d.Habits)
	copy(out.CheckIns, d.CheckIns)
	return out
}

// HabitUpdate carries an edit to a habit's metadata. Nil fields are left
// unchanged.
type HabitUpdate struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
}

// Toggle actions reported by the server.
const (
	ActionChecked   = "checked"
	ActionUnchecked = "unchecked"
	ActionUpdated   = "updated"
)

// ToggleResult is the server's answer to a check-in toggle.
type ToggleResult struct {
	Action  string   `json:"action"`
	CheckIn *CheckIn `json:"checkIn,omitempty"`
}

// FeedEvent is a read-only projection joining a check-in to its owner's and
// habit's display names. Identity equals the check-in id.
type FeedEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	HabitName string    `json:"habitName"`
	Timestamp time.Time `json:"timestamp"`
}

// ParseDay parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayFormat, s)
}

// FormatDay renders t's calendar day in UTC as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DayFormat)
}
