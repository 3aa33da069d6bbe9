// Package stats derives streak and completion statistics from an unordered
// check-in log. All functions are pure: no I/O, no hidden state, and the
// result is independent of input ordering.
//
// Calendar days are evaluated in UTC, for both "today" and stored dates.
package stats

import (
	"time"

	"github.com/dkhodakov/habitsync/internal/client/models"
)

// Stats summarizes one habit's check-in history.
type Stats struct {
	TotalCompletions int
	CurrentStreak    int
}

// Compute returns the completion count and current streak for habitID,
// evaluated against the current UTC day.
func Compute(habitID string, checkIns []models.CheckIn) Stats {
	return ComputeAt(habitID, checkIns, time.Now().UTC())
}

// ComputeAt is Compute with an explicit reference time for "today".
//
// The streak counts consecutive calendar days walking backward from today.
// A missing check-in today does not break the streak as long as yesterday
// has one: the walk then starts at yesterday. If neither today nor yesterday
// is checked, the streak is 0.
func ComputeAt(habitID string, checkIns []models.CheckIn, now time.Time) Stats {
	// Dedupe defensively: duplicate (habit, date) pairs are a cache
	// invariant violation upstream, but they must not double the streak.
	days := make(map[string]struct{})
	total := 0
	for _, c := range checkIns {
		if c.HabitID != habitID {
			continue
		}
		total++
		days[c.Date] = struct{}{}
	}

	s := Stats{TotalCompletions: total}
	if len(days) == 0 {
		return s
	}

	today := now.UTC().Truncate(24 * time.Hour)
	start := today
	if _, ok := days[models.FormatDay(start)]; !ok {
		start = start.AddDate(0, 0, -1)
		if _, ok := days[models.FormatDay(start)]; !ok {
			return s
		}
	}

	for d := start; ; d = d.AddDate(0, 0, -1) {
		if _, ok := days[models.FormatDay(d)]; !ok {
			break
		}
		s.CurrentStreak++
	}
	return s
}

// Momentum scores the last 7 calendar days (today included) as the
// percentage of days with at least one check-in on any of the given habits.
// Returns 0 when the habit list is empty.
func Momentum(habits []models.Habit, checkIns []models.CheckIn) int {
	return MomentumAt(habits, checkIns, time.Now().UTC())
}

// MomentumAt is Momentum with an explicit reference time.
func MomentumAt(habits []models.Habit, checkIns []models.CheckIn, now time.Time) int {
	if len(habits) == 0 {
		return 0
	}

	owned := make(map[string]struct{}, len(habits))
	for _, h := range habits {
		owned[h.ID] = struct{}{}
	}

	checkedDays := make(map[string]struct{})
	for _, c := range checkIns {
		if _, ok := owned[c.HabitID]; ok {
			checkedDays[c.Date] = struct{}{}
		}
	}

	today := now.UTC().Truncate(24 * time.Hour)
	done := 0
	for i := 0; i < 7; i++ {
		day := models.FormatDay(today.AddDate(0, 0, -i))
		if _, ok := checkedDays[day]; ok {
			done++
		}
	}

	return int(float64(done)/7*100 + 0.5)
}
