package stats

import (
	"testing"
	"time"

	"github.com/dkhodakov/habitsync/internal/client/models"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func day(offset int) string {
	return models.FormatDay(testNow.AddDate(0, 0, offset))
}

func checkIn(habitID string, dateOffset int) models.CheckIn {
	return models.CheckIn{
		ID:      habitID + day(dateOffset),
		HabitID: habitID,
		UserID:  "u1",
		Date:    day(dateOffset),
	}
}

func TestComputeAt_EmptySet(t *testing.T) {
	s := ComputeAt("h1", nil, testNow)
	require.Equal(t, Stats{TotalCompletions: 0, CurrentStreak: 0}, s)
}

func TestComputeAt_StreakWithGap(t *testing.T) {
	// today, today-1, today-2 checked; gap at today-3
	ins := []models.CheckIn{
		checkIn("h1", 0),
		checkIn("h1", -1),
		checkIn("h1", -2),
		checkIn("h1", -4),
	}
	s := ComputeAt("h1", ins, testNow)
	require.Equal(t, 4, s.TotalCompletions)
	require.Equal(t, 3, s.CurrentStreak)
}

func TestComputeAt_GraceForToday(t *testing.T) {
	// no check-in today, but yesterday and the day before
	ins := []models.CheckIn{
		checkIn("h1", -1),
		checkIn("h1", -2),
	}
	s := ComputeAt("h1", ins, testNow)
	require.Equal(t, 2, s.CurrentStreak)
}

func TestComputeAt_GapBreaksImmediately(t *testing.T) {
	// nothing today or yesterday; a check-in two days ago does not count
	ins := []models.CheckIn{checkIn("h1", -2)}
	s := ComputeAt("h1", ins, testNow)
	require.Equal(t, 1, s.TotalCompletions)
	require.Equal(t, 0, s.CurrentStreak)
}

func TestComputeAt_OrderIndependent(t *testing.T) {
	a := []models.CheckIn{checkIn("h1", -2), checkIn("h1", 0), checkIn("h1", -1)}
	b := []models.CheckIn{checkIn("h1", 0), checkIn("h1", -1), checkIn("h1", -2)}
	require.Equal(t, ComputeAt("h1", a, testNow), ComputeAt("h1", b, testNow))
}

func TestComputeAt_OtherHabitsIgnored(t *testing.T) {
	ins := []models.CheckIn{
		checkIn("h1", 0),
		checkIn("h2", 0),
		checkIn("h2", -1),
	}
	s := ComputeAt("h1", ins, testNow)
	require.Equal(t, 1, s.TotalCompletions)
	require.Equal(t, 1, s.CurrentStreak)
}

func TestComputeAt_DuplicateDatesNotDoubleCounted(t *testing.T) {
	dup := checkIn("h1", 0)
	dup.ID = "other-id"
	ins := []models.CheckIn{checkIn("h1", 0), dup, checkIn("h1", -1)}

	s := ComputeAt("h1", ins, testNow)
	// total reflects raw entries, the streak walk must not
	require.Equal(t, 3, s.TotalCompletions)
	require.Equal(t, 2, s.CurrentStreak)
}

func TestComputeAt_Deterministic(t *testing.T) {
	ins := []models.CheckIn{checkIn("h1", 0), checkIn("h1", -1)}
	first := ComputeAt("h1", ins, testNow)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, ComputeAt("h1", ins, testNow))
	}
}

func TestMomentumAt_NoHabits(t *testing.T) {
	require.Equal(t, 0, MomentumAt(nil, nil, testNow))
}

func TestMomentumAt_PartialWeek(t *testing.T) {
	habits := []models.Habit{{ID: "h1"}, {ID: "h2"}}
	ins := []models.CheckIn{
		checkIn("h1", 0),
		checkIn("h2", -1),
		checkIn("h1", -3),
		checkIn("other", -2), // not ours
	}
	// 3 of 7 days covered -> 43%
	require.Equal(t, 43, MomentumAt(habits, ins, testNow))
}

func TestMomentumAt_FullWeek(t *testing.T) {
	habits := []models.Habit{{ID: "h1"}}
	var ins []models.CheckIn
	for i := 0; i < 7; i++ {
		ins = append(ins, checkIn("h1", -i))
	}
	require.Equal(t, 100, MomentumAt(habits, ins, testNow))
}
