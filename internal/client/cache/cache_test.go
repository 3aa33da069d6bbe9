package cache

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/dkhodakov/habitsync/internal/client/gateway"
	"github.com/dkhodakov/habitsync/internal/client/models"
	"github.com/dkhodakov/habitsync/internal/common"
	"github.com/dkhodakov/habitsync/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeGateway implements gateway.Client with presettable responses, in the
// style of the service-layer fakes used elsewhere in the project.
type fakeGateway struct {
	gateway.Client

	listData *models.HabitData
	listErr  error

	createHabit *models.Habit
	createErr   error

	deleteErr error

	updateHabit *models.Habit
	updateErr   error

	toggleRes *models.ToggleResult
	toggleErr error

	// onToggle, when set, runs before the toggle response is returned.
	onToggle func()

	listCalls   int
	deleteCalls []string
}

func (f *fakeGateway) List(ctx context.Context) (*models.HabitData, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	data := f.listData.Clone()
	return &data, nil
}

func (f *fakeGateway) CreateHabit(ctx context.Context, name string) (*models.Habit, error) {
	return f.createHabit, f.createErr
}

func (f *fakeGateway) DeleteHabit(ctx context.Context, id string) error {
	f.deleteCalls = append(f.deleteCalls, id)
	return f.deleteErr
}

func (f *fakeGateway) UpdateHabit(ctx context.Context, id string, upd models.HabitUpdate) (*models.Habit, error) {
	return f.updateHabit, f.updateErr
}

func (f *fakeGateway) ToggleCheckIn(ctx context.Context, id, date string) (*models.ToggleResult, error) {
	if f.onToggle != nil {
		f.onToggle()
	}
	return f.toggleRes, f.toggleErr
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

func seedData() *models.HabitData {
	return &models.HabitData{
		Habits: []models.Habit{
			{ID: "h1", UserID: "u1", Name: "Read"},
			{ID: "h2", UserID: "u1", Name: "Run"},
			{ID: "h3", UserID: "u1", Name: "Meditate"},
		},
		CheckIns: []models.CheckIn{
			{ID: "c1", HabitID: "h1", UserID: "u1", Date: "2026-03-13"},
			{ID: "c2", HabitID: "h2", UserID: "u1", Date: "2026-03-14"},
		},
	}
}

func newCache(t *testing.T, fg *fakeGateway) *Cache {
	t.Helper()
	c := New(fg, testLogger())
	require.NoError(t, c.Refresh(context.Background()))
	return c
}

func TestRefresh_PopulatesState(t *testing.T) {
	c := newCache(t, &fakeGateway{listData: seedData()})
	require.Len(t, c.Habits(), 3)
	require.Len(t, c.CheckIns(), 2)
}

func TestCreateHabit_EmptyNameRejectedBeforeRequest(t *testing.T) {
	fg := &fakeGateway{listData: seedData()}
	c := newCache(t, fg)

	_, err := c.CreateHabit(context.Background(), "   ")
	require.ErrorIs(t, err, common.ErrValidation)
	require.Len(t, c.Habits(), 3) // no state change
}

func TestCreateHabit_MergesServerHabit(t *testing.T) {
	fg := &fakeGateway{
		listData:    seedData(),
		createHabit: &models.Habit{ID: "h4", Name: "Write"},
	}
	c := newCache(t, fg)

	habit, err := c.CreateHabit(context.Background(), "Write")
	require.NoError(t, err)
	require.Equal(t, "h4", habit.ID)

	habits := c.Habits()
	require.Len(t, habits, 4)
	require.Equal(t, "h4", habits[3].ID)
}

func TestCreateHabit_FailureLeavesStateUntouched(t *testing.T) {
	fg := &fakeGateway{listData: seedData(), createErr: errors.New("boom")}
	c := newCache(t, fg)

	_, err := c.CreateHabit(context.Background(), "Write")
	require.Error(t, err)
	require.Len(t, c.Habits(), 3)
}

func TestDeleteHabit_FailureRestoresExactList(t *testing.T) {
	fg := &fakeGateway{listData: seedData(), deleteErr: errors.New("network down")}
	c := newCache(t, fg)

	before := c.Habits()
	err := c.DeleteHabit(context.Background(), "h2")
	require.Error(t, err)

	// same members, same order
	require.Equal(t, before, c.Habits())
	require.Equal(t, seedData().CheckIns, c.CheckIns())
}

func TestDeleteHabit_SuccessReconciles(t *testing.T) {
	data := seedData()
	fg := &fakeGateway{listData: data}
	c := newCache(t, fg)

	// server truth after the cascade
	fg.listData = &models.HabitData{
		Habits:   []models.Habit{{ID: "h1", Name: "Read"}, {ID: "h3", Name: "Meditate"}},
		CheckIns: []models.CheckIn{{ID: "c1", HabitID: "h1", Date: "2026-03-13"}},
	}

	require.NoError(t, c.DeleteHabit(context.Background(), "h2"))
	require.Equal(t, []string{"h2"}, fg.deleteCalls)

	habits := c.Habits()
	require.Len(t, habits, 2)
	for _, h := range habits {
		require.NotEqual(t, "h2", h.ID)
	}
	require.Len(t, c.CheckIns(), 1) // cascaded check-in gone
}

func TestDeleteHabit_UnknownID(t *testing.T) {
	fg := &fakeGateway{listData: seedData()}
	c := newCache(t, fg)

	err := c.DeleteHabit(context.Background(), "nope")
	require.ErrorIs(t, err, common.ErrNotFound)
	require.Empty(t, fg.deleteCalls)
}

func TestToggleCheckIn_InvalidDate(t *testing.T) {
	fg := &fakeGateway{listData: seedData()}
	c := newCache(t, fg)

	err := c.ToggleCheckIn(context.Background(), "h1", "14-03-2026")
	require.ErrorIs(t, err, common.ErrValidation)
	require.Len(t, c.CheckIns(), 2)
}

func TestToggleCheckIn_CheckThenUncheckRoundTrip(t *testing.T) {
	fg := &fakeGateway{listData: seedData()}
	c := newCache(t, fg)
	ctx := context.Background()
	before := c.CheckIns()

	fg.toggleRes = &models.ToggleResult{
		Action:  models.ActionChecked,
		CheckIn: &models.CheckIn{ID: "c9", HabitID: "h1", UserID: "u1", Date: "2026-03-14"},
	}
	require.NoError(t, c.ToggleCheckIn(ctx, "h1", "2026-03-14"))
	require.True(t, c.HasCheckIn("h1", "2026-03-14"))

	fg.toggleRes = &models.ToggleResult{Action: models.ActionUnchecked}
	require.NoError(t, c.ToggleCheckIn(ctx, "h1", "2026-03-14"))

	require.Equal(t, before, c.CheckIns())
}

func TestToggleCheckIn_PlaceholderReplacedByServerIdentity(t *testing.T) {
	fg := &fakeGateway{
		listData: seedData(),
		toggleRes: &models.ToggleResult{
			Action:  models.ActionChecked,
			CheckIn: &models.CheckIn{ID: "real-id", HabitID: "h3", UserID: "u1", Date: "2026-03-14"},
		},
	}
	c := newCache(t, fg)

	// observe the optimistic placeholder while the request is in flight
	var sawPlaceholder bool
	fg.onToggle = func() {
		for _, ci := range c.CheckIns() {
			if ci.HabitID == "h3" && ci.Date == "2026-03-14" {
				sawPlaceholder = strings.HasPrefix(ci.ID, "optimistic-")
			}
		}
	}

	require.NoError(t, c.ToggleCheckIn(context.Background(), "h3", "2026-03-14"))
	require.True(t, sawPlaceholder)

	for _, ci := range c.CheckIns() {
		require.False(t, strings.HasPrefix(ci.ID, "optimistic-"), "placeholder persisted: %s", ci.ID)
	}
	require.True(t, c.HasCheckIn("h3", "2026-03-14"))
}

func TestToggleCheckIn_FailureRestoresSnapshot(t *testing.T) {
	fg := &fakeGateway{listData: seedData(), toggleErr: errors.New("500")}
	c := newCache(t, fg)

	before := c.CheckIns()
	err := c.ToggleCheckIn(context.Background(), "h1", "2026-03-14")
	require.Error(t, err)
	require.Equal(t, before, c.CheckIns())
}

func TestToggleCheckIn_StaleRollbackSuppressed(t *testing.T) {
	fg := &fakeGateway{listData: seedData()}
	c := newCache(t, fg)
	ctx := context.Background()

	// First toggle fails, but by the time it would roll back, a second
	// mutation on the same habit has already taken over.
	fg.toggleErr = errors.New("late failure")
	fg.onToggle = func() {
		fg.onToggle = nil // only once
		fg.toggleErr = nil
		fg.toggleRes = &models.ToggleResult{
			Action:  models.ActionChecked,
			CheckIn: &models.CheckIn{ID: "c10", HabitID: "h1", UserID: "u1", Date: "2026-03-15"},
		}
		require.NoError(t, c.ToggleCheckIn(ctx, "h1", "2026-03-15"))
	}

	err := c.ToggleCheckIn(ctx, "h1", "2026-03-14")
	require.Error(t, err)

	// the newer optimistic state must survive the stale rollback
	require.True(t, c.HasCheckIn("h1", "2026-03-15"))
}

func TestUpdateHabit_NoOptimisticMutation(t *testing.T) {
	fg := &fakeGateway{listData: seedData(), updateErr: errors.New("rejected")}
	c := newCache(t, fg)

	name := "Read more"
	_, err := c.UpdateHabit(context.Background(), "h1", models.HabitUpdate{Name: &name})
	require.Error(t, err)
	require.Equal(t, "Read", c.Habits()[0].Name)
}

func TestUpdateHabit_MergesConfirmedHabit(t *testing.T) {
	fg := &fakeGateway{
		listData:    seedData(),
		updateHabit: &models.Habit{ID: "h1", Name: "Read more", Category: "learning"},
	}
	c := newCache(t, fg)

	name := "Read more"
	habit, err := c.UpdateHabit(context.Background(), "h1", models.HabitUpdate{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Read more", habit.Name)

	habits := c.Habits()
	require.Equal(t, "Read more", habits[0].Name)
	require.Equal(t, "learning", habits[0].Category)
	require.Equal(t, "h2", habits[1].ID) // order preserved
}

func TestUpdateHabit_EmptyNameRejected(t *testing.T) {
	fg := &fakeGateway{listData: seedData()}
	c := newCache(t, fg)

	name := " "
	_, err := c.UpdateHabit(context.Background(), "h1", models.HabitUpdate{Name: &name})
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestStats_UsesCacheState(t *testing.T) {
	fg := &fakeGateway{listData: seedData()}
	c := newCache(t, fg)

	s := c.Stats("h1")
	require.Equal(t, 1, s.TotalCompletions)
}

func TestReaders_ReturnCopies(t *testing.T) {
	fg := &fakeGateway{listData: seedData()}
	c := newCache(t, fg)

	habits := c.Habits()
	habits[0].Name = "mutated"
	require.Equal(t, "Read", c.Habits()[0].Name)
}
