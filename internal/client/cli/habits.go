package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dkhodakov/habitsync/internal/client/models"
)

// List prints the habit list with per-habit statistics. Habits are numbered;
// the numbers are what rename/delete/check take as arguments.
func (a *App) List(ctx context.Context) error {
	habits := a.cache.Habits()
	if len(habits) == 0 {
		printlnFn("No habits yet. Try: add <name>")
		return nil
	}

	today := models.FormatDay(time.Now())
	for i, h := range habits {
		s := a.cache.Stats(h.ID)
		mark := " "
		if a.cache.HasCheckIn(h.ID, today) {
			mark = "x"
		}
		line := fmt.Sprintf("%2d. [%s] %s", i+1, mark, h.Name)
		if h.Category != "" {
			line += " (" + h.Category + ")"
		}
		line += fmt.Sprintf(" - %d completions, streak %d", s.TotalCompletions, s.CurrentStreak)
		printlnFn(line)
	}
	return nil
}

func (a *App) Add(ctx context.Context, args []string) error {
	name := strings.Join(args, " ")
	if name == "" {
		var err error
		name, err = GetSimpleText(a.reader, "Habit name")
		if err != nil {
			return err
		}
	}

	var habit *models.Habit
	err := a.withTimeout(ctx, func(ctx context.Context) error {
		var err error
		habit, err = a.cache.CreateHabit(ctx, name)
		return err
	})
	if err != nil {
		return err
	}
	printlnFn("Created:", habit.Name)
	return nil
}

func (a *App) Rename(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: rename <#> <new name>")
	}
	habit, err := a.habitByNumber(args[0])
	if err != nil {
		return err
	}

	name := strings.Join(args[1:], " ")
	err = a.withTimeout(ctx, func(ctx context.Context) error {
		_, err := a.cache.UpdateHabit(ctx, habit.ID, models.HabitUpdate{Name: &name})
		return err
	})
	if err != nil {
		return err
	}
	printlnFn("Renamed to:", name)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: delete <#>")
	}
	habit, err := a.habitByNumber(args[0])
	if err != nil {
		return err
	}

	if err := a.withTimeout(ctx, func(ctx context.Context) error {
		return a.cache.DeleteHabit(ctx, habit.ID)
	}); err != nil {
		return err
	}
	printlnFn("Deleted:", habit.Name)
	return nil
}

// Check toggles the check-in for a habit. Without a date argument the
// current UTC day is used.
func (a *App) Check(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: check <#> [YYYY-MM-DD]")
	}
	habit, err := a.habitByNumber(args[0])
	if err != nil {
		return err
	}

	date := models.FormatDay(time.Now())
	if len(args) > 1 {
		date = args[1]
	}

	if err := a.withTimeout(ctx, func(ctx context.Context) error {
		return a.cache.ToggleCheckIn(ctx, habit.ID, date)
	}); err != nil {
		return err
	}

	if a.cache.HasCheckIn(habit.ID, date) {
		printlnFn(fmt.Sprintf("Checked %s for %s", habit.Name, date))
	} else {
		printlnFn(fmt.Sprintf("Unchecked %s for %s", habit.Name, date))
	}
	return nil
}

func (a *App) Momentum(ctx context.Context) error {
	printlnFn(fmt.Sprintf("7-day momentum: %d%%", a.cache.Momentum()))
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.withTimeout(ctx, a.cache.Refresh); err != nil {
		return err
	}
	printlnFn("Synced.")
	return nil
}

// Token prompts for a bearer token without echoing it and installs it on the
// gateway for subsequent calls.
func (a *App) Token(ctx context.Context) error {
	token, err := GetSecret("Enter token: ")
	if err != nil {
		return err
	}
	a.client.SetToken(strings.TrimSpace(string(token)))
	printlnFn("Token set.")
	return nil
}

func (a *App) habitByNumber(arg string) (*models.Habit, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("not a habit number: %q", arg)
	}
	habits := a.cache.Habits()
	if n < 1 || n > len(habits) {
		return nil, fmt.Errorf("no habit #%d (have %d)", n, len(habits))
	}
	return &habits[n-1], nil
}
