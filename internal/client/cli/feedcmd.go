package cli

import (
	"context"
	"fmt"
	"time"
)

// Feed prints the merged activity stream, newest-first.
func (a *App) Feed(ctx context.Context) error {
	events := a.feed.Events()
	if len(events) == 0 {
		printlnFn("No activity yet.")
		return nil
	}
	for _, e := range events {
		printlnFn(fmt.Sprintf("%-12s %s completed %q", timeAgo(e.Timestamp), e.UserName, e.HabitName))
	}
	return nil
}

func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
