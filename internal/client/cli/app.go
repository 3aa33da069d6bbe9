// Package cli implements the interactive habitsync client: a small REPL over
// the mutation cache and the feed synchronizer.
package cli

import (
	"bufio"
	"context"
	"log"
	"log/slog"
	"net/url"
	"os"
	"time"

	"github.com/dkhodakov/habitsync/internal/client/cache"
	"github.com/dkhodakov/habitsync/internal/client/config"
	"github.com/dkhodakov/habitsync/internal/client/feed"
	"github.com/dkhodakov/habitsync/internal/client/gateway"
	"github.com/dkhodakov/habitsync/internal/client/notifier"
	"github.com/dkhodakov/habitsync/internal/logging"
)

type App struct {
	config *config.Config
	client gateway.Client
	cache  *cache.Cache
	feed   *feed.Synchronizer
	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	client := gateway.NewHTTPClient(c.ServerURL)
	if c.Token != "" {
		client.SetToken(c.Token)
	}

	// websocket clients cannot send an Authorization header, so the token
	// rides along as a query parameter
	socketURL := c.FeedSocketURL()
	if c.Token != "" {
		socketURL += "?token=" + url.QueryEscape(c.Token)
	}
	source := notifier.NewWSNotifier(socketURL, logger)

	return &App{
		config: c,
		client: client,
		cache:  cache.New(client, logger),
		feed:   feed.New(client, source, logger),
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

// Run syncs initial state, starts the live feed merge, and enters the REPL.
// Teardown of the push subscription and the HTTP client happens on exit.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.feed.Close(); err != nil {
			log.Printf("feed teardown: %v", err)
		}
		_ = a.client.Close()
	}()

	if err := a.withTimeout(ctx, a.cache.Refresh); err != nil {
		log.Printf("initial sync failed (use 'refresh' to retry): %v", err)
	}
	if err := a.withTimeout(ctx, a.feed.Bootstrap); err != nil {
		log.Printf("feed bootstrap failed: %v", err)
	}
	if err := a.feed.Start(ctx); err != nil {
		log.Printf("feed subscription failed: %v", err)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, scanner)
}

// withTimeout runs one remote operation under the configured deadline.
func (a *App) withTimeout(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, a.requestTimeout())
	defer cancel()
	return fn(ctx)
}

func (a *App) requestTimeout() time.Duration {
	if a.config.RequestTimeout > 0 {
		return a.config.RequestTimeout
	}
	return 10 * time.Second
}
