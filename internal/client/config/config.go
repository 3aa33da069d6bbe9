package config

import (
	"strings"
	"time"
)

// Config holds runtime settings for the habitsync CLI.
//
// Fields:
//   - ServerURL: base URL of the habitsync HTTP API.
//   - Token: bearer token identifying the user (can also be entered
//     interactively in the REPL).
//   - FeedLimit: bootstrap page size for the activity feed.
//   - RequestTimeout: per-command deadline applied by the CLI layer.
type Config struct {
	ServerURL      string
	Token          string
	FeedLimit      int
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.FeedLimit = 50
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// FeedSocketURL derives the WebSocket endpoint of the feed topic from the
// configured server URL.
func (c *Config) FeedSocketURL() string {
	url := c.ServerURL
	switch {
	case strings.HasPrefix(url, "https://"):
		url = "wss://" + strings.TrimPrefix(url, "https://")
	case strings.HasPrefix(url, "http://"):
		url = "ws://" + strings.TrimPrefix(url, "http://")
	}
	return strings.TrimSuffix(url, "/") + "/api/feed/ws"
}
