package config

// Config holds runtime settings for the habitsync server.
//
// Fields:
//   - Addr: listen address for the HTTP API.
//   - DatabaseDriver: "sqlite" or "pgx".
//   - DatabaseDSN: driver-specific connection string.
//   - SecretKey: HMAC key used to verify bearer tokens.
//   - MaxFeedLimit: hard cap on the feed page size a client may request.
//   - IssueFor: dev convenience, "user-id:username"; when set the server
//     prints a signed token for that identity and exits.
type Config struct {
	Addr           string
	DatabaseDriver string
	DatabaseDSN    string
	SecretKey      string
	MaxFeedLimit   int
	IssueFor       string
}

// LoadDefaults populates c with sensible defaults. The sqlite defaults make a
// bare `habitsync-server` invocation work with no external database.
func (c *Config) LoadDefaults() {
	c.Addr = "127.0.0.1:8080"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "file:habitsync.db"
	c.MaxFeedLimit = 50
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
