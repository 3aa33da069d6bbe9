package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	require.Equal(t, "127.0.0.1:8080", cfg.Addr)
	require.Equal(t, "sqlite", cfg.DatabaseDriver)
	require.Equal(t, 50, cfg.MaxFeedLimit)
}

func TestParseFlags(t *testing.T) {
	old := os.Args
	defer func() { os.Args = old }()
	os.Args = []string{"habitsync-server", "-a", ":9090", "-d", "pgx", "-k", "secret"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	require.Equal(t, ":9090", cfg.Addr)
	require.Equal(t, "pgx", cfg.DatabaseDriver)
	require.Equal(t, "secret", cfg.SecretKey)
}

func TestParseJson(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"addr":":7070","database_dsn":"postgres://db/habits","secret_key":"k1"}`), 0o600))

	old := os.Args
	defer func() { os.Args = old }()
	os.Args = []string{"habitsync-server", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)

	require.Equal(t, ":7070", cfg.Addr)
	require.Equal(t, "postgres://db/habits", cfg.DatabaseDSN)
	require.Equal(t, "k1", cfg.SecretKey)
	require.Equal(t, "sqlite", cfg.DatabaseDriver) // untouched by the file
}
