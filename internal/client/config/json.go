package config

import (
	"encoding/json"
	"os"

	"github.com/dkhodakov/habitsync/internal/flagx"
	"github.com/dkhodakov/habitsync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so JSON can specify the timeout either as a string like
// "10s" or as integer nanoseconds.
type JsonConfig struct {
	ServerURL      string         `json:"server_url"`
	Token          string         `json:"token"`
	FeedLimit      int            `json:"feed_limit"`
	RequestTimeout timex.Duration `json:"request_timeout"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c/-config flags; when absent, nothing is loaded.
// Zero-value fields in the file leave the current Config value in place.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != "" {
		cfg.ServerURL = jc.ServerURL
	}
	if jc.Token != "" {
		cfg.Token = jc.Token
	}
	if jc.FeedLimit > 0 {
		cfg.FeedLimit = jc.FeedLimit
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
