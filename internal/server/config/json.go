package config

import (
	"encoding/json"
	"os"

	"github.com/dkhodakov/habitsync/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	Addr           string `json:"addr"`
	DatabaseDriver string `json:"database_driver"`
	DatabaseDSN    string `json:"database_dsn"`
	SecretKey      string `json:"secret_key"`
	MaxFeedLimit   int    `json:"max_feed_limit"`
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

	if jc.Addr != "" {
		cfg.Addr = jc.Addr
	}
	if jc.DatabaseDriver != "" {
		cfg.DatabaseDriver = jc.DatabaseDriver
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SecretKey != "" {
		cfg.SecretKey = jc.SecretKey
	}
	if jc.MaxFeedLimit > 0 {
		cfg.MaxFeedLimit = jc.MaxFeedLimit
	}
}
