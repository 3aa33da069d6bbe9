package config

import (
	"flag"
	"os"

	"github.com/dkhodakov/habitsync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the habitsync server (default from Config)
//	-t string   bearer token
//	-l int      feed bootstrap page size
//
// The function filters os.Args to only include the flags it knows about, so
// it does not interfere with flags owned by other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the habitsync server")
	fs.StringVar(&cfg.Token, "t", cfg.Token, "bearer token")
	fs.IntVar(&cfg.FeedLimit, "l", cfg.FeedLimit, "feed bootstrap page size")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
