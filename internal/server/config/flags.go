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
//	-a string       listen address
//	-d string       database driver (sqlite or pgx)
//	-n string       database DSN
//	-k string       token signing key
//	-issue string   issue a dev token for "user-id:username" and exit
//
// The function filters os.Args to only include the flags it knows about, so
// it does not interfere with flags owned by other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-n", "-k", "-issue"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "listen address")
	fs.StringVar(&cfg.DatabaseDriver, "d", cfg.DatabaseDriver, "database driver (sqlite or pgx)")
	fs.StringVar(&cfg.DatabaseDSN, "n", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "token signing key")
	fs.StringVar(&cfg.IssueFor, "issue", cfg.IssueFor, `issue a dev token for "user-id:username" and exit`)

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
