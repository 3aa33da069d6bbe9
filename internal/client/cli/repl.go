package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	List(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	Rename(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Check(ctx context.Context, args []string) error
	Feed(ctx context.Context) error
	Momentum(ctx context.Context) error
	Refresh(ctx context.Context) error
	Token(ctx context.Context) error
}

// runREPL reads a line, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back. The loop
// exits on scanner EOF or when the user types "exit" or "quit".
//
// Errors returned by command handlers are printed here so the loop itself
// stays resilient: a failed mutation never ends the session, re-issuing the
// command is the recovery path.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {
	for {
		printlnFn("habitsync> ")
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn("Available commands: (l)ist, add <name>, rename <#> <name>, delete <#>, check <#> [date], feed, momentum, refresh, token, exit")

		case "l", "list":
			err = a.List(ctx)

		case "add":
			err = a.Add(ctx, args)

		case "rename":
			err = a.Rename(ctx, args)

		case "delete", "del":
			err = a.Delete(ctx, args)

		case "check":
			err = a.Check(ctx, args)

		case "feed":
			err = a.Feed(ctx)

		case "momentum":
			err = a.Momentum(ctx)

		case "refresh":
			err = a.Refresh(ctx)

		case "token":
			err = a.Token(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
