// Command dayview lays out and renders a day of calendar events.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/dayview/internal/cli"
)

func main() {
	os.Exit(execute())
}

// execute runs the root command until it finishes or the process is asked
// to stop, and reports the exit status. Deferred cleanup runs before exit.
func execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.New(os.Stderr, cli.LogInfo).RootCommand().ExecuteContext(ctx)
	code := cli.ExitCode(err)
	if code == cli.ExitFailure {
		fmt.Fprintln(os.Stderr, err)
	}
	return code
}
