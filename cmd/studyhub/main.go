// Command studyhub is a command-line client for the studyhub API.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], streams{in: os.Stdin, out: os.Stdout, err: os.Stderr}, os.Environ)
	stop()
	os.Exit(code)
}

// streams are the command's standard input and outputs.
type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// run executes one command line and returns the process exit code.
func run(ctx context.Context, args []string, s streams, environ func() []string) int {
	a := newApp(s, environ)
	cmd := a.command()
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	a.teardown(context.WithoutCancel(ctx))
	if err != nil {
		printError(s.err, err)
		return 1
	}
	return 0
}
