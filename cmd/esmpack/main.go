package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/esmpack/esmpack/pkg/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// The first interrupt cancels the build. Restoring the default handler
	// lets a second one terminate the process if cancellation gets stuck.
	go func() {
		<-ctx.Done()
		stop()
	}()

	exitCode := cli.Run(ctx, os.Args[1:])
	stop()
	os.Exit(exitCode)
}
