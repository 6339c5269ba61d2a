package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/erraggy/smithygen/cmd/smithygen/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.NewRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		commands.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
