package main

import (
	"context"
	"os"
	"os/signal"

	"keystack/cmd/keystack/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.Execute(ctx, os.Args[1:]); err != nil {
		stop()
		os.Exit(1)
	}
}
