package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	if err := fang.Execute(ctx, rootCmd); err != nil {
		stop()
		os.Exit(1)
	}

	stop()
	os.Exit(exitCode)
}
