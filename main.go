package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bookforge/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := NewApp(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bookforge:", err)
		return 1
	}
	defer app.Shutdown()

	root := cli.NewRootCommand(&cli.App{
		Config:   app.Config,
		Logger:   app.Logger,
		Services: app.Services,
	})
	if err := root.ExecuteContext(ctx); err != nil {
		if code, ok := cli.IsExitError(err); ok {
			return code
		}
		fmt.Fprintln(os.Stderr, "bookforge:", err)
		return 1
	}
	return 0
}
