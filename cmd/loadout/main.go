package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/danieljhkim/loadout/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		cli.PrintError(os.Stderr, err.Error())
		os.Exit(1)
	}
}
