// A simple CLI app to parse and display information about a battle
// royale replay passed as a CLI argument.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

const (
	appName    = "fnrep"
	appVersion = "v0.1.0"
)

func main() {
	ctx := context.Background()

	app := &cli.Command{
		Name:    appName,
		Usage:   "Battle royale replay decoder",
		Version: appVersion,
		Commands: []*cli.Command{
			infoCommand(),
			eliminationsCommand(),
			framesCommand(),
			historyCommand(),
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
