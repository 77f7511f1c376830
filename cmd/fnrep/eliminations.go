package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/harrowgate/fnrep/replay"
)

func eliminationsCommand() *cli.Command {
	return &cli.Command{
		Name:      "eliminations",
		Usage:     "Print every knock/kill event recorded in a replay",
		ArgsUsage: "<replay-file>",
		Action:    runEliminations,
	}
}

func runEliminations(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("%w: got %d", errMissingArgument, cmd.NArg())
	}
	path := cmd.Args().First()

	r, err := replay.ParseFileConfig(path, replay.Config{Events: true})
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Eliminations)
}
