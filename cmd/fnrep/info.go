package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/harrowgate/fnrep/replay"
)

var errMissingArgument = errors.New("expected exactly one argument: replay file path")

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "Print a replay's header and match telemetry as JSON",
		ArgsUsage: "<replay-file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "indent",
				Value: true,
				Usage: "use indentation when formatting output",
			},
			&cli.StringFlag{
				Name:    "outfile",
				Aliases: []string{"o"},
				Usage:   "optional output file name, defaults to stdout",
			},
		},
		Action: runInfo,
	}
}

func runInfo(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("%w: got %d", errMissingArgument, cmd.NArg())
	}
	path := cmd.Args().First()

	r, err := replay.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	out := os.Stdout
	if name := cmd.String("outfile"); name != "" {
		f, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	if cmd.Bool("indent") {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(r)
}
