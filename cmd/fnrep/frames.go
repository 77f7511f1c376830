package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/harrowgate/fnrep/container"
	"github.com/harrowgate/fnrep/replay"
)

// codecByName resolves a --codec flag value to a Decompressor. Oodle is
// deliberately absent: see container.OodleDecompressor.
func codecByName(name string) (container.Decompressor, error) {
	switch name {
	case "", "zlib":
		return container.ZlibDecompressor{}, nil
	case "identity":
		return container.IdentityDecompressor{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q (want zlib or identity)", name)
	}
}

func framesCommand() *cli.Command {
	return &cli.Command{
		Name:      "frames",
		Usage:     "Decode and print a replay's network-replication frames",
		ArgsUsage: "<replay-file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "codec",
				Value: "zlib",
				Usage: "data-chunk decompressor: zlib or identity",
			},
		},
		Action: runFrames,
	}
}

func runFrames(_ context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("%w: got %d", errMissingArgument, cmd.NArg())
	}
	path := cmd.Args().First()

	codec, err := codecByName(cmd.String("codec"))
	if err != nil {
		return err
	}

	r, err := replay.ParseFileConfig(path, replay.Config{Frames: true, Codec: codec})
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Frames)
}
