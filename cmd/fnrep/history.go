package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/harrowgate/fnrep/replay"
	"github.com/harrowgate/fnrep/store"
)

const defaultHistoryDB = "fnrep_history.db"

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Parse a replay and append it to the local session history, or list past parses",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Value: defaultHistoryDB,
				Usage: "SQLite database file holding session history",
			},
			&cli.IntFlag{
				Name:  "limit",
				Value: 20,
				Usage: "number of sessions to list when no replay file is given",
			},
		},
		ArgsUsage: "[replay-file]",
		Action:    runHistory,
	}
}

func runHistory(ctx context.Context, cmd *cli.Command) error {
	db, err := store.Open(cmd.String("db"))
	if err != nil {
		return err
	}
	defer db.Close()

	if cmd.NArg() == 0 {
		return listHistory(ctx, db, cmd.Int("limit"))
	}

	path := cmd.Args().First()
	r, err := replay.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	sess, err := db.Record(ctx, r)
	if err != nil {
		return err
	}
	fmt.Printf("recorded session %d: %s\n", sess.ID, sess.FriendlyName)
	return nil
}

func listHistory(ctx context.Context, db *store.Store, limit int) error {
	sessions, err := db.List(ctx, limit)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tBUILD\tNAME\tLENGTH(ms)\tWON\tELIMS\tPARSED AT")
	for _, s := range sessions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%t\t%d\t%s\n",
			s.ID, s.BuildID, s.FriendlyName, s.LengthMS, s.Won, s.Eliminations, s.ParsedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
