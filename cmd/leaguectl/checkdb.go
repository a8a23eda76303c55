package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/codr1/leaguedesk/internal/consistency"
	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/store"
)

func newCheckDBCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check-db",
		Short: "Print document counts per collection and the active season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd, func(ctx context.Context) error {
				return checkDB(ctx, a.engine, cmd.OutOrStdout())
			})
		},
	}
}

func checkDB(ctx context.Context, engine *consistency.Engine, out io.Writer) error {
	counts, err := engine.Store().Collections(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "COLLECTION\tDOCUMENTS")
	for _, name := range models.Collections() {
		fmt.Fprintf(w, "%s\t%d\n", name, counts[name])
	}

	active := "none"
	season, err := engine.ActiveSeason(ctx)
	switch {
	case err == nil:
		active = fmt.Sprintf("%s (%s)", season.Data.String("name"), season.ID)
	case !isNotFound(err):
		return err
	}
	fmt.Fprintf(w, "\nactive season\t%s\n", active)
	return w.Flush()
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
