package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/codr1/leaguedesk/internal/standings"
)

var errDriftFound = errors.New("team stats drifted from final games")

func newStandingsCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "standings [season-id]",
		Short: "Print the standings table computed from final games",
		Long:  "Without a season ID the active season is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd, func(ctx context.Context) error {
				seasonID := ""
				if len(args) == 1 {
					seasonID = args[0]
				} else {
					season, err := a.engine.ActiveSeason(ctx)
					if err != nil {
						return fmt.Errorf("no season given: %w", err)
					}
					seasonID = season.ID
				}

				table, err := standings.Compute(ctx, a.engine.Store(), seasonID)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(cmd.OutOrStdout(), table)
				}
				return printStandings(cmd.OutOrStdout(), table)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func printStandings(out io.Writer, table []standings.TeamStanding) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tTEAM\tGP\tW\tL\tT\tPF\tPA\tDIFF")
	for i, s := range table {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%+d\n",
			i+1, s.TeamName, s.GamesPlayed, s.Wins, s.Losses, s.Ties, s.PointsFor, s.PointsAgainst, s.PointDifferential)
	}
	return w.Flush()
}

func newAuditCmd(a *app) *cobra.Command {
	var repair bool
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Compare stored team stats with final games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd, func(ctx context.Context) error {
				drifts, err := standings.AuditAndReport(ctx, a.engine.Store(), a.reporter)
				if err != nil {
					return err
				}
				if len(drifts) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No drift found")
					return nil
				}
				for _, d := range drifts {
					fmt.Fprintln(cmd.OutOrStdout(), d.String())
				}
				if !repair {
					return fmt.Errorf("%d team(s): %w", len(drifts), errDriftFound)
				}
				if err := standings.Repair(ctx, a.engine, drifts); err != nil {
					return err
				}
				log.Ctx(ctx).Info().Int("teams", len(drifts)).Msg("Repaired team stats")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&repair, "repair", false, "Write the expected stats back to drifted teams")
	return cmd
}
