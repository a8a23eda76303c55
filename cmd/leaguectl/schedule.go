package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/codr1/leaguedesk/internal/consistency"
	"github.com/codr1/leaguedesk/internal/leagues"
	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/store"
)

type scheduleOptions struct {
	seasonID   string
	sessionID  string
	divisionID string
	locationID string
	start      string
	end        string
	duration   time.Duration
	dryRun     bool
}

func newScheduleCmd(a *app) *cobra.Command {
	opts := scheduleOptions{}
	cmd := &cobra.Command{
		Use:   "schedule <season-id>",
		Short: "Generate round-robin games for a division at a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.seasonID = args[0]
			return a.withEngine(cmd, func(ctx context.Context) error {
				games, err := scheduleGames(ctx, a.engine, opts)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), games)
			})
		},
	}
	cmd.Flags().StringVar(&opts.sessionID, "session", "", "Session the games belong to")
	cmd.Flags().StringVar(&opts.divisionID, "division", "", "Division whose teams play")
	cmd.Flags().StringVar(&opts.locationID, "location", "", "Location providing courts and hours")
	cmd.Flags().StringVar(&opts.start, "start", "", "First playable date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.end, "end", "", "Last playable date (YYYY-MM-DD)")
	cmd.Flags().DurationVar(&opts.duration, "duration", time.Hour, "Length of one game slot")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the games without creating them")
	for _, name := range []string{"session", "division", "location", "start", "end"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// scheduleGames builds the fixtures and, unless dry-running, creates each
// game through the engine so numbering and titles are applied.
func scheduleGames(ctx context.Context, engine *consistency.Engine, opts scheduleOptions) ([]store.Data, error) {
	start, err := models.ParseDate(opts.start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := models.ParseDate(opts.end)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	location, err := engine.Get(ctx, models.CollectionLocations, opts.locationID)
	if err != nil {
		return nil, err
	}
	venue, err := leagues.VenueFromLocation(location)
	if err != nil {
		return nil, err
	}

	teamDocs, err := engine.Find(ctx, models.CollectionTeams, store.Filter{
		"season":   opts.seasonID,
		"division": opts.divisionID,
	})
	if err != nil {
		return nil, err
	}
	teams := make([]leagues.Team, 0, len(teamDocs))
	for _, doc := range teamDocs {
		teams = append(teams, leagues.Team{ID: doc.ID, Name: models.Label(doc.Data)})
	}

	fixtures, err := leagues.GenerateRoundRobinSchedule(teams, start, end, venue, opts.duration)
	if err != nil {
		return nil, err
	}

	out := make([]store.Data, 0, len(fixtures))
	for _, fixture := range fixtures {
		data := fixture.GameData(opts.seasonID, opts.sessionID, opts.divisionID, venue.LocationID)
		if opts.dryRun {
			out = append(out, data)
			continue
		}
		doc, err := engine.Create(ctx, models.CollectionGames, data)
		if err != nil {
			return out, fmt.Errorf("create round %d game: %w", fixture.Round, err)
		}
		out = append(out, doc.Flatten())
	}
	log.Ctx(ctx).Info().Int("games", len(out)).Bool("dry_run", opts.dryRun).Msg("Scheduled round-robin games")
	return out, nil
}
