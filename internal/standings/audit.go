package standings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/codr1/leaguedesk/internal/consistency"
	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/notify"
	"github.com/codr1/leaguedesk/internal/store"
)

// Drift is a team whose stored stats disagree with its final games.
type Drift struct {
	TeamID   string           `json:"teamId"`
	TeamName string           `json:"teamName"`
	Stored   models.TeamStats `json:"stored"`
	Expected models.TeamStats `json:"expected"`
}

// Fields lists the counters that differ.
func (d Drift) Fields() []string {
	var fields []string
	check := func(name string, stored, expected int) {
		if stored != expected {
			fields = append(fields, fmt.Sprintf("%s %d != %d", name, stored, expected))
		}
	}
	check("wins", d.Stored.Wins, d.Expected.Wins)
	check("losses", d.Stored.Losses, d.Expected.Losses)
	check("pointsFor", d.Stored.PointsFor, d.Expected.PointsFor)
	check("pointsAgainst", d.Stored.PointsAgainst, d.Expected.PointsAgainst)
	check("gamesPlayed", d.Stored.GamesPlayed, d.Expected.GamesPlayed)
	return fields
}

func (d Drift) String() string {
	return fmt.Sprintf("%s (%s): %s", d.TeamName, d.TeamID, strings.Join(d.Fields(), ", "))
}

// Audit compares every team's stored stats with what one propagation per
// final game would have produced. Ties are not part of the comparison
// since propagation never counts them.
func Audit(ctx context.Context, st store.Store) ([]Drift, error) {
	teams, err := st.Find(ctx, models.CollectionTeams, nil)
	if err != nil {
		return nil, err
	}
	games, err := st.Find(ctx, models.CollectionGames, store.Filter{"status": models.GameStatusFinal})
	if err != nil {
		return nil, err
	}

	tallies := make(map[string]*teamStats, len(teams))
	for _, doc := range teams {
		tallies[doc.ID] = newTeamStats(doc.ID, doc.Data.String("name"))
	}
	if err := tally(ctx, st, games, tallies); err != nil {
		return nil, err
	}

	var drifts []Drift
	for _, doc := range teams {
		stored := models.StatsFromData(doc.Data.Map("stats"))
		got := tallies[doc.ID]
		expected := models.TeamStats{
			Wins:          got.Wins,
			Losses:        got.Losses,
			Ties:          stored.Ties,
			PointsFor:     got.PointsFor,
			PointsAgainst: got.PointsAgainst,
			GamesPlayed:   got.GamesPlayed,
		}
		if stored != expected {
			drifts = append(drifts, Drift{
				TeamID:   doc.ID,
				TeamName: doc.Data.String("name"),
				Stored:   stored,
				Expected: expected,
			})
		}
	}
	return drifts, nil
}

// Repair writes the expected counters back through the engine, so the
// record string is re-rendered too.
func Repair(ctx context.Context, engine *consistency.Engine, drifts []Drift) error {
	for _, drift := range drifts {
		team, err := engine.Get(ctx, models.CollectionTeams, drift.TeamID)
		if err != nil {
			return fmt.Errorf("repair %s: %w", drift.TeamID, err)
		}
		stats := team.Data.Map("stats").Clone()
		stats["wins"] = drift.Expected.Wins
		stats["losses"] = drift.Expected.Losses
		stats["pointsFor"] = drift.Expected.PointsFor
		stats["pointsAgainst"] = drift.Expected.PointsAgainst
		stats["gamesPlayed"] = drift.Expected.GamesPlayed

		if _, err := engine.UpdateIfVersion(ctx, models.CollectionTeams, team.ID, store.Data{"stats": stats}, team.Version); err != nil {
			return fmt.Errorf("repair %s: %w", drift.TeamID, err)
		}
	}
	return nil
}

// AuditAndReport runs Audit and files one incident listing every drifted
// team.
func AuditAndReport(ctx context.Context, st store.Store, reporter notify.Reporter) ([]Drift, error) {
	drifts, err := Audit(ctx, st)
	if err != nil {
		return nil, err
	}
	if len(drifts) == 0 || reporter == nil {
		return drifts, nil
	}

	lines := make([]string, 0, len(drifts))
	for _, d := range drifts {
		lines = append(lines, d.String())
	}
	incident := notify.Incident{
		Kind:       notify.KindStandingsDrift,
		Subject:    fmt.Sprintf("Team stats drifted for %d team(s)", len(drifts)),
		Detail:     strings.Join(lines, "\n"),
		Collection: models.CollectionTeams,
		OccurredAt: time.Now().UTC(),
	}
	if err := reporter.Report(ctx, incident); err != nil {
		return drifts, fmt.Errorf("report drift: %w", err)
	}
	return drifts, nil
}
