package consistency

import (
	"context"
	"errors"
	"fmt"

	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/store"
)

// gameNumber numbers a new game after the games already in its season.
// The number is fixed at creation; updates cannot change it.
func gameNumber(ctx context.Context, ev *Event) error {
	if ev.Operation != OpCreate {
		delete(ev.Data, "gameNumber")
		return nil
	}

	count, err := ev.Engine.Store().Count(ctx, models.CollectionGames, store.Filter{"season": ev.Data.Ref("season")})
	if err != nil {
		return fmt.Errorf("count season games: %w", err)
	}
	ev.Data["gameNumber"] = count + 1
	return nil
}

// gameTitle derives "{away} @ {home}" whenever both teams are known.
func gameTitle(ctx context.Context, ev *Event) error {
	homeID := store.RefID(ev.Value("homeTeam"))
	awayID := store.RefID(ev.Value("awayTeam"))
	if homeID == "" || awayID == "" {
		return nil
	}

	home, err := resolveTeam(ctx, ev.Engine.Store(), "homeTeam", homeID)
	if err != nil {
		return err
	}
	away, err := resolveTeam(ctx, ev.Engine.Store(), "awayTeam", awayID)
	if err != nil {
		return err
	}

	ev.Data["gameTitle"] = fmt.Sprintf("%s @ %s", models.Label(away.Data), models.Label(home.Data))
	return nil
}

// gamePropagateResult folds a final score into both teams' stats. It runs
// on every update that leaves the game final, so saving a final game twice
// counts it twice; a game created as final is never counted.
func gamePropagateResult(ctx context.Context, ev *Event) error {
	if ev.Operation != OpUpdate || ev.Doc.Data.String("status") != models.GameStatusFinal {
		return nil
	}

	score := ev.Doc.Data.Map("score")
	homeScore := score.Int("homeScore")
	awayScore := score.Int("awayScore")

	st := ev.Engine.Store()
	home, err := resolveTeam(ctx, st, "homeTeam", ev.Doc.Data.Ref("homeTeam"))
	if err != nil {
		return err
	}
	away, err := resolveTeam(ctx, st, "awayTeam", ev.Doc.Data.Ref("awayTeam"))
	if err != nil {
		return err
	}

	homeStats := applyResult(home.Data.Map("stats"), homeScore, awayScore)
	if _, err := ev.Engine.Update(ctx, models.CollectionTeams, home.ID, store.Data{"stats": homeStats}); err != nil {
		return fmt.Errorf("update home team %s: %w", home.ID, err)
	}
	awayStats := applyResult(away.Data.Map("stats"), awayScore, homeScore)
	if _, err := ev.Engine.Update(ctx, models.CollectionTeams, away.ID, store.Data{"stats": awayStats}); err != nil {
		return fmt.Errorf("update away team %s: %w", away.ID, err)
	}
	return nil
}

// applyResult returns stats with one game added. A tie touches neither
// wins nor losses and there is no ties counter to bump.
func applyResult(stats store.Data, scored, conceded int) store.Data {
	current := models.StatsFromData(stats)
	next := stats.Clone()

	wins, losses := current.Wins, current.Losses
	switch {
	case scored > conceded:
		wins++
	case scored < conceded:
		losses++
	}
	next["wins"] = wins
	next["losses"] = losses
	next["pointsFor"] = current.PointsFor + scored
	next["pointsAgainst"] = current.PointsAgainst + conceded
	next["gamesPlayed"] = current.GamesPlayed + 1
	return next
}

func resolveTeam(ctx context.Context, st store.Store, field, id string) (store.Document, error) {
	if id == "" {
		return store.Document{}, fmt.Errorf("%w: %s is empty", ErrUnresolvedReference, field)
	}
	team, err := st.FindByID(ctx, models.CollectionTeams, id)
	if errors.Is(err, store.ErrNotFound) {
		return store.Document{}, fmt.Errorf("%w: %s %s", ErrUnresolvedReference, field, id)
	}
	if err != nil {
		return store.Document{}, fmt.Errorf("load %s %s: %w", field, id, err)
	}
	return team, nil
}
