// Package standings recomputes league tables from final games and audits
// the team stats the engine keeps against them.
package standings

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/store"
)

type TeamStanding struct {
	TeamID            string `json:"teamId"`
	TeamName          string `json:"teamName"`
	GamesPlayed       int    `json:"gamesPlayed"`
	Wins              int    `json:"wins"`
	Losses            int    `json:"losses"`
	Ties              int    `json:"ties"`
	PointsFor         int    `json:"pointsFor"`
	PointsAgainst     int    `json:"pointsAgainst"`
	PointDifferential int    `json:"pointDifferential"`
	Record            string `json:"record"`
}

type teamStats struct {
	TeamStanding
	headToHeadWins      map[string]int
	headToHeadPointDiff map[string]int
}

func newTeamStats(id, name string) *teamStats {
	return &teamStats{
		TeamStanding:        TeamStanding{TeamID: id, TeamName: name},
		headToHeadWins:      make(map[string]int),
		headToHeadPointDiff: make(map[string]int),
	}
}

func (t *teamStats) add(scored, conceded int, opponentID string) {
	t.GamesPlayed++
	t.PointsFor += scored
	t.PointsAgainst += conceded
	t.PointDifferential = t.PointsFor - t.PointsAgainst

	switch {
	case scored > conceded:
		t.Wins++
		t.headToHeadWins[opponentID]++
	case scored < conceded:
		t.Losses++
	default:
		t.Ties++
	}
	t.headToHeadPointDiff[opponentID] += scored - conceded
}

// Compute builds the table for a season from its final games. Every team
// registered to the season is listed, including those without games.
func Compute(ctx context.Context, st store.Store, seasonID string) ([]TeamStanding, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if seasonID == "" {
		return nil, errors.New("season ID is required")
	}

	teamDocs, err := st.Find(ctx, models.CollectionTeams, store.Filter{"season": seasonID})
	if err != nil {
		return nil, err
	}
	teams := make(map[string]*teamStats, len(teamDocs))
	for _, doc := range teamDocs {
		teams[doc.ID] = newTeamStats(doc.ID, doc.Data.String("name"))
	}

	games, err := st.Find(ctx, models.CollectionGames, store.Filter{
		"season": seasonID,
		"status": models.GameStatusFinal,
	})
	if err != nil {
		return nil, err
	}
	if err := tally(ctx, st, games, teams); err != nil {
		return nil, err
	}

	ordered := make([]*teamStats, 0, len(teams))
	for _, team := range teams {
		ordered = append(ordered, team)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Wins != ordered[j].Wins {
			return ordered[i].Wins > ordered[j].Wins
		}
		return ordered[i].TeamName < ordered[j].TeamName
	})

	sortStandingsByTiebreakers(ordered)

	standings := make([]TeamStanding, 0, len(ordered))
	for _, team := range ordered {
		team.Record = models.FormatRecord(team.Wins, team.Losses, team.Ties)
		standings = append(standings, team.TeamStanding)
	}
	return standings, nil
}

// tally folds final games into teams. Teams referenced by a game but not
// yet in the map are loaded from the store.
func tally(ctx context.Context, st store.Store, games []store.Document, teams map[string]*teamStats) error {
	for _, game := range games {
		homeID := game.Data.Ref("homeTeam")
		awayID := game.Data.Ref("awayTeam")
		if homeID == "" || awayID == "" {
			return fmt.Errorf("game %s is missing a team", game.ID)
		}
		home, err := lookup(ctx, st, teams, homeID)
		if err != nil {
			return fmt.Errorf("game %s: %w", game.ID, err)
		}
		away, err := lookup(ctx, st, teams, awayID)
		if err != nil {
			return fmt.Errorf("game %s: %w", game.ID, err)
		}

		score := game.Data.Map("score")
		homeScore, awayScore := score.Int("homeScore"), score.Int("awayScore")
		home.add(homeScore, awayScore, awayID)
		away.add(awayScore, homeScore, homeID)
	}
	return nil
}

func lookup(ctx context.Context, st store.Store, teams map[string]*teamStats, id string) (*teamStats, error) {
	if team, ok := teams[id]; ok {
		return team, nil
	}
	doc, err := st.FindByID(ctx, models.CollectionTeams, id)
	if err != nil {
		return nil, err
	}
	team := newTeamStats(doc.ID, doc.Data.String("name"))
	teams[id] = team
	return team, nil
}

func sortStandingsByTiebreakers(ordered []*teamStats) {
	if len(ordered) < 2 {
		return
	}

	start := 0
	for start < len(ordered) {
		end := start + 1
		for end < len(ordered) && ordered[end].Wins == ordered[start].Wins {
			end++
		}

		if end-start > 1 {
			group := ordered[start:end]
			groupSet := make(map[string]struct{}, len(group))
			for _, team := range group {
				groupSet[team.TeamID] = struct{}{}
			}

			sort.SliceStable(group, func(i, j int) bool {
				winsI := headToHead(group[i].headToHeadWins, groupSet)
				winsJ := headToHead(group[j].headToHeadWins, groupSet)
				if winsI != winsJ {
					return winsI > winsJ
				}
				if group[i].PointDifferential != group[j].PointDifferential {
					return group[i].PointDifferential > group[j].PointDifferential
				}
				diffI := headToHead(group[i].headToHeadPointDiff, groupSet)
				diffJ := headToHead(group[j].headToHeadPointDiff, groupSet)
				if diffI != diffJ {
					return diffI > diffJ
				}
				return group[i].TeamName < group[j].TeamName
			})
		}

		start = end
	}
}

// headToHead sums per-opponent values over the opponents in group.
func headToHead(byOpponent map[string]int, group map[string]struct{}) int {
	total := 0
	for opponentID, value := range byOpponent {
		if _, ok := group[opponentID]; ok {
			total += value
		}
	}
	return total
}
