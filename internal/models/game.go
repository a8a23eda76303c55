package models

import (
	"time"

	"github.com/codr1/leaguedesk/internal/validation"
)

const (
	GameStatusScheduled  = "scheduled"
	GameStatusInProgress = "in-progress"
	GameStatusHalftime   = "halftime"
	GameStatusFinal      = "final"
	GameStatusCancelled  = "cancelled"
	GameStatusPostponed  = "postponed"
	GameStatusForfeited  = "forfeited"
)

const maxAssignedOfficials = 3

var GameStatuses = []string{
	GameStatusScheduled,
	GameStatusInProgress,
	GameStatusHalftime,
	GameStatusFinal,
	GameStatusCancelled,
	GameStatusPostponed,
	GameStatusForfeited,
}

type Period struct {
	Period    *float64 `json:"period"`
	HomeScore *float64 `json:"homeScore,omitempty"`
	AwayScore *float64 `json:"awayScore,omitempty"`
}

type Score struct {
	HomeScore *float64 `json:"homeScore,omitempty"`
	AwayScore *float64 `json:"awayScore,omitempty"`
	Periods   []Period `json:"periods,omitempty"`
	Overtime  bool     `json:"overtime"`
}

type GameStats struct {
	Attendance        *float64 `json:"attendance,omitempty"`
	WeatherConditions string   `json:"weatherConditions,omitempty"`
	TechnicalFouls    *float64 `json:"technicalFouls,omitempty"`
	Ejections         *float64 `json:"ejections,omitempty"`
}

type Game struct {
	GameNumber        *float64   `json:"gameNumber,omitempty"`
	Session           Ref        `json:"session"`
	Season            Ref        `json:"season"`
	Division          Ref        `json:"division"`
	HomeTeam          Ref        `json:"homeTeam"`
	AwayTeam          Ref        `json:"awayTeam"`
	GameDate          string     `json:"gameDate"`
	GameTime          string     `json:"gameTime"`
	Location          Ref        `json:"location"`
	Venue             string     `json:"venue"`
	AssignedOfficials []Ref      `json:"assignedOfficials,omitempty"`
	Status            string     `json:"status"`
	Score             *Score     `json:"score,omitempty"`
	GameStats         *GameStats `json:"gameStats,omitempty"`
	GameTitle         string     `json:"gameTitle,omitempty"`
	Notes             string     `json:"notes,omitempty"`
}

func (g *Game) check(c *checker, _ time.Time) {
	c.ref("session", g.Session)
	c.ref("season", g.Season)
	c.ref("division", g.Division)
	c.ref("homeTeam", g.HomeTeam)
	c.ref("awayTeam", g.AwayTeam)
	if g.AwayTeam != "" && g.AwayTeam == g.HomeTeam {
		c.add("awayTeam", "Away team cannot be the same as home team")
	}

	c.requiredDate("gameDate", g.GameDate)
	c.requiredText("gameTime", g.GameTime, validation.Time)
	c.ref("location", g.Location)
	c.requiredText("venue", g.Venue)
	c.addErr("assignedOfficials", validation.MaxArrayLength(maxAssignedOfficials)(g.AssignedOfficials))
	c.requiredSelection("status", g.Status, GameStatuses...)

	nonNegative := validation.Min(0)
	if g.Score != nil {
		c.number("score.homeScore", g.Score.HomeScore, nonNegative)
		c.number("score.awayScore", g.Score.AwayScore, nonNegative)
		for i, p := range g.Score.Periods {
			c.required(indexed("score.periods", i, "period"), p.Period != nil)
			c.number(indexed("score.periods", i, "homeScore"), p.HomeScore, nonNegative)
			c.number(indexed("score.periods", i, "awayScore"), p.AwayScore, nonNegative)
		}
	}
	if g.GameStats != nil {
		c.number("gameStats.attendance", g.GameStats.Attendance, nonNegative)
		c.number("gameStats.technicalFouls", g.GameStats.TechnicalFouls, nonNegative)
		c.number("gameStats.ejections", g.GameStats.Ejections, nonNegative)
	}
}
