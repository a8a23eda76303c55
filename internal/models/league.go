package models

import (
	"time"

	"github.com/codr1/leaguedesk/internal/validation"
)

type Commissioner struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type Conference struct {
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Season       Ref           `json:"season"`
	Commissioner *Commissioner `json:"commissioner,omitempty"`
	IsActive     bool          `json:"isActive"`
}

func (cf *Conference) check(c *checker, _ time.Time) {
	c.requiredText("name", cf.Name)
	c.ref("season", cf.Season)
	if cm := cf.Commissioner; cm != nil {
		c.text("commissioner.email", cm.Email, validation.Email)
		c.text("commissioner.phone", cm.Phone, validation.DialablePhone(phoneRegion))
	}
}

type TeamLimits struct {
	MaxTeams *float64 `json:"maxTeams,omitempty"`
	MinTeams *float64 `json:"minTeams,omitempty"`
}

type DivisionSchedule struct {
	GamesPerTeam       *float64 `json:"gamesPerTeam,omitempty"`
	PlayoffTeams       *float64 `json:"playoffTeams,omitempty"`
	RegularSeasonWeeks *float64 `json:"regularSeasonWeeks,omitempty"`
}

type Division struct {
	Name       string            `json:"name"`
	Conference Ref               `json:"conference"`
	Season     Ref               `json:"season"`
	AgeGroup   string            `json:"ageGroup"`
	SkillLevel string            `json:"skillLevel,omitempty"`
	TeamLimits *TeamLimits       `json:"teamLimits,omitempty"`
	Schedule   *DivisionSchedule `json:"schedule,omitempty"`
	IsActive   bool              `json:"isActive"`
}

func (d *Division) check(c *checker, _ time.Time) {
	c.requiredText("name", d.Name)
	c.ref("conference", d.Conference)
	c.ref("season", d.Season)
	c.requiredSelection("ageGroup", d.AgeGroup, "youth", "middle", "high-school", "adult-rec", "senior")
	c.selection("skillLevel", d.SkillLevel, "recreational", "intermediate", "competitive", "elite")

	if limits := d.TeamLimits; limits != nil {
		c.number("teamLimits.maxTeams", limits.MaxTeams, validation.Range(4, 20))
		c.number("teamLimits.minTeams", limits.MinTeams, validation.Range(4, 20))
	}
	if sched := d.Schedule; sched != nil {
		c.number("schedule.gamesPerTeam", sched.GamesPerTeam, validation.Range(1, 30))
		c.number("schedule.playoffTeams", sched.PlayoffTeams, validation.Range(2, 8))
		c.number("schedule.regularSeasonWeeks", sched.RegularSeasonWeeks, validation.Range(4, 20))
	}
}

type SessionFormat struct {
	IsPlayoff       bool `json:"isPlayoff"`
	IsElimination   bool `json:"isElimination"`
	HasBracket      bool `json:"hasBracket"`
	AllowsOvertimes bool `json:"allowsOvertimes"`
}

type Session struct {
	Name                 string         `json:"name"`
	Type                 string         `json:"type"`
	Season               Ref            `json:"season"`
	StartDate            string         `json:"startDate"`
	EndDate              string         `json:"endDate"`
	RegistrationDeadline string         `json:"registrationDeadline,omitempty"`
	Format               *SessionFormat `json:"format,omitempty"`
	IsActive             bool           `json:"isActive"`
}

func (s *Session) check(c *checker, _ time.Time) {
	c.requiredText("name", s.Name)
	c.requiredSelection("type", s.Type, "regular", "playoffs", "championship", "tournament", "preseason", "allstar")
	c.ref("season", s.Season)

	start := c.requiredDate("startDate", s.StartDate)
	end := c.requiredDate("endDate", s.EndDate)
	c.endAfterStart("endDate", start, end)
	c.date("registrationDeadline", s.RegistrationDeadline)
}
