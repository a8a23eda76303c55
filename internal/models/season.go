package models

import (
	"time"

	"github.com/codr1/leaguedesk/internal/validation"
)

const (
	SeasonStatusPlanning     = "planning"
	SeasonStatusRegistration = "registration"
	SeasonStatusActive       = "active"
	SeasonStatusCompleted    = "completed"
	SeasonStatusArchived     = "archived"
)

type GameFormat struct {
	PeriodLength    *float64 `json:"periodLength,omitempty"`
	NumberOfPeriods *float64 `json:"numberOfPeriods,omitempty"`
	OvertimeLength  *float64 `json:"overtimeLength,omitempty"`
}

type Season struct {
	Name                 string      `json:"name"`
	Type                 string      `json:"type"`
	Year                 *float64    `json:"year"`
	StartDate            string      `json:"startDate"`
	EndDate              string      `json:"endDate"`
	RegistrationDeadline string      `json:"registrationDeadline,omitempty"`
	IsActive             bool        `json:"isActive"`
	Status               string      `json:"status"`
	MaxTeamsPerDivision  *float64    `json:"maxTeamsPerDivision,omitempty"`
	GameFormat           *GameFormat `json:"gameFormat,omitempty"`
	Locations            []Ref       `json:"locations,omitempty"`
	Officials            []Ref       `json:"officials,omitempty"`
	Rules                any         `json:"rules,omitempty"`
}

func (s *Season) check(c *checker, now time.Time) {
	c.requiredText("name", s.Name, validation.MinLength(3))
	c.requiredSelection("type", s.Type, "regular", "summer", "tournament", "preseason")

	c.requiredNumber("year", s.Year, validation.Range(2020, 2035))
	if s.Year != nil {
		year := int(*s.Year)
		if year < now.Year()-5 || year > now.Year()+10 {
			c.add("year", "Year must be within reasonable range")
		}
	}

	start := c.requiredDate("startDate", s.StartDate)
	end := c.requiredDate("endDate", s.EndDate)
	c.endAfterStart("endDate", start, end)
	c.date("registrationDeadline", s.RegistrationDeadline)

	c.requiredSelection("status", s.Status,
		SeasonStatusPlanning, SeasonStatusRegistration, SeasonStatusActive, SeasonStatusCompleted, SeasonStatusArchived)
	c.number("maxTeamsPerDivision", s.MaxTeamsPerDivision, validation.Range(4, 20))
}
