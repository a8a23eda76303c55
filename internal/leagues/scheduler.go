// Package leagues generates round-robin fixtures for a season's teams,
// placed into the courts and opening hours of a location.
package leagues

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/store"
)

type Team struct {
	ID   string
	Name string
}

type OpeningHours struct {
	Weekday time.Weekday
	Opens   string
	Closes  string
}

// Venue is where fixtures are played: a location's courts and weekly hours.
type Venue struct {
	LocationID string
	Courts     []string
	Hours      []OpeningHours
}

type ScheduledGame struct {
	Round    int
	HomeTeam Team
	AwayTeam Team
	Court    string
	Start    time.Time
	End      time.Time
}

type gameSlot struct {
	Start time.Time
	End   time.Time
	Court string
}

type dayHours struct {
	Opens  time.Time
	Closes time.Time
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// VenueFromLocation reads the courts and availability of a location
// document. Courts marked unavailable are skipped.
func VenueFromLocation(doc store.Document) (Venue, error) {
	var loc models.Location
	if err := models.Decode(doc.Data, &loc); err != nil {
		return Venue{}, fmt.Errorf("decode location %s: %w", doc.ID, err)
	}

	venue := Venue{LocationID: doc.ID}
	rawCourts, _ := doc.Data["courts"].([]any)
	for i, court := range loc.Courts {
		if i < len(rawCourts) {
			if raw := store.ToData(rawCourts[i]); raw != nil && raw.Has("isAvailable") && !raw.Bool("isAvailable") {
				continue
			}
		}
		if name := strings.TrimSpace(court.CourtName); name != "" {
			venue.Courts = append(venue.Courts, name)
		}
	}
	for _, slot := range loc.Availability {
		day, ok := weekdays[slot.DayOfWeek]
		if !ok {
			return Venue{}, fmt.Errorf("location %s: unknown day %q", doc.ID, slot.DayOfWeek)
		}
		venue.Hours = append(venue.Hours, OpeningHours{Weekday: day, Opens: slot.OpenTime, Closes: slot.CloseTime})
	}
	return venue, nil
}

// GenerateRoundRobinSchedule pairs every team with every other team once
// and assigns each pairing the next free court slot between startDate and
// endDate.
func GenerateRoundRobinSchedule(teams []Team, startDate, endDate time.Time, venue Venue, gameDuration time.Duration) ([]ScheduledGame, error) {
	if len(teams) < 2 {
		return nil, errors.New("at least two teams are required")
	}
	if len(venue.Courts) == 0 {
		return nil, errors.New("at least one court is required")
	}
	if gameDuration <= 0 {
		return nil, errors.New("game duration must be positive")
	}
	startDate = truncateDate(startDate)
	endDate = truncateDate(endDate)
	if endDate.Before(startDate) {
		return nil, errors.New("start date must be on or before end date")
	}

	pairs := buildRoundRobinPairs(teams)

	slots, err := buildGameSlots(startDate, endDate, venue, gameDuration)
	if err != nil {
		return nil, err
	}
	if len(slots) < len(pairs) {
		return nil, fmt.Errorf("insufficient slots: need %d games but only %d available", len(pairs), len(slots))
	}

	schedule := make([]ScheduledGame, 0, len(pairs))
	for idx, pairing := range pairs {
		slot := slots[idx]
		schedule = append(schedule, ScheduledGame{
			Round:    pairing.Round,
			HomeTeam: pairing.HomeTeam,
			AwayTeam: pairing.AwayTeam,
			Court:    slot.Court,
			Start:    slot.Start,
			End:      slot.End,
		})
	}
	return schedule, nil
}

// GameData is the games document for a scheduled fixture.
func (g ScheduledGame) GameData(seasonID, sessionID, divisionID, locationID string) store.Data {
	return store.Data{
		"season":   seasonID,
		"session":  sessionID,
		"division": divisionID,
		"location": locationID,
		"homeTeam": g.HomeTeam.ID,
		"awayTeam": g.AwayTeam.ID,
		"gameDate": g.Start.Format("2006-01-02"),
		"gameTime": g.Start.Format("15:04"),
		"venue":    g.Court,
		"status":   models.GameStatusScheduled,
		"notes":    fmt.Sprintf("Round %d", g.Round),
	}
}

type roundPair struct {
	Round    int
	HomeTeam Team
	AwayTeam Team
}

func buildRoundRobinPairs(teams []Team) []roundPair {
	working := make([]*Team, 0, len(teams)+1)
	for i := range teams {
		working = append(working, &teams[i])
	}
	if len(working)%2 == 1 {
		working = append(working, nil)
	}

	rounds := len(working) - 1
	pairs := make([]roundPair, 0, rounds*len(working)/2)

	for round := 0; round < rounds; round++ {
		for i := 0; i < len(working)/2; i++ {
			left := working[i]
			right := working[len(working)-1-i]
			if left == nil || right == nil {
				continue
			}
			home := *left
			away := *right
			if i == 0 && round%2 == 1 {
				home, away = away, home
			}
			pairs = append(pairs, roundPair{
				Round:    round + 1,
				HomeTeam: home,
				AwayTeam: away,
			})
		}
		rotateTeams(working)
	}

	return pairs
}

func rotateTeams(teams []*Team) {
	if len(teams) <= 2 {
		return
	}
	last := teams[len(teams)-1]
	copy(teams[2:], teams[1:len(teams)-1])
	teams[1] = last
}

func buildGameSlots(startDate, endDate time.Time, venue Venue, gameDuration time.Duration) ([]gameSlot, error) {
	hoursByDay, err := buildHoursByDay(venue.Hours)
	if err != nil {
		return nil, err
	}
	if len(hoursByDay) == 0 {
		return nil, errors.New("location availability is required")
	}

	var slots []gameSlot
	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		hours, ok := hoursByDay[date.Weekday()]
		if !ok {
			continue
		}
		dayOpen := time.Date(date.Year(), date.Month(), date.Day(), hours.Opens.Hour(), hours.Opens.Minute(), 0, 0, date.Location())
		dayClose := time.Date(date.Year(), date.Month(), date.Day(), hours.Closes.Hour(), hours.Closes.Minute(), 0, 0, date.Location())
		if !dayClose.After(dayOpen) {
			continue
		}
		for start := dayOpen; !start.Add(gameDuration).After(dayClose); start = start.Add(gameDuration) {
			end := start.Add(gameDuration)
			for _, court := range venue.Courts {
				slots = append(slots, gameSlot{Start: start, End: end, Court: court})
			}
		}
	}

	if len(slots) == 0 {
		return nil, errors.New("no available game slots in the date range")
	}
	return slots, nil
}

func buildHoursByDay(hours []OpeningHours) (map[time.Weekday]dayHours, error) {
	result := make(map[time.Weekday]dayHours)
	for _, h := range hours {
		if strings.TrimSpace(h.Opens) == "" || strings.TrimSpace(h.Closes) == "" {
			continue
		}
		opens, err := parseTimeOfDay(h.Opens)
		if err != nil {
			return nil, fmt.Errorf("invalid open time for %s: %w", h.Weekday, err)
		}
		closes, err := parseTimeOfDay(h.Closes)
		if err != nil {
			return nil, fmt.Errorf("invalid close time for %s: %w", h.Weekday, err)
		}
		result[h.Weekday] = dayHours{Opens: opens, Closes: closes}
	}
	return result, nil
}

func parseTimeOfDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("time is required")
	}
	parsed, err := time.Parse("15:04", raw)
	if err != nil {
		formats := []string{"3:04 PM", "03:04 PM", "3:04PM", "03:04PM"}
		for _, format := range formats {
			if parsed, err = time.Parse(format, strings.ToUpper(raw)); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, errors.New("time must be in HH:MM or H:MM AM/PM format")
	}
	return parsed, nil
}

func truncateDate(value time.Time) time.Time {
	loc := value.Location()
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, loc)
}
