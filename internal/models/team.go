package models

import (
	"fmt"
	"time"

	"github.com/codr1/leaguedesk/internal/store"
	"github.com/codr1/leaguedesk/internal/validation"
)

const phoneRegion = "US"

type TeamStats struct {
	Wins          int `json:"wins"`
	Losses        int `json:"losses"`
	Ties          int `json:"ties"`
	PointsFor     int `json:"pointsFor"`
	PointsAgainst int `json:"pointsAgainst"`
	GamesPlayed   int `json:"gamesPlayed"`
}

// StatsFromData reads a stats group; missing counters are 0.
func StatsFromData(d store.Data) TeamStats {
	return TeamStats{
		Wins:          d.Int("wins"),
		Losses:        d.Int("losses"),
		Ties:          d.Int("ties"),
		PointsFor:     d.Int("pointsFor"),
		PointsAgainst: d.Int("pointsAgainst"),
		GamesPlayed:   d.Int("gamesPlayed"),
	}
}

// Record renders the standings string: "W-L", or "W-L-T" once a tie exists.
func (s TeamStats) Record() string {
	return FormatRecord(s.Wins, s.Losses, s.Ties)
}

func FormatRecord(wins, losses, ties int) string {
	if ties > 0 {
		return fmt.Sprintf("%d-%d-%d", wins, losses, ties)
	}
	return fmt.Sprintf("%d-%d", wins, losses)
}

// Label is the short form used in game titles.
func Label(team store.Data) string {
	if short := team.String("shortName"); short != "" {
		return short
	}
	return team.String("name")
}

type TeamLocation struct {
	City      string `json:"city"`
	Region    string `json:"region,omitempty"`
	HomeVenue Ref    `json:"homeVenue,omitempty"`
}

type TeamColors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary,omitempty"`
	Accent    string `json:"accent,omitempty"`
}

type Certification struct {
	Certification  string `json:"certification,omitempty"`
	ExpirationDate string `json:"expirationDate,omitempty"`
}

type StaffMember struct {
	Name                string          `json:"name"`
	Role                string          `json:"role"`
	Email               string          `json:"email,omitempty"`
	Phone               string          `json:"phone,omitempty"`
	Certifications      []Certification `json:"certifications,omitempty"`
	BackgroundCheckDate string          `json:"backgroundCheckDate,omitempty"`
}

type TeamContact struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	IsPrimary bool   `json:"isPrimary"`
}

type RegistrationInfo struct {
	RegistrationDate   string `json:"registrationDate,omitempty"`
	FeePaid            bool   `json:"feePaid"`
	DocumentsSubmitted bool   `json:"documentsSubmitted"`
	RosterSubmitted    bool   `json:"rosterSubmitted"`
}

type TeamStatsGroup struct {
	Wins          *float64 `json:"wins,omitempty"`
	Losses        *float64 `json:"losses,omitempty"`
	Ties          *float64 `json:"ties,omitempty"`
	PointsFor     *float64 `json:"pointsFor,omitempty"`
	PointsAgainst *float64 `json:"pointsAgainst,omitempty"`
	GamesPlayed   *float64 `json:"gamesPlayed,omitempty"`
}

type Team struct {
	Name             string            `json:"name"`
	ShortName        string            `json:"shortName,omitempty"`
	Logo             Ref               `json:"logo,omitempty"`
	Location         TeamLocation      `json:"location"`
	Colors           TeamColors        `json:"colors"`
	Division         Ref               `json:"division"`
	Season           Ref               `json:"season"`
	HeadCoach        string            `json:"headCoach"`
	Staff            []StaffMember     `json:"staff,omitempty"`
	Contacts         []TeamContact     `json:"contacts"`
	Roster           []Ref             `json:"roster,omitempty"`
	Stats            *TeamStatsGroup   `json:"stats,omitempty"`
	CurrentRecord    string            `json:"currentRecord,omitempty"`
	Status           string            `json:"status"`
	RegistrationInfo *RegistrationInfo `json:"registrationInfo,omitempty"`
	Notes            string            `json:"notes,omitempty"`
}

func (t *Team) check(c *checker, _ time.Time) {
	c.requiredText("name", t.Name, validation.MinLength(2))
	c.text("shortName", t.ShortName, validation.MaxLength(8))
	c.requiredText("location.city", t.Location.City)

	c.requiredText("colors.primary", t.Colors.Primary, validation.HexColor)
	c.text("colors.secondary", t.Colors.Secondary, validation.HexColor)
	c.text("colors.accent", t.Colors.Accent, validation.HexColor)

	c.ref("division", t.Division)
	c.ref("season", t.Season)
	c.requiredText("headCoach", t.HeadCoach)

	dialable := validation.DialablePhone(phoneRegion)
	for i, member := range t.Staff {
		c.requiredText(indexed("staff", i, "name"), member.Name)
		c.requiredSelection(indexed("staff", i, "role"), member.Role,
			"head-coach", "assistant-coach", "manager", "trainer", "volunteer")
		c.text(indexed("staff", i, "email"), member.Email, validation.Email)
		c.text(indexed("staff", i, "phone"), member.Phone, dialable)
		c.date(indexed("staff", i, "backgroundCheckDate"), member.BackgroundCheckDate)
	}

	if len(t.Contacts) < 1 {
		c.add("contacts", "This field requires at least 1 row")
	}
	for i, contact := range t.Contacts {
		c.requiredText(indexed("contacts", i, "name"), contact.Name)
		c.requiredSelection(indexed("contacts", i, "role"), contact.Role,
			"manager", "parent", "representative", "emergency")
		c.requiredText(indexed("contacts", i, "email"), contact.Email, validation.Email)
		c.requiredText(indexed("contacts", i, "phone"), contact.Phone, dialable)
	}

	if t.Stats != nil {
		nonNegative := validation.Min(0)
		c.number("stats.wins", t.Stats.Wins, nonNegative)
		c.number("stats.losses", t.Stats.Losses, nonNegative)
		c.number("stats.ties", t.Stats.Ties, nonNegative)
		c.number("stats.pointsFor", t.Stats.PointsFor, nonNegative)
		c.number("stats.pointsAgainst", t.Stats.PointsAgainst, nonNegative)
		c.number("stats.gamesPlayed", t.Stats.GamesPlayed, nonNegative)
	}

	c.selection("status", t.Status, "active", "inactive", "pending", "suspended")
	if t.RegistrationInfo != nil {
		c.date("registrationInfo.registrationDate", t.RegistrationInfo.RegistrationDate)
	}
}
