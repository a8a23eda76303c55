package models

import (
	"math"
	"sort"
	"time"

	"github.com/codr1/leaguedesk/internal/validation"
)

var PlayerPositions = []string{"PG", "SG", "SF", "PF", "C", "G", "F"}

type PersonalInfo struct {
	DateOfBirth string   `json:"dateOfBirth,omitempty"`
	GradYear    *float64 `json:"gradYear"`
	Height      string   `json:"height,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Hometown    string   `json:"hometown"`
	Region      string   `json:"region"`
}

type EmergencyContact struct {
	Name         string `json:"name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

type PlayerContact struct {
	Email            string            `json:"email"`
	Phone            string            `json:"phone,omitempty"`
	ParentEmail      string            `json:"parentEmail,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty"`
}

type HighlightVideo struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Platform string `json:"platform,omitempty"`
}

type PlayerMedia struct {
	HighlightVideos []HighlightVideo  `json:"highlightVideos,omitempty"`
	SocialMedia     map[string]string `json:"socialMedia,omitempty"`
}

type CareerEntry struct {
	Season Ref            `json:"season"`
	Team   Ref            `json:"team"`
	Stats  map[string]any `json:"stats,omitempty"`
}

type Achievement struct {
	Award       string `json:"award"`
	Season      Ref    `json:"season,omitempty"`
	Description string `json:"description,omitempty"`
	DateAwarded string `json:"dateAwarded,omitempty"`
}

type Eligibility struct {
	IsEligible       bool   `json:"isEligible"`
	AcademicStanding string `json:"academicStanding,omitempty"`
	MedicalClearance bool   `json:"medicalClearance"`
	InsuranceOnFile  bool   `json:"insuranceOnFile"`
}

type Player struct {
	Name         string              `json:"name"`
	FirstName    string              `json:"firstName"`
	LastName     string              `json:"lastName"`
	Team         Ref                 `json:"team"`
	Position     string              `json:"position"`
	JerseyNumber *float64            `json:"jerseyNumber"`
	PersonalInfo *PersonalInfo       `json:"personalInfo,omitempty"`
	Photo        Ref                 `json:"photo,omitempty"`
	Contact      *PlayerContact      `json:"contact,omitempty"`
	SeasonStats  map[string]*float64 `json:"seasonStats,omitempty"`
	CareerStats  []CareerEntry       `json:"careerStats,omitempty"`
	Achievements []Achievement       `json:"achievements,omitempty"`
	Media        *PlayerMedia        `json:"media,omitempty"`
	Eligibility  *Eligibility        `json:"eligibility,omitempty"`
	Notes        string              `json:"notes,omitempty"`
}

func (p *Player) check(c *checker, _ time.Time) {
	c.requiredText("firstName", p.FirstName)
	c.requiredText("lastName", p.LastName)
	c.ref("team", p.Team)
	c.requiredSelection("position", p.Position, PlayerPositions...)

	if c.required("jerseyNumber", p.JerseyNumber != nil) {
		n := *p.JerseyNumber
		switch {
		case n < 0 || n > 99:
			c.add("jerseyNumber", "Jersey number must be between 0 and 99")
		case n != math.Trunc(n):
			c.add("jerseyNumber", "Jersey number must be a whole number")
		}
	}

	if info := p.PersonalInfo; info != nil {
		c.date("personalInfo.dateOfBirth", info.DateOfBirth)
		c.requiredNumber("personalInfo.gradYear", info.GradYear, validation.Range(2020, 2035))
		c.text("personalInfo.height", info.Height, validation.Height)
		c.number("personalInfo.weight", info.Weight, validation.Range(50, 400))
		c.requiredText("personalInfo.hometown", info.Hometown)
		c.requiredText("personalInfo.region", info.Region)
	}

	if contact := p.Contact; contact != nil {
		c.requiredText("contact.email", contact.Email, validation.Email)
		c.text("contact.parentEmail", contact.ParentEmail, validation.Email)
	}

	stats := make([]string, 0, len(p.SeasonStats))
	for stat := range p.SeasonStats {
		stats = append(stats, stat)
	}
	sort.Strings(stats)
	for _, stat := range stats {
		c.number("seasonStats."+stat, p.SeasonStats[stat], validation.Min(0))
	}

	for i, entry := range p.CareerStats {
		c.ref(indexed("careerStats", i, "season"), entry.Season)
		c.ref(indexed("careerStats", i, "team"), entry.Team)
	}
	for i, award := range p.Achievements {
		c.requiredText(indexed("achievements", i, "award"), award.Award)
		c.date(indexed("achievements", i, "dateAwarded"), award.DateAwarded)
	}

	if media := p.Media; media != nil {
		for i, video := range media.HighlightVideos {
			c.requiredText(indexed("media.highlightVideos", i, "title"), video.Title)
			c.requiredText(indexed("media.highlightVideos", i, "url"), video.URL, validation.URL)
			c.selection(indexed("media.highlightVideos", i, "platform"), video.Platform, "youtube", "hudl", "vimeo", "other")
		}
	}

	if p.Eligibility != nil {
		c.selection("eligibility.academicStanding", p.Eligibility.AcademicStanding, "good", "probation", "ineligible")
	}
}
