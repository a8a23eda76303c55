package models

import (
	"time"

	"github.com/codr1/leaguedesk/internal/validation"
)

type OfficialCertification struct {
	CertificationName   string `json:"certificationName"`
	IssuedDate          string `json:"issuedDate"`
	ExpirationDate      string `json:"expirationDate"`
	IssuingOrganization string `json:"issuingOrganization"`
	CertificationNumber string `json:"certificationNumber,omitempty"`
}

type Specialty struct {
	Specialty string `json:"specialty"`
}

type OfficialAvailability struct {
	DayOfWeek string `json:"dayOfWeek,omitempty"`
	TimeSlot  string `json:"timeSlot,omitempty"`
}

type PaymentInfo struct {
	HourlyRate    *float64 `json:"hourlyRate,omitempty"`
	GameRate      *float64 `json:"gameRate,omitempty"`
	PaymentMethod string   `json:"paymentMethod,omitempty"`
}

type OfficialStats struct {
	GamesOfficiated *float64 `json:"gamesOfficiated,omitempty"`
	SeasonsWorked   *float64 `json:"seasonsWorked,omitempty"`
	Rating          *float64 `json:"rating,omitempty"`
}

type Official struct {
	Name               string                  `json:"name"`
	Email              string                  `json:"email"`
	Phone              string                  `json:"phone,omitempty"`
	EmergencyContact   *EmergencyContact       `json:"emergencyContact,omitempty"`
	CertificationLevel string                  `json:"certificationLevel"`
	Certifications     []OfficialCertification `json:"certifications,omitempty"`
	Specialties        []Specialty             `json:"specialties,omitempty"`
	Availability       []OfficialAvailability  `json:"availability,omitempty"`
	PaymentInfo        *PaymentInfo            `json:"paymentInfo,omitempty"`
	Stats              *OfficialStats          `json:"stats,omitempty"`
	IsActive           bool                    `json:"isActive"`
}

func (o *Official) check(c *checker, _ time.Time) {
	c.requiredText("name", o.Name)
	c.requiredText("email", o.Email, validation.Email)
	c.text("phone", o.Phone, validation.Phone)
	c.requiredSelection("certificationLevel", o.CertificationLevel, "trainee", "certified", "advanced", "master")

	for i, cert := range o.Certifications {
		c.requiredText(indexed("certifications", i, "certificationName"), cert.CertificationName)
		issued := c.requiredDate(indexed("certifications", i, "issuedDate"), cert.IssuedDate)
		expires := c.requiredDate(indexed("certifications", i, "expirationDate"), cert.ExpirationDate)
		if !issued.IsZero() && !expires.IsZero() && !expires.After(issued) {
			c.add(indexed("certifications", i, "expirationDate"), "Expiration date must be after issued date")
		}
		c.requiredText(indexed("certifications", i, "issuingOrganization"), cert.IssuingOrganization)
	}
	for i, s := range o.Specialties {
		c.requiredSelection(indexed("specialties", i, "specialty"), s.Specialty,
			"youth", "high-school", "adult-rec", "tournament", "referee", "scorekeeper", "clock")
	}
	for i, slot := range o.Availability {
		c.selection(indexed("availability", i, "dayOfWeek"), slot.DayOfWeek, weekdays...)
		c.selection(indexed("availability", i, "timeSlot"), slot.TimeSlot, "morning", "afternoon", "evening", "all-day")
	}

	if pay := o.PaymentInfo; pay != nil {
		c.number("paymentInfo.hourlyRate", pay.HourlyRate, validation.Min(0))
		c.number("paymentInfo.gameRate", pay.GameRate, validation.Min(0))
		c.selection("paymentInfo.paymentMethod", pay.PaymentMethod, "check", "cash", "direct-deposit")
	}
	if stats := o.Stats; stats != nil {
		c.number("stats.gamesOfficiated", stats.GamesOfficiated, validation.Min(0))
		c.number("stats.seasonsWorked", stats.SeasonsWorked, validation.Min(0))
		c.number("stats.rating", stats.Rating, validation.Range(1, 5))
	}
}
