package models

import (
	"time"

	"github.com/codr1/leaguedesk/internal/validation"
)

var (
	LocationStates = []string{"CA", "TX", "NY", "FL", "IL", "PA", "OH", "GA", "NC", "MI"}
	weekdays       = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
)

type Coordinates struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type Court struct {
	CourtName   string `json:"courtName"`
	CourtType   string `json:"courtType,omitempty"`
	IsAvailable bool   `json:"isAvailable"`
}

type Facility struct {
	Facility string `json:"facility"`
}

type LocationContact struct {
	FacilityManager string `json:"facilityManager,omitempty"`
	Phone           string `json:"phone,omitempty"`
	Email           string `json:"email,omitempty"`
	Website         string `json:"website,omitempty"`
}

type OpeningHours struct {
	DayOfWeek string `json:"dayOfWeek"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
}

type Pricing struct {
	HourlyRate *float64 `json:"hourlyRate,omitempty"`
	GameRate   *float64 `json:"gameRate,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

type Location struct {
	Name         string           `json:"name"`
	Address      string           `json:"address"`
	City         string           `json:"city"`
	State        string           `json:"state"`
	ZipCode      string           `json:"zipCode"`
	Coordinates  *Coordinates     `json:"coordinates,omitempty"`
	Capacity     *float64         `json:"capacity,omitempty"`
	Courts       []Court          `json:"courts"`
	Facilities   []Facility       `json:"facilities,omitempty"`
	ContactInfo  *LocationContact `json:"contactInfo,omitempty"`
	Availability []OpeningHours   `json:"availability,omitempty"`
	Pricing      *Pricing         `json:"pricing,omitempty"`
	IsActive     bool             `json:"isActive"`
}

func (l *Location) check(c *checker, _ time.Time) {
	c.requiredText("name", l.Name)
	c.requiredText("address", l.Address)
	c.requiredText("city", l.City)
	c.requiredSelection("state", l.State, LocationStates...)
	c.requiredText("zipCode", l.ZipCode, validation.ZipCode)
	c.number("capacity", l.Capacity, validation.Min(0))

	if l.Coordinates != nil {
		c.number("coordinates.latitude", l.Coordinates.Latitude, validation.Range(-90, 90))
		c.number("coordinates.longitude", l.Coordinates.Longitude, validation.Range(-180, 180))
	}

	if len(l.Courts) < 1 {
		c.add("courts", "This field requires at least 1 row")
	}
	for i, court := range l.Courts {
		c.requiredText(indexed("courts", i, "courtName"), court.CourtName)
		c.selection(indexed("courts", i, "courtType"), court.CourtType, "full", "half", "practice")
	}
	for i, f := range l.Facilities {
		c.requiredSelection(indexed("facilities", i, "facility"), f.Facility,
			"parking", "concessions", "restrooms", "lockers", "scoreboards", "sound", "streaming", "accessible")
	}

	if info := l.ContactInfo; info != nil {
		c.text("contactInfo.phone", info.Phone, validation.Phone)
		c.text("contactInfo.email", info.Email, validation.Email)
		c.text("contactInfo.website", info.Website, validation.URL)
	}

	for i, hours := range l.Availability {
		c.requiredSelection(indexed("availability", i, "dayOfWeek"), hours.DayOfWeek, weekdays...)
		c.requiredText(indexed("availability", i, "openTime"), hours.OpenTime, validation.Time)
		c.requiredText(indexed("availability", i, "closeTime"), hours.CloseTime, validation.Time)
	}

	if l.Pricing != nil {
		c.number("pricing.hourlyRate", l.Pricing.HourlyRate, validation.Min(0))
		c.number("pricing.gameRate", l.Pricing.GameRate, validation.Min(0))
	}
}
