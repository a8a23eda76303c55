// Package models describes the league collections: the shape of each
// document and the field rules a write must satisfy.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/codr1/leaguedesk/internal/store"
	"github.com/codr1/leaguedesk/internal/validation"
)

const (
	CollectionConferences = "conferences"
	CollectionDivisions   = "divisions"
	CollectionSeasons     = "seasons"
	CollectionSessions    = "sessions"
	CollectionGames       = "games"
	CollectionTeams       = "teams"
	CollectionPlayers     = "players"
	CollectionOfficials   = "officials"
	CollectionLocations   = "locations"
	CollectionMedia       = "media"
)

const (
	reasonRequired  = "This field is required"
	reasonSelection = "This field has an invalid selection"
	dateLayout      = "2006-01-02"
)

var ErrUnknownCollection = errors.New("unknown collection")

type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidationError refuses a whole write and lists every failing field.
type ValidationError struct {
	Collection string       `json:"collection"`
	Errors     []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Error())
	}
	return fmt.Sprintf("invalid %s document: %s", e.Collection, strings.Join(parts, "; "))
}

// Field returns the message recorded for field, if any.
func (e *ValidationError) Field(field string) (string, bool) {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return fe.Reason, true
		}
	}
	return "", false
}

// NewFieldError builds a single-field ValidationError.
func NewFieldError(collection, field, reason string) *ValidationError {
	return &ValidationError{
		Collection: collection,
		Errors:     []FieldError{{Field: field, Reason: reason}},
	}
}

type schema interface {
	check(c *checker, now time.Time)
}

var registry = map[string]func() schema{
	CollectionConferences: func() schema { return &Conference{} },
	CollectionDivisions:   func() schema { return &Division{} },
	CollectionSeasons:     func() schema { return &Season{} },
	CollectionSessions:    func() schema { return &Session{} },
	CollectionGames:       func() schema { return &Game{} },
	CollectionTeams:       func() schema { return &Team{} },
	CollectionPlayers:     func() schema { return &Player{} },
	CollectionOfficials:   func() schema { return &Official{} },
	CollectionLocations:   func() schema { return &Location{} },
	CollectionMedia:       func() schema { return &Media{} },
}

// Known reports whether collection has a schema.
func Known(collection string) bool {
	_, ok := registry[collection]
	return ok
}

// Collections lists every collection name in alphabetical order.
func Collections() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks a complete document (for updates, the stored document
// merged with the patch). now anchors the relative year rules.
func Validate(collection string, data store.Data, now time.Time) error {
	factory, ok := registry[collection]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}

	doc := factory()
	c := &checker{}
	if err := Decode(data, doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			c.add(typeErr.Field, fmt.Sprintf("must be a %s", jsonKind(typeErr.Type.Kind().String())))
			return c.result(collection)
		}
		return fmt.Errorf("decode %s document: %w", collection, err)
	}
	doc.check(c, now)
	return c.result(collection)
}

// Decode converts document data into one of the typed collection views.
func Decode(data store.Data, v any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, v)
}

func jsonKind(goKind string) string {
	switch goKind {
	case "float64", "int", "int64":
		return "number"
	case "bool":
		return "checkbox value"
	case "struct", "map":
		return "group"
	case "slice":
		return "list"
	default:
		return "text value"
	}
}

// Ref is a relationship to another document. It accepts an ID string or a
// populated object carrying an "id".
type Ref string

func (r *Ref) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*r = ""
		return nil
	}
	var id string
	if err := json.Unmarshal(b, &id); err == nil {
		*r = Ref(id)
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("relationship must be an id or an object with an id")
	}
	*r = Ref(obj.ID)
	return nil
}

// checker accumulates field errors in the order rules run.
type checker struct {
	errs []FieldError
}

func (c *checker) add(field, reason string) {
	c.errs = append(c.errs, FieldError{Field: field, Reason: reason})
}

func (c *checker) addErr(field string, err error) {
	if err != nil {
		c.add(field, err.Error())
	}
}

func (c *checker) required(field string, present bool) bool {
	if !present {
		c.add(field, reasonRequired)
	}
	return present
}

func (c *checker) text(field, value string, rules ...validation.StringRule) {
	for _, rule := range rules {
		if err := rule(value); err != nil {
			c.addErr(field, err)
			return
		}
	}
}

func (c *checker) requiredText(field, value string, rules ...validation.StringRule) {
	if c.required(field, strings.TrimSpace(value) != "") {
		c.text(field, value, rules...)
	}
}

func (c *checker) number(field string, value *float64, rules ...validation.NumberRule) {
	for _, rule := range rules {
		if err := rule(value); err != nil {
			c.addErr(field, err)
			return
		}
	}
}

func (c *checker) requiredNumber(field string, value *float64, rules ...validation.NumberRule) {
	if c.required(field, value != nil) {
		c.number(field, value, rules...)
	}
}

func (c *checker) ref(field string, value Ref) {
	c.required(field, strings.TrimSpace(string(value)) != "")
}

// selection checks an optional select field.
func (c *checker) selection(field, value string, options ...string) {
	if value == "" {
		return
	}
	for _, opt := range options {
		if value == opt {
			return
		}
	}
	c.add(field, reasonSelection)
}

func (c *checker) requiredSelection(field, value string, options ...string) {
	if c.required(field, value != "") {
		c.selection(field, value, options...)
	}
}

// date parses an optional date; it returns the zero time when absent or invalid.
func (c *checker) date(field, value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := ParseDate(value)
	if err != nil {
		c.add(field, "Please enter a valid date")
		return time.Time{}
	}
	return parsed
}

func (c *checker) requiredDate(field, value string) time.Time {
	if !c.required(field, value != "") {
		return time.Time{}
	}
	return c.date(field, value)
}

// endAfterStart enforces the end date rule shared by seasons and sessions.
func (c *checker) endAfterStart(field string, start, end time.Time) {
	if !start.IsZero() && !end.IsZero() && !end.After(start) {
		c.add(field, "End date must be after start date")
	}
}

func (c *checker) result(collection string) error {
	if len(c.errs) == 0 {
		return nil
	}
	return &ValidationError{Collection: collection, Errors: c.errs}
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, value)
}

func indexed(field string, i int, sub string) string {
	return fmt.Sprintf("%s[%d].%s", field, i, sub)
}
