// Package validation holds the field-format rules shared by every collection.
//
// Validators never enforce presence: an empty string or nil value is always
// valid. Required fields are checked by the schema layer in internal/models.
package validation

import (
	"fmt"
	"net/mail"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/nyaruka/phonenumbers"
)

var (
	urlRegex      = regexp.MustCompile(`^https?://.+`)
	timeRegex     = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)
	zipCodeRegex  = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	phoneRegex    = regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`)
	hexColorRegex = regexp.MustCompile(`(?i)^#[0-9A-F]{6}$`)
	heightRegex   = regexp.MustCompile(`^\d{1,2}'\d{1,2}"?$`)
)

// Invalid is the rejection returned by a validator. Message is shown to the
// user next to the offending field.
type Invalid struct {
	Message string
}

func (e *Invalid) Error() string {
	return e.Message
}

func invalid(format string, args ...any) error {
	return &Invalid{Message: fmt.Sprintf(format, args...)}
}

// StringRule validates a text field.
type StringRule func(value string) error

// NumberRule validates a numeric field; nil means absent.
type NumberRule func(value *float64) error

// URL requires an http or https scheme.
func URL(value string) error {
	if value != "" && !urlRegex.MatchString(value) {
		return invalid("Please enter a valid URL starting with http:// or https://")
	}
	return nil
}

// Time requires a 24-hour HH:MM clock value.
func Time(value string) error {
	if value != "" && !timeRegex.MatchString(value) {
		return invalid("Please use 24-hour format (HH:MM)")
	}
	return nil
}

// ZipCode requires a US ZIP or ZIP+4.
func ZipCode(value string) error {
	if value != "" && !zipCodeRegex.MatchString(value) {
		return invalid("Please enter a valid ZIP code")
	}
	return nil
}

// Phone requires the display format (555) 123-4567.
func Phone(value string) error {
	if value != "" && !phoneRegex.MatchString(value) {
		return invalid("Please use format: (555) 123-4567")
	}
	return nil
}

// HexColor requires # followed by six hex digits.
func HexColor(value string) error {
	if value != "" && !hexColorRegex.MatchString(value) {
		return invalid("Please enter a valid hex color (e.g., #FF0000)")
	}
	return nil
}

// Height requires feet'inches with an optional trailing double quote.
func Height(value string) error {
	if value != "" && !heightRegex.MatchString(value) {
		return invalid("Please use format: 6'2\" or 6'2")
	}
	return nil
}

// Email requires a single bare address.
func Email(value string) error {
	if value == "" {
		return nil
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != strings.TrimSpace(value) {
		return invalid("Please enter a valid email address")
	}
	return nil
}

// MinLength counts characters, not bytes.
func MinLength(min int) StringRule {
	return func(value string) error {
		if value != "" && utf8.RuneCountInString(value) < min {
			return invalid("Must be at least %d characters", min)
		}
		return nil
	}
}

func MaxLength(max int) StringRule {
	return func(value string) error {
		if value != "" && utf8.RuneCountInString(value) > max {
			return invalid("Must be %d characters or less", max)
		}
		return nil
	}
}

// Range bounds a number inclusively. Zero is a present value.
func Range(min, max float64) NumberRule {
	return func(value *float64) error {
		if value != nil && (*value < min || *value > max) {
			return invalid("Must be between %s and %s", formatNumber(min), formatNumber(max))
		}
		return nil
	}
}

func Min(min float64) NumberRule {
	return func(value *float64) error {
		if value != nil && *value < min {
			return invalid("Must be %s or greater", formatNumber(min))
		}
		return nil
	}
}

// MaxArrayLength bounds a slice. Anything that is not a slice or array
// counts as empty.
func MaxArrayLength(max int) func(value any) error {
	return func(value any) error {
		if arrayLength(value) > max {
			return invalid("Maximum %d items allowed", max)
		}
		return nil
	}
}

// DialablePhone accepts any formatting as long as the number is valid for
// the region, e.g. "+1 415 555 2671" or "415.555.2671" for "US".
func DialablePhone(region string) StringRule {
	return func(value string) error {
		if value == "" {
			return nil
		}
		num, err := phonenumbers.Parse(value, region)
		if err != nil || !phonenumbers.IsValidNumber(num) {
			return invalid("Please enter a valid phone number")
		}
		return nil
	}
}

func arrayLength(value any) int {
	if value == nil {
		return 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len()
	default:
		return 0
	}
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
