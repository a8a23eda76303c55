package validation

import (
	"errors"
	"testing"
)

func TestStringValidators(t *testing.T) {
	tests := []struct {
		name  string
		rule  StringRule
		input string
		valid bool
	}{
		// Phone
		{"phone canonical", Phone, "(555) 123-4567", true},
		{"phone dashes only", Phone, "555-123-4567", false},
		{"phone short area code", Phone, "(55) 123-4567", false},
		{"phone missing space", Phone, "(555)123-4567", false},
		{"phone trailing text", Phone, "(555) 123-4567 x2", false},
		{"phone empty", Phone, "", true},

		// HexColor
		{"hex upper", HexColor, "#FF0000", true},
		{"hex lower", HexColor, "#abcdef", true},
		{"hex mixed", HexColor, "#aBc123", true},
		{"hex short", HexColor, "#ABC", false},
		{"hex missing hash", HexColor, "ABCDEF", false},
		{"hex non hex digits", HexColor, "#GGHHII", false},
		{"hex too long", HexColor, "#ABCDEF0", false},

		// Time
		{"time midnight", Time, "00:00", true},
		{"time end of day", Time, "23:59", true},
		{"time single digit hour", Time, "9:30", true},
		{"time hour 24", Time, "24:00", false},
		{"time minute 60", Time, "12:60", false},
		{"time twelve hour", Time, "7:30 PM", false},

		// ZipCode
		{"zip five", ZipCode, "94107", true},
		{"zip plus four", ZipCode, "94107-1234", true},
		{"zip four digits", ZipCode, "9410", false},
		{"zip bad suffix", ZipCode, "94107-12", false},

		// URL
		{"url https", URL, "https://example.com", true},
		{"url http", URL, "http://x", true},
		{"url scheme only", URL, "https://", false},
		{"url ftp", URL, "ftp://example.com", false},
		{"url bare host", URL, "example.com", false},

		// Height
		{"height with quote", Height, `6'2"`, true},
		{"height without quote", Height, "6'2", true},
		{"height two digit inches", Height, "5'11", true},
		{"height spelled", Height, "6 ft 2", false},
		{"height missing inches", Height, "6'", false},

		// Email
		{"email simple", Email, "coach@example.com", true},
		{"email display name", Email, "Coach <coach@example.com>", false},
		{"email no domain", Email, "coach@", false},

		// Lengths
		{"min length short", MinLength(2), "A", false},
		{"min length exact", MinLength(2), "AB", true},
		{"min length empty", MinLength(2), "", true},
		{"max length exact", MaxLength(8), "CELTICS1", true},
		{"max length over", MaxLength(8), "CELTICS12", false},
		{"max length counts runes", MaxLength(3), "ñññ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule(tt.input)
			if got := err == nil; got != tt.valid {
				t.Fatalf("validate(%q) valid = %v, want %v (err: %v)", tt.input, got, tt.valid, err)
			}
			if err != nil {
				var inv *Invalid
				if !errors.As(err, &inv) || inv.Message == "" {
					t.Fatalf("expected *Invalid with a message, got %T", err)
				}
			}
		})
	}
}

func TestValidatorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"phone", Phone("555"), "Please use format: (555) 123-4567"},
		{"hex", HexColor("red"), "Please enter a valid hex color (e.g., #FF0000)"},
		{"min length", MinLength(3)("ab"), "Must be at least 3 characters"},
		{"max length", MaxLength(8)("abcdefghi"), "Must be 8 characters or less"},
		{"range", Range(0, 99)(floatPtr(100)), "Must be between 0 and 99"},
		{"array", MaxArrayLength(3)([]string{"a", "b", "c", "d"}), "Maximum 3 items allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err == nil {
				t.Fatalf("expected an error")
			}
			if tt.err.Error() != tt.want {
				t.Fatalf("message = %q, want %q", tt.err.Error(), tt.want)
			}
		})
	}
}

func TestRange(t *testing.T) {
	rule := Range(1, 5)
	tests := []struct {
		name  string
		input *float64
		valid bool
	}{
		{"absent", nil, true},
		{"lower bound", floatPtr(1), true},
		{"upper bound", floatPtr(5), true},
		{"zero is checked", floatPtr(0), false},
		{"above", floatPtr(5.5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rule(tt.input) == nil; got != tt.valid {
				t.Fatalf("Range(1,5) valid = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestMaxArrayLength(t *testing.T) {
	rule := MaxArrayLength(3)
	tests := []struct {
		name  string
		input any
		valid bool
	}{
		{"nil", nil, true},
		{"three", []any{"a", "b", "c"}, true},
		{"four", []any{"a", "b", "c", "d"}, false},
		{"typed slice", []string{"a", "b", "c", "d"}, false},
		{"not an array", "abcdef", true},
		{"map is not an array", map[string]any{"a": 1, "b": 2, "c": 3, "d": 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rule(tt.input) == nil; got != tt.valid {
				t.Fatalf("MaxArrayLength(3) valid = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestDialablePhone(t *testing.T) {
	rule := DialablePhone("US")
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"empty", "", true},
		{"e164", "+12024561111", true},
		{"national with parens", "(202) 456-1111", true},
		{"dotted", "202.456.1111", true},
		{"too short", "12345", false},
		{"letters", "call the office", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rule(tt.input) == nil; got != tt.valid {
				t.Fatalf("DialablePhone(%q) valid = %v, want %v", tt.input, got, tt.valid)
			}
		})
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
