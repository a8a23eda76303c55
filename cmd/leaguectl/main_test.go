package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/codr1/leaguedesk/internal/auth"
	"github.com/codr1/leaguedesk/internal/consistency"
	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/store"
	"github.com/codr1/leaguedesk/internal/testutil"
)

func newTestEngine(t *testing.T) *consistency.Engine {
	t.Helper()
	return consistency.New(store.NewSQLStore(testutil.NewTestDB(t)))
}

const importJSON = `[
  {"collection": "seasons", "id": "season-1", "data": {
    "name": "Winter League", "type": "regular", "year": 2026,
    "startDate": "2026-01-05", "endDate": "2026-04-30", "isActive": true}},
  {"collection": "teams", "id": "team-a", "data": {
    "name": "Aces", "location": {"city": "Springfield"}, "colors": {"primary": "#000000"},
    "division": "division-1", "season": "season-1", "headCoach": "Coach A",
    "contacts": [{"name": "Manager", "role": "manager", "email": "a@example.com", "phone": "+12024561111"}]}}
]`

const importYAML = `
- collection: teams
  id: team-b
  data:
    name: Bolts
    location: {city: Springfield}
    colors: {primary: "#ffffff"}
    division: division-1
    season: season-1
    headCoach: Coach B
    contacts:
      - {name: Manager, role: manager, email: b@example.com, phone: "+12024561111"}
`

func TestParseImport(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		raw     string
		want    int
		wantErr bool
	}{
		{name: "json", file: "league.json", raw: importJSON, want: 2},
		{name: "yaml", file: "teams.yaml", raw: importYAML, want: 1},
		{name: "unknown_collection", file: "x.json", raw: `[{"collection": "widgets", "data": {}}]`, wantErr: true},
		{name: "missing_data", file: "x.json", raw: `[{"collection": "teams"}]`, wantErr: true},
		{name: "malformed", file: "x.json", raw: `{`, wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			entries, err := parseImport(test.file, []byte(test.raw))
			if test.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseImport: %v", err)
			}
			if len(entries) != test.want {
				t.Fatalf("got %d entries, want %d", len(entries), test.want)
			}
		})
	}
}

func TestValidateEntriesReportsEveryFailure(t *testing.T) {
	entries, err := parseImport("bad.json", []byte(`[
  {"collection": "seasons", "data": {"name": "X"}},
  {"collection": "officials", "data": {"name": "Pat", "email": "pat@example.com", "certificationLevel": "certified"}},
  {"collection": "media", "data": {"alt": "logo", "mimeType": "video/mp4"}}
]`))
	if err != nil {
		t.Fatalf("parseImport: %v", err)
	}

	err = validateEntries(context.Background(), entries, time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC), 2)
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "bad.json[0]") || !strings.Contains(msg, "bad.json[2]") {
		t.Fatalf("error does not name both failing entries: %v", err)
	}
	if strings.Contains(msg, "bad.json[1]") {
		t.Fatalf("valid entry reported as failing: %v", err)
	}
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a ValidationError in %v", err)
	}
}

func TestWriteEntriesThenCheckDB(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	first, err := parseImport("league.json", []byte(importJSON))
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	second, err := parseImport("teams.yaml", []byte(importYAML))
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if err := writeEntries(ctx, engine, append(first, second...)); err != nil {
		t.Fatalf("writeEntries: %v", err)
	}

	team, err := engine.Get(ctx, models.CollectionTeams, "team-b")
	if err != nil {
		t.Fatalf("get imported team: %v", err)
	}
	if team.Data.String("currentRecord") != "0-0" {
		t.Fatalf("imported team record = %q", team.Data.String("currentRecord"))
	}

	var out bytes.Buffer
	if err := checkDB(ctx, engine, &out); err != nil {
		t.Fatalf("checkDB: %v", err)
	}
	report := out.String()
	for _, want := range []string{"teams", "2", "Winter League (season-1)"} {
		if !strings.Contains(report, want) {
			t.Fatalf("check-db output missing %q:\n%s", want, report)
		}
	}

	if err := writeEntries(ctx, engine, first[:1]); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("re-importing a taken ID: got %v, want ErrConflict", err)
	}
}

func TestCheckDBWithoutActiveSeason(t *testing.T) {
	var out bytes.Buffer
	if err := checkDB(context.Background(), newTestEngine(t), &out); err != nil {
		t.Fatalf("checkDB: %v", err)
	}
	if !strings.Contains(out.String(), "none") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestScheduleGames(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	entries, err := parseImport("league.json", []byte(importJSON))
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	more, err := parseImport("teams.yaml", []byte(importYAML))
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if err := writeEntries(ctx, engine, append(entries, more...)); err != nil {
		t.Fatalf("writeEntries: %v", err)
	}
	_, err = engine.CreateWithID(ctx, models.CollectionLocations, "location-1", store.Data{
		"name":    "Rec Center",
		"address": "1 Main St",
		"city":    "Springfield",
		"state":   "IL",
		"zipCode": "62701",
		"courts":  []any{map[string]any{"courtName": "Court 1", "courtType": "full"}},
		"availability": []any{
			map[string]any{"dayOfWeek": "saturday", "openTime": "09:00", "closeTime": "12:00"},
		},
	})
	if err != nil {
		t.Fatalf("create location: %v", err)
	}

	opts := scheduleOptions{
		seasonID:   "season-1",
		sessionID:  "session-1",
		divisionID: "division-1",
		locationID: "location-1",
		start:      "2026-03-06",
		end:        "2026-03-14",
		duration:   time.Hour,
		dryRun:     true,
	}
	planned, err := scheduleGames(ctx, engine, opts)
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if len(planned) != 1 || planned[0].String("gameDate") != "2026-03-07" {
		t.Fatalf("unexpected dry-run games: %v", planned)
	}
	if n, _ := engine.Store().Count(ctx, models.CollectionGames, nil); n != 0 {
		t.Fatalf("dry run created %d games", n)
	}

	opts.dryRun = false
	created, err := scheduleGames(ctx, engine, opts)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created %d games, want 1", len(created))
	}
	if created[0].Int("gameNumber") != 1 || created[0].String("gameTitle") != "Bolts @ Aces" {
		t.Fatalf("game was not numbered and titled: %v", created[0])
	}
}

func TestRootCommandsWithoutConfig(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, out string)
	}{
		{
			name: "version",
			args: []string{"version"},
			check: func(t *testing.T, out string) {
				if !strings.HasPrefix(out, appName+" version "+Version) {
					t.Fatalf("unexpected version output %q", out)
				}
			},
		},
		{
			name: "hash_password",
			args: []string{"--config", "/nonexistent/dir/config.yaml", "hash-password", "s3cret"},
			check: func(t *testing.T, out string) {
				if !auth.VerifyPassword(strings.TrimSpace(out), "s3cret") {
					t.Fatalf("printed hash does not verify: %q", out)
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cmd := newRootCmd()
			var out bytes.Buffer
			cmd.SetOut(&out)
			cmd.SetArgs(test.args)
			if err := cmd.Execute(); err != nil {
				t.Fatalf("execute %v: %v", test.args, err)
			}
			test.check(t, out.String())
		})
	}
}

func TestWriteEntriesIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	engine := newTestEngine(t)

	first, err := parseImport("league.json", []byte(importJSON))
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if err := writeEntries(ctx, engine, first); err != nil {
		t.Fatalf("initial import: %v", err)
	}

	second, err := parseImport("teams.yaml", []byte(importYAML))
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	// team-b is new, season-1 is already taken.
	err = writeEntries(ctx, engine, append(second, first[0]))
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
	if _, err := engine.Get(ctx, models.CollectionTeams, "team-b"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("team-b was written by a failed import: %v", err)
	}
	season, err := engine.ActiveSeason(ctx)
	if err != nil || season.ID != "season-1" {
		t.Fatalf("active season after failed import = %q, %v", season.ID, err)
	}
}
