package standings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/codr1/leaguedesk/internal/consistency"
	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/notify"
	"github.com/codr1/leaguedesk/internal/store"
	"github.com/codr1/leaguedesk/internal/testutil"
)

type recordingReporter struct {
	mu        sync.Mutex
	incidents []notify.Incident
}

func (r *recordingReporter) Report(_ context.Context, incident notify.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.incidents = append(r.incidents, incident)
	return nil
}

type league struct {
	t      *testing.T
	engine *consistency.Engine
}

func newLeague(t *testing.T) *league {
	t.Helper()
	database := testutil.NewTestDB(t)
	engine := consistency.New(store.NewSQLStore(database), consistency.WithClock(func() time.Time {
		return time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	}))
	return &league{t: t, engine: engine}
}

func (l *league) team(name string) string {
	l.t.Helper()
	doc, err := l.engine.Create(context.Background(), models.CollectionTeams, store.Data{
		"name":      name,
		"location":  map[string]any{"city": "Springfield"},
		"colors":    map[string]any{"primary": "#000000"},
		"division":  "division-1",
		"season":    "season-1",
		"headCoach": "Coach",
		"contacts": []any{
			map[string]any{"name": "Manager", "role": "manager", "email": "manager@example.com", "phone": "+12024561111"},
		},
	})
	if err != nil {
		l.t.Fatalf("create team %s: %v", name, err)
	}
	return doc.ID
}

func (l *league) game(home, away string) string {
	l.t.Helper()
	doc, err := l.engine.Create(context.Background(), models.CollectionGames, store.Data{
		"session":  "session-1",
		"season":   "season-1",
		"division": "division-1",
		"homeTeam": home,
		"awayTeam": away,
		"gameDate": "2026-02-10",
		"gameTime": "18:00",
		"location": "location-1",
		"venue":    "Main Gym",
	})
	if err != nil {
		l.t.Fatalf("create game: %v", err)
	}
	return doc.ID
}

func (l *league) final(gameID string, homeScore, awayScore int) {
	l.t.Helper()
	_, err := l.engine.Update(context.Background(), models.CollectionGames, gameID, store.Data{
		"status": models.GameStatusFinal,
		"score":  map[string]any{"homeScore": homeScore, "awayScore": awayScore},
	})
	if err != nil {
		l.t.Fatalf("finish game %s: %v", gameID, err)
	}
}

func (l *league) play(home, away string, homeScore, awayScore int) string {
	l.t.Helper()
	id := l.game(home, away)
	l.final(id, homeScore, awayScore)
	return id
}

func TestComputeOrdersByWinsThenTiebreakers(t *testing.T) {
	l := newLeague(t)
	a := l.team("Aces")
	b := l.team("Bolts")
	c := l.team("Comets")
	d := l.team("Dragons")

	l.play(a, b, 80, 70)
	l.play(b, c, 90, 85)
	l.play(c, a, 60, 55)
	l.play(a, d, 50, 50)
	l.game(b, d) // scheduled games are not counted

	standings, err := Compute(context.Background(), l.engine.Store(), "season-1")
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	wantOrder := []string{a, c, b, d}
	if len(standings) != len(wantOrder) {
		t.Fatalf("got %d standings, want %d", len(standings), len(wantOrder))
	}
	for i, id := range wantOrder {
		if standings[i].TeamID != id {
			t.Fatalf("position %d = %s (%s), want %s", i+1, standings[i].TeamName, standings[i].TeamID, id)
		}
	}

	aces := standings[0]
	if aces.Wins != 1 || aces.Losses != 1 || aces.Ties != 1 || aces.GamesPlayed != 3 {
		t.Fatalf("unexpected Aces line: %+v", aces)
	}
	if aces.PointDifferential != 5 || aces.Record != "1-1-1" {
		t.Fatalf("unexpected Aces totals: %+v", aces)
	}
	if standings[3].Record != "0-0-1" {
		t.Fatalf("Dragons record = %q, want 0-0-1", standings[3].Record)
	}
}

func TestComputeRequiresSeason(t *testing.T) {
	l := newLeague(t)
	if _, err := Compute(context.Background(), l.engine.Store(), ""); err == nil {
		t.Fatalf("expected error without a season")
	}
}

func TestAuditCleanAfterSinglePropagation(t *testing.T) {
	l := newLeague(t)
	a := l.team("Aces")
	b := l.team("Bolts")
	l.play(a, b, 80, 70)

	drifts, err := Audit(context.Background(), l.engine.Store())
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	if len(drifts) != 0 {
		t.Fatalf("expected no drift, got %v", drifts)
	}
}

func TestAuditFindsDoubleAppliedResultAndRepairs(t *testing.T) {
	l := newLeague(t)
	ctx := context.Background()
	a := l.team("Aces")
	b := l.team("Bolts")
	game := l.play(a, b, 80, 70)

	if _, err := l.engine.Update(ctx, models.CollectionGames, game, store.Data{"notes": "resaved"}); err != nil {
		t.Fatalf("resave: %v", err)
	}

	reporter := &recordingReporter{}
	drifts, err := AuditAndReport(ctx, l.engine.Store(), reporter)
	if err != nil {
		t.Fatalf("AuditAndReport: %v", err)
	}
	if len(drifts) != 2 {
		t.Fatalf("expected drift for both teams, got %v", drifts)
	}
	for _, drift := range drifts {
		if drift.Stored.GamesPlayed != 2 || drift.Expected.GamesPlayed != 1 {
			t.Fatalf("unexpected drift %+v", drift)
		}
	}
	if len(reporter.incidents) != 1 || reporter.incidents[0].Kind != notify.KindStandingsDrift {
		t.Fatalf("expected one drift incident, got %+v", reporter.incidents)
	}

	if err := Repair(ctx, l.engine, drifts); err != nil {
		t.Fatalf("Repair: %v", err)
	}
	drifts, err = Audit(ctx, l.engine.Store())
	if err != nil {
		t.Fatalf("Audit after repair: %v", err)
	}
	if len(drifts) != 0 {
		t.Fatalf("drift remains after repair: %v", drifts)
	}

	team, err := l.engine.Get(ctx, models.CollectionTeams, a)
	if err != nil {
		t.Fatalf("get team: %v", err)
	}
	if got := team.Data.String("currentRecord"); got != "1-0" {
		t.Fatalf("currentRecord after repair = %q, want 1-0", got)
	}
}

func TestAuditFindsGameCreatedAsFinal(t *testing.T) {
	l := newLeague(t)
	ctx := context.Background()
	a := l.team("Aces")
	b := l.team("Bolts")

	_, err := l.engine.Create(ctx, models.CollectionGames, store.Data{
		"session":  "session-1",
		"season":   "season-1",
		"division": "division-1",
		"homeTeam": a,
		"awayTeam": b,
		"gameDate": "2026-02-10",
		"gameTime": "18:00",
		"location": "location-1",
		"venue":    "Main Gym",
		"status":   models.GameStatusFinal,
		"score":    map[string]any{"homeScore": 3, "awayScore": 1},
	})
	if err != nil {
		t.Fatalf("create final game: %v", err)
	}

	drifts, err := Audit(ctx, l.engine.Store())
	if err != nil {
		t.Fatalf("Audit: %v", err)
	}
	if len(drifts) != 2 {
		t.Fatalf("expected drift for both teams, got %v", drifts)
	}
	fields := drifts[0].Fields()
	if len(fields) == 0 {
		t.Fatalf("drift lists no fields")
	}
}
