package store

import (
	"context"
	"errors"
	"testing"

	"github.com/codr1/leaguedesk/internal/testutil"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	return NewSQLStore(testutil.NewTestDB(t))
}

func TestCreateAndFindByID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created, err := s.Create(ctx, "teams", "t1", Data{
		"name":  "Boston Celtics",
		"stats": Data{"wins": 5},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Version != 1 {
		t.Fatalf("version = %d, want 1", created.Version)
	}

	found, err := s.FindByID(ctx, "teams", "t1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Data.String("name") != "Boston Celtics" {
		t.Fatalf("name = %q", found.Data.String("name"))
	}
	if got := found.Data.Map("stats").Int("wins"); got != 5 {
		t.Fatalf("stats.wins = %d, want 5", got)
	}
	if found.CreatedAt.IsZero() || found.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps to be set")
	}
}

func TestCreateDuplicateIsConflict(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.Create(ctx, "teams", "t1", Data{}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Create(ctx, "teams", "t1", Data{}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	// Same id in another collection is a different document.
	if _, err := s.Create(ctx, "players", "t1", Data{}); err != nil {
		t.Fatalf("create in other collection: %v", err)
	}
}

func TestFindByIDMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.FindByID(context.Background(), "teams", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCountAndFindWithFilter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seed := []struct {
		id   string
		data Data
	}{
		{"g1", Data{"season": "s1", "status": "final", "gameNumber": 1}},
		{"g2", Data{"season": "s1", "status": "scheduled", "gameNumber": 2}},
		{"g3", Data{"season": "s2", "status": "final", "gameNumber": 1}},
	}
	for _, item := range seed {
		if _, err := s.Create(ctx, "games", item.id, item.data); err != nil {
			t.Fatalf("create %s: %v", item.id, err)
		}
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", nil, 3},
		{"by season", Filter{"season": "s1"}, 2},
		{"season and status", Filter{"season": "s1", "status": "final"}, 1},
		{"by number", Filter{"gameNumber": 1}, 2},
		{"no match", Filter{"season": "s9"}, 0},
		{"missing field", Filter{"venue": nil}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := s.Count(ctx, "games", tt.filter)
			if err != nil {
				t.Fatalf("count: %v", err)
			}
			if count != tt.want {
				t.Fatalf("count = %d, want %d", count, tt.want)
			}
			docs, err := s.Find(ctx, "games", tt.filter)
			if err != nil {
				t.Fatalf("find: %v", err)
			}
			if len(docs) != tt.want {
				t.Fatalf("find returned %d docs, want %d", len(docs), tt.want)
			}
		})
	}

	docs, err := s.Find(ctx, "games", nil)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	for i, want := range []string{"g1", "g2", "g3"} {
		if docs[i].ID != want {
			t.Fatalf("docs[%d] = %s, want %s (creation order)", i, docs[i].ID, want)
		}
	}
}

func TestFilterOnBooleans(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for id, active := range map[string]any{"a": true, "b": false, "c": 1} {
		if _, err := s.Create(ctx, "seasons", id, Data{"isActive": active}); err != nil {
			t.Fatalf("create %s: %v", id, err)
		}
	}

	count, err := s.Count(ctx, "seasons", Filter{"isActive": true})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("active count = %d, want 1 (numeric 1 is not true)", count)
	}
}

func TestFilterRejectsBadFieldPath(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Count(context.Background(), "games", Filter{"season') OR 1=1 --": "x"}); err == nil {
		t.Fatalf("expected invalid filter field error")
	}
}

func TestUpdateMergesAndBumpsVersion(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.Create(ctx, "teams", "t1", Data{"name": "Celtics", "shortName": "BOS"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := s.Update(ctx, "teams", "t1", Data{"shortName": "BOS2", "status": "active"}, 0)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Version != 2 {
		t.Fatalf("version = %d, want 2", updated.Version)
	}
	if updated.Data.String("name") != "Celtics" || updated.Data.String("shortName") != "BOS2" || updated.Data.String("status") != "active" {
		t.Fatalf("unexpected merged data: %v", updated.Data)
	}

	found, err := s.FindByID(ctx, "teams", "t1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Version != 2 || found.Data.String("shortName") != "BOS2" {
		t.Fatalf("stored document not updated: %+v", found)
	}
}

func TestUpdateVersionMismatch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.Create(ctx, "teams", "t1", Data{"name": "Celtics"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Update(ctx, "teams", "t1", Data{"name": "A"}, 1); err != nil {
		t.Fatalf("update at version 1: %v", err)
	}
	if _, err := s.Update(ctx, "teams", "t1", Data{"name": "B"}, 1); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict for stale version, got %v", err)
	}
}

func TestUpdateMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Update(context.Background(), "teams", "nope", Data{"name": "x"}, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.Create(ctx, "media", "m1", Data{"alt": "logo"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Delete(ctx, "media", "m1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "media", "m1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCollections(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, id := range []string{"a", "b"} {
		if _, err := s.Create(ctx, "teams", id, Data{}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := s.Create(ctx, "games", "g", Data{}); err != nil {
		t.Fatalf("create: %v", err)
	}

	counts, err := s.Collections(ctx)
	if err != nil {
		t.Fatalf("collections: %v", err)
	}
	if counts["teams"] != 2 || counts["games"] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestRunInTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	boom := errors.New("boom")
	err := s.RunInTx(ctx, func(tx Store) error {
		if _, err := tx.Create(ctx, "teams", "t1", Data{}); err != nil {
			return err
		}
		// Nested RunInTx joins the same transaction.
		return tx.RunInTx(ctx, func(inner Store) error {
			if _, err := inner.Create(ctx, "teams", "t2", Data{}); err != nil {
				return err
			}
			return boom
		})
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	count, err := s.Count(ctx, "teams", nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected both creates rolled back, found %d", count)
	}
}

func TestDataAccessors(t *testing.T) {
	d := Data{
		"homeTeam": "t1",
		"awayTeam": map[string]any{"id": "t2", "name": "Lakers"},
		"score":    map[string]any{"homeScore": float64(80)},
		"isActive": true,
	}

	if d.Ref("homeTeam") != "t1" || d.Ref("awayTeam") != "t2" {
		t.Fatalf("unexpected refs: %q %q", d.Ref("homeTeam"), d.Ref("awayTeam"))
	}
	if d.Map("score").Int("homeScore") != 80 {
		t.Fatalf("expected homeScore 80")
	}
	if d.Map("score").Int("awayScore") != 0 {
		t.Fatalf("expected missing awayScore to read as 0")
	}
	if !d.Bool("isActive") || d.Bool("missing") {
		t.Fatalf("unexpected bools")
	}

	clone := d.Clone()
	clone.Map("score")["homeScore"] = float64(1)
	if d.Map("score").Int("homeScore") != 80 {
		t.Fatalf("clone shares nested maps with the original")
	}

	merged := d.Merge(Data{"isActive": false})
	if merged.Bool("isActive") || !d.Bool("isActive") {
		t.Fatalf("merge should not mutate the receiver")
	}
}

func TestMergeNestedObjects(t *testing.T) {
	stored := Data{
		"name":    "Celtics",
		"stats":   map[string]any{"wins": float64(5), "losses": float64(3), "pointsFor": float64(400)},
		"roster":  []any{"p1", "p2"},
		"colors":  "green",
		"contact": nil,
	}

	tests := []struct {
		name  string
		patch Data
		check func(t *testing.T, merged Data)
	}{
		{
			name:  "partial_group_keeps_siblings",
			patch: Data{"stats": map[string]any{"losses": 4}},
			check: func(t *testing.T, merged Data) {
				stats := merged.Map("stats")
				if stats.Int("wins") != 5 || stats.Int("losses") != 4 || stats.Int("pointsFor") != 400 {
					t.Fatalf("stats = %v", stats)
				}
			},
		},
		{
			name:  "lists_replace",
			patch: Data{"roster": []any{"p3"}},
			check: func(t *testing.T, merged Data) {
				if roster := merged["roster"].([]any); len(roster) != 1 || roster[0] != "p3" {
					t.Fatalf("roster = %v", roster)
				}
			},
		},
		{
			name:  "object_over_scalar",
			patch: Data{"colors": map[string]any{"primary": "#007A33"}, "contact": map[string]any{"email": "a@b.co"}},
			check: func(t *testing.T, merged Data) {
				if merged.Map("colors").String("primary") != "#007A33" || merged.Map("contact").String("email") != "a@b.co" {
					t.Fatalf("merged = %v", merged)
				}
			},
		},
		{
			name:  "null_clears_group",
			patch: Data{"stats": nil},
			check: func(t *testing.T, merged Data) {
				if !merged.Has("stats") || merged["stats"] != nil {
					t.Fatalf("stats = %v", merged["stats"])
				}
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			test.check(t, stored.Merge(test.patch))
			if stored.Map("stats").Int("losses") != 3 {
				t.Fatalf("merge mutated the receiver: %v", stored)
			}
		})
	}
}

func TestUpdateMergesNestedGroups(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.Create(ctx, "games", "g1", Data{
		"score": map[string]any{"homeScore": 70, "awayScore": 65, "periods": []any{map[string]any{"period": 1}}},
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := s.Update(ctx, "games", "g1", Data{"score": map[string]any{"homeScore": 80}}, 0)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	score := updated.Data.Map("score")
	if score.Int("homeScore") != 80 || score.Int("awayScore") != 65 || score["periods"] == nil {
		t.Fatalf("score after partial patch = %v", score)
	}

	found, err := s.FindByID(ctx, "games", "g1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.Data.Map("score").Int("awayScore") != 65 {
		t.Fatalf("stored score lost awayScore: %v", found.Data)
	}
}
