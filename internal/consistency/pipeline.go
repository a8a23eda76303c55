// Package consistency keeps derived league fields in step with the
// documents they come from. Each collection has an ordered pipeline of
// named stages; the Engine validates a write, runs the before stages,
// persists, and then runs the after stages.
package consistency

import (
	"context"

	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/store"
)

type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
)

// Event is one write passing through a pipeline.
type Event struct {
	Collection string
	Operation  Operation
	ID         string
	// Data is the incoming document (create) or patch (update). Before
	// stages may modify it.
	Data store.Data
	// Previous is the stored document an update started from.
	Previous *store.Document
	// Doc is the persisted document; set for after stages only.
	Doc store.Document
	// Engine is bound to the transaction the stage runs in.
	Engine *Engine
}

// Value returns the incoming value for key, falling back to the previous
// document.
func (ev *Event) Value(key string) any {
	if v, ok := ev.Data[key]; ok {
		return v
	}
	if ev.Previous != nil {
		return ev.Previous.Data[key]
	}
	return nil
}

// Merged is the document as it will look once the write lands.
func (ev *Event) Merged() store.Data {
	if ev.Previous == nil {
		return ev.Data.Clone()
	}
	return ev.Previous.Data.Merge(ev.Data)
}

type StageFunc func(ctx context.Context, ev *Event) error

type Stage struct {
	Name string
	Run  StageFunc
}

type Pipeline struct {
	Before []Stage
	After  []Stage
}

// DefaultPipelines wires the league's derived-field rules.
func DefaultPipelines() map[string]Pipeline {
	return map[string]Pipeline{
		models.CollectionSeasons: {
			Before: []Stage{{Name: StageSeasonSingleActive, Run: seasonSingleActive}},
		},
		models.CollectionGames: {
			Before: []Stage{
				{Name: StageGameNumber, Run: gameNumber},
				{Name: StageGameTitle, Run: gameTitle},
			},
			After: []Stage{{Name: StageGamePropagateResult, Run: gamePropagateResult}},
		},
		models.CollectionTeams: {
			Before: []Stage{{Name: StageTeamRecord, Run: teamRecord}},
		},
		models.CollectionPlayers: {
			Before: []Stage{
				{Name: StagePlayerFullName, Run: playerFullName},
				{Name: StagePlayerJerseyUnique, Run: playerJerseyUnique},
			},
		},
	}
}

const (
	StageSeasonSingleActive  = "season.single-active"
	StageGameNumber          = "game.number"
	StageGameTitle           = "game.title"
	StageGamePropagateResult = "game.propagate-result"
	StageTeamRecord          = "team.record"
	StagePlayerFullName      = "player.full-name"
	StagePlayerJerseyUnique  = "player.jersey-unique"
)
