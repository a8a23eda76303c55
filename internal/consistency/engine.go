package consistency

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/notify"
	"github.com/codr1/leaguedesk/internal/store"
)

// metaKeys are document attributes owned by the store, never by callers.
var metaKeys = []string{"id", "version", "createdAt", "updatedAt"}

// Engine dispatches writes through the collection pipelines.
type Engine struct {
	store     store.Store
	pipelines map[string]Pipeline
	reporter  notify.Reporter
	now       func() time.Time
	inTx      bool
}

type Option func(*Engine)

// WithReporter sets where failed after stages are reported.
func WithReporter(r notify.Reporter) Option {
	return func(e *Engine) { e.reporter = r }
}

// WithClock sets the clock used by date-relative validation rules.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithPipelines replaces the default pipelines.
func WithPipelines(pipelines map[string]Pipeline) Option {
	return func(e *Engine) { e.pipelines = pipelines }
}

func New(st store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:     st,
		pipelines: DefaultPipelines(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Store returns the store the engine writes to.
func (e *Engine) Store() store.Store {
	return e.store
}

func (e *Engine) bind(tx store.Store) *Engine {
	bound := *e
	bound.store = tx
	bound.inTx = true
	return &bound
}

// Create validates data, runs the before stages and persists the new
// document under a fresh ID, all in one transaction. Relationships are
// stored as bare IDs so filters on them match. After stages run once
// that transaction has committed.
func (e *Engine) Create(ctx context.Context, collection string, data store.Data) (store.Document, error) {
	return e.CreateWithID(ctx, collection, uuid.NewString(), data)
}

// CreateWithID is Create with a caller-chosen document ID, used when
// importing fixtures that reference each other. A taken ID yields
// store.ErrConflict.
func (e *Engine) CreateWithID(ctx context.Context, collection, id string, data store.Data) (store.Document, error) {
	if !models.Known(collection) {
		return store.Document{}, fmt.Errorf("%w: %s", models.ErrUnknownCollection, collection)
	}
	if id == "" {
		return store.Document{}, fmt.Errorf("document ID is required")
	}

	ev := &Event{
		Collection: collection,
		Operation:  OpCreate,
		ID:         id,
		Data:       models.NormalizeRefs(collection, withoutMeta(data)),
	}
	models.ApplyDefaults(collection, ev.Data)

	err := e.store.RunInTx(ctx, func(tx store.Store) error {
		ev.Engine = e.bind(tx)
		if err := models.Validate(collection, ev.Data, e.now()); err != nil {
			return err
		}
		if err := e.runBefore(ctx, ev); err != nil {
			return err
		}
		doc, err := tx.Create(ctx, collection, ev.ID, ev.Data)
		if err != nil {
			return fmt.Errorf("create %s: %w", collection, err)
		}
		ev.Doc = doc
		return nil
	})
	if err != nil {
		return store.Document{}, err
	}

	return e.runAfter(ctx, ev)
}

// Update applies patch to the stored document.
func (e *Engine) Update(ctx context.Context, collection, id string, patch store.Data) (store.Document, error) {
	return e.update(ctx, collection, id, patch, 0)
}

// UpdateIfVersion applies patch only if the stored document is still at
// version; otherwise it returns store.ErrConflict.
func (e *Engine) UpdateIfVersion(ctx context.Context, collection, id string, patch store.Data, version int64) (store.Document, error) {
	if version <= 0 {
		return store.Document{}, fmt.Errorf("version must be positive, got %d", version)
	}
	return e.update(ctx, collection, id, patch, version)
}

func (e *Engine) update(ctx context.Context, collection, id string, patch store.Data, version int64) (store.Document, error) {
	if !models.Known(collection) {
		return store.Document{}, fmt.Errorf("%w: %s", models.ErrUnknownCollection, collection)
	}

	ev := &Event{
		Collection: collection,
		Operation:  OpUpdate,
		ID:         id,
		Data:       models.NormalizeRefs(collection, withoutMeta(patch)),
	}

	err := e.store.RunInTx(ctx, func(tx store.Store) error {
		ev.Engine = e.bind(tx)

		prev, err := tx.FindByID(ctx, collection, id)
		if err != nil {
			return err
		}
		if version > 0 && prev.Version != version {
			return fmt.Errorf("%s/%s is at version %d, not %d: %w", collection, id, prev.Version, version, store.ErrConflict)
		}
		ev.Previous = &prev

		if err := models.Validate(collection, ev.Merged(), e.now()); err != nil {
			return err
		}
		if err := e.runBefore(ctx, ev); err != nil {
			return err
		}

		doc, err := tx.Update(ctx, collection, id, ev.Data, prev.Version)
		if err != nil {
			return fmt.Errorf("update %s/%s: %w", collection, id, err)
		}
		ev.Doc = doc
		return nil
	})
	if err != nil {
		return store.Document{}, err
	}

	return e.runAfter(ctx, ev)
}

// UpdateWhere updates every document matching filter, each through Update,
// in one transaction.
func (e *Engine) UpdateWhere(ctx context.Context, collection string, filter store.Filter, patch store.Data) ([]store.Document, error) {
	var updated []store.Document
	err := e.store.RunInTx(ctx, func(tx store.Store) error {
		bound := e.bind(tx)
		docs, err := tx.Find(ctx, collection, filter)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			out, err := bound.Update(ctx, collection, doc.ID, patch)
			if err != nil {
				return err
			}
			updated = append(updated, out)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RunInTx runs fn with an engine bound to a single transaction, so every
// write fn makes commits together or not at all. After stages then run
// inside that transaction and their failures roll it back.
func (e *Engine) RunInTx(ctx context.Context, fn func(*Engine) error) error {
	return e.store.RunInTx(ctx, func(tx store.Store) error {
		return fn(e.bind(tx))
	})
}

func (e *Engine) Get(ctx context.Context, collection, id string) (store.Document, error) {
	return e.store.FindByID(ctx, collection, id)
}

func (e *Engine) Find(ctx context.Context, collection string, filter store.Filter) ([]store.Document, error) {
	return e.store.Find(ctx, collection, filter)
}

// Delete removes a document. Deleting the active season also clears the
// active-season pointer.
func (e *Engine) Delete(ctx context.Context, collection, id string) error {
	return e.store.RunInTx(ctx, func(tx store.Store) error {
		if err := tx.Delete(ctx, collection, id); err != nil {
			return err
		}
		if collection == models.CollectionSeasons {
			return clearActiveSeason(ctx, tx, id)
		}
		return nil
	})
}

func (e *Engine) runBefore(ctx context.Context, ev *Event) error {
	for _, stage := range e.pipelines[ev.Collection].Before {
		if err := stage.Run(ctx, ev); err != nil {
			return &StageError{Stage: stage.Name, Err: err}
		}
	}
	return nil
}

// runAfter runs the after stages for a persisted write. Inside an enclosing
// transaction a failure is returned so the whole transaction rolls back.
// At the top level each stage gets its own transaction and a failure is
// logged, reported and returned as a *PropagationError next to the
// persisted document.
func (e *Engine) runAfter(ctx context.Context, ev *Event) (store.Document, error) {
	stages := e.pipelines[ev.Collection].After
	if len(stages) == 0 {
		return ev.Doc, nil
	}

	if e.inTx {
		for _, stage := range stages {
			if err := stage.Run(ctx, ev); err != nil {
				return store.Document{}, &StageError{Stage: stage.Name, Err: err}
			}
		}
		return ev.Doc, nil
	}

	for _, stage := range stages {
		err := e.store.RunInTx(ctx, func(tx store.Store) error {
			ev.Engine = e.bind(tx)
			return stage.Run(ctx, ev)
		})
		if err != nil {
			perr := &PropagationError{
				Collection: ev.Collection,
				DocumentID: ev.ID,
				Stage:      stage.Name,
				Err:        err,
			}
			e.reportFailure(ctx, perr)
			return ev.Doc, perr
		}
	}
	return ev.Doc, nil
}

func (e *Engine) reportFailure(ctx context.Context, perr *PropagationError) {
	logger := loggerFrom(ctx)
	logger.Error().
		Err(perr.Err).
		Str("collection", perr.Collection).
		Str("document_id", perr.DocumentID).
		Str("stage", perr.Stage).
		Msg("After-change stage failed")

	if e.reporter == nil {
		return
	}
	incident := notify.Incident{
		Kind:       notify.KindPropagationFailure,
		Subject:    fmt.Sprintf("Stage %s failed for %s %s", perr.Stage, perr.Collection, perr.DocumentID),
		Detail:     perr.Err.Error(),
		Collection: perr.Collection,
		DocumentID: perr.DocumentID,
		OccurredAt: e.now(),
	}
	if err := e.reporter.Report(ctx, incident); err != nil {
		logger.Error().Err(err).Str("stage", perr.Stage).Msg("Failed to report stage failure")
	}
}

func withoutMeta(data store.Data) store.Data {
	out := data.Clone()
	for _, key := range metaKeys {
		delete(out, key)
	}
	return out
}

func loggerFrom(ctx context.Context) *zerolog.Logger {
	logger := log.Ctx(ctx)
	if logger.GetLevel() == zerolog.Disabled {
		return &log.Logger
	}
	return logger
}
