// Package store defines the document store the league engine runs on and a
// SQLite implementation of it.
//
// Every collection is a set of JSON documents keyed by (collection, id).
// Each document carries a version that increments on every update; updates
// are compare-and-swap on that version.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrConflict = errors.New("document was modified concurrently")
)

// Document is one persisted record.
type Document struct {
	Collection string
	ID         string
	Version    int64
	Data       Data
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Flatten returns the document data with id, version and timestamps mixed
// in, the shape printed by the CLI.
func (d Document) Flatten() Data {
	out := d.Data.Clone()
	out["id"] = d.ID
	out["version"] = d.Version
	out["createdAt"] = d.CreatedAt.UTC().Format(time.RFC3339)
	out["updatedAt"] = d.UpdatedAt.UTC().Format(time.RFC3339)
	return out
}

// Filter matches documents whose fields equal every given value. Keys may be
// dotted paths into nested objects ("stats.wins"). A nil value matches a
// missing or null field.
type Filter map[string]any

type Store interface {
	Count(ctx context.Context, collection string, filter Filter) (int, error)
	FindByID(ctx context.Context, collection, id string) (Document, error)
	// Find returns matching documents in creation order.
	Find(ctx context.Context, collection string, filter Filter) ([]Document, error)
	Create(ctx context.Context, collection, id string, data Data) (Document, error)
	// Update merges patch into the stored data (see Data.Merge). A positive ifVersion
	// must equal the stored version or ErrConflict is returned.
	Update(ctx context.Context, collection, id string, patch Data, ifVersion int64) (Document, error)
	Delete(ctx context.Context, collection, id string) error
	// Collections returns the number of documents per collection.
	Collections(ctx context.Context) (map[string]int, error)
	// RunInTx runs fn against a transaction-scoped store. Calling RunInTx on
	// a store that is already transaction-scoped runs fn in the same
	// transaction.
	RunInTx(ctx context.Context, fn func(Store) error) error
}
