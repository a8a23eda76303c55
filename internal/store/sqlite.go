package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/codr1/leaguedesk/internal/db"
)

var fieldPathRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// SQLStore keeps documents in the documents table as JSON text.
type SQLStore struct {
	db   *db.DB
	q    db.DBTX
	inTx bool
}

func NewSQLStore(database *db.DB) *SQLStore {
	return &SQLStore{db: database, q: database.DB}
}

func (s *SQLStore) Count(ctx context.Context, collection string, filter Filter) (int, error) {
	where, args, err := buildWhere(collection, filter)
	if err != nil {
		return 0, err
	}

	var count int
	if err := s.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE `+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return count, nil
}

func (s *SQLStore) FindByID(ctx context.Context, collection, id string) (Document, error) {
	row := s.q.QueryRowContext(ctx,
		`SELECT id, data, version, created_at, updated_at FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	)
	doc, err := scanDocument(collection, row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
		}
		return Document{}, fmt.Errorf("find %s/%s: %w", collection, id, err)
	}
	return doc, nil
}

func (s *SQLStore) Find(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	where, args, err := buildWhere(collection, filter)
	if err != nil {
		return nil, err
	}

	rows, err := s.q.QueryContext(ctx,
		`SELECT id, data, version, created_at, updated_at FROM documents WHERE `+where+` ORDER BY rowid`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(collection, rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", collection, err)
	}
	return docs, nil
}

func (s *SQLStore) Create(ctx context.Context, collection, id string, data Data) (Document, error) {
	if strings.TrimSpace(collection) == "" || strings.TrimSpace(id) == "" {
		return Document{}, fmt.Errorf("collection and id are required")
	}
	payload, normalized, err := encodeData(data)
	if err != nil {
		return Document{}, err
	}

	now := time.Now().UTC()
	_, err = s.q.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data, version, created_at, updated_at) VALUES (?, ?, ?, 1, ?, ?)`,
		collection, id, payload, now, now,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
			return Document{}, fmt.Errorf("%s/%s already exists: %w", collection, id, ErrConflict)
		}
		return Document{}, fmt.Errorf("create %s/%s: %w", collection, id, err)
	}

	return Document{
		Collection: collection,
		ID:         id,
		Version:    1,
		Data:       normalized,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

func (s *SQLStore) Update(ctx context.Context, collection, id string, patch Data, ifVersion int64) (Document, error) {
	current, err := s.FindByID(ctx, collection, id)
	if err != nil {
		return Document{}, err
	}
	if ifVersion > 0 && current.Version != ifVersion {
		return Document{}, fmt.Errorf("%s/%s is at version %d, not %d: %w", collection, id, current.Version, ifVersion, ErrConflict)
	}

	payload, normalized, err := encodeData(current.Data.Merge(patch))
	if err != nil {
		return Document{}, err
	}

	now := time.Now().UTC()
	res, err := s.q.ExecContext(ctx,
		`UPDATE documents SET data = ?, version = version + 1, updated_at = ?
		 WHERE collection = ? AND id = ? AND version = ?`,
		payload, now, collection, id, current.Version,
	)
	if err != nil {
		return Document{}, fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Document{}, fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if affected == 0 {
		return Document{}, fmt.Errorf("%s/%s changed during update: %w", collection, id, ErrConflict)
	}

	current.Data = normalized
	current.Version++
	current.UpdatedAt = now
	return current, nil
}

func (s *SQLStore) Delete(ctx context.Context, collection, id string) error {
	res, err := s.q.ExecContext(ctx, `DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

func (s *SQLStore) Collections(ctx context.Context) (map[string]int, error) {
	rows, err := s.q.QueryContext(ctx, `SELECT collection, COUNT(*) FROM documents GROUP BY collection`)
	if err != nil {
		return nil, fmt.Errorf("count collections: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			name  string
			count int
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scan collection count: %w", err)
		}
		counts[name] = count
	}
	return counts, rows.Err()
}

func (s *SQLStore) RunInTx(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.RunInTx(ctx, func(tx *sql.Tx) error {
		return fn(&SQLStore{db: s.db, q: tx, inTx: true})
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(collection string, row rowScanner) (Document, error) {
	var (
		doc     Document
		payload string
	)
	if err := row.Scan(&doc.ID, &payload, &doc.Version, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return Document{}, err
	}
	data, err := decodeData([]byte(payload))
	if err != nil {
		return Document{}, fmt.Errorf("decode %s/%s: %w", collection, doc.ID, err)
	}
	doc.Collection = collection
	doc.Data = data
	return doc, nil
}

// encodeData marshals data and returns it re-decoded, so callers see the
// same value types a later read would produce.
func encodeData(data Data) (string, Data, error) {
	if data == nil {
		data = Data{}
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return "", nil, fmt.Errorf("encode document: %w", err)
	}
	normalized, err := decodeData(payload)
	if err != nil {
		return "", nil, err
	}
	return string(payload), normalized, nil
}

func decodeData(payload []byte) (Data, error) {
	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, err
	}
	if data == nil {
		data = Data{}
	}
	normalizeNested(data)
	return data, nil
}

// normalizeNested converts nested map[string]any values to Data so type
// switches on Data work at every depth.
func normalizeNested(data Data) {
	for k, v := range data {
		switch val := v.(type) {
		case map[string]any:
			nested := Data(val)
			normalizeNested(nested)
			data[k] = nested
		case []any:
			for i, item := range val {
				if m, ok := item.(map[string]any); ok {
					nested := Data(m)
					normalizeNested(nested)
					val[i] = nested
				}
			}
		}
	}
}

func buildWhere(collection string, filter Filter) (string, []any, error) {
	clauses := []string{"collection = ?"}
	args := []any{collection}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !fieldPathRegex.MatchString(key) {
			return "", nil, fmt.Errorf("invalid filter field %q", key)
		}
		path := "$." + key
		switch v := filter[key].(type) {
		case nil:
			clauses = append(clauses, "json_extract(data, ?) IS NULL")
			args = append(args, path)
		case bool:
			// json_extract yields 1/0 for JSON booleans.
			flag := 0
			if v {
				flag = 1
			}
			clauses = append(clauses, "json_type(data, ?) IN ('true', 'false') AND json_extract(data, ?) = ?")
			args = append(args, path, path, flag)
		case string, int, int64, float64:
			clauses = append(clauses, "json_extract(data, ?) = ?")
			args = append(args, path, v)
		default:
			return "", nil, fmt.Errorf("unsupported filter value for %q: %T", key, v)
		}
	}

	return strings.Join(clauses, " AND "), args, nil
}
