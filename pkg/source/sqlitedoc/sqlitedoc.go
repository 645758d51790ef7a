// Package sqlitedoc stores the request collection as a JSON document
// in a single-row SQLite table. The table is a key/value document
// store, mirroring the browser local-storage layout the persisted
// format originated from.
package sqlitedoc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	_ "modernc.org/sqlite"

	"github.com/civic-lab/partes/pkg/domain/interfaces"
	"github.com/civic-lab/partes/pkg/domain/model"
)

// DefaultKey is the historical document key of the request collection
const DefaultKey = "solicitudes_op"

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL
);
`

type SQLiteDoc struct {
	db  *sql.DB
	key string
}

var _ interfaces.Source = &SQLiteDoc{}

// Option configures a SQLiteDoc
type Option func(*SQLiteDoc)

// WithKey overrides the document key
func WithKey(key string) Option {
	return func(s *SQLiteDoc) {
		s.key = key
	}
}

// New opens (or creates) the SQLite database at dsn
func New(ctx context.Context, dsn string, opts ...Option) (*SQLiteDoc, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("dsn", dsn))
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, goerr.Wrap(err, "failed to ping sqlite database", goerr.V("dsn", dsn))
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, goerr.Wrap(err, "failed to create documents table")
	}

	s := &SQLiteDoc{db: db, key: DefaultKey}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *SQLiteDoc) Load(ctx context.Context) ([]*model.Request, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM documents WHERE key = ?`, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return []*model.Request{}, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read document", goerr.V("key", s.key))
	}

	var reqs []*model.Request
	if err := json.Unmarshal(value, &reqs); err != nil {
		return nil, goerr.Wrap(err, "failed to parse document", goerr.V("key", s.key))
	}
	return reqs, nil
}

func (s *SQLiteDoc) Save(ctx context.Context, snapshot []*model.Request) error {
	value, err := json.Marshal(snapshot)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal snapshot")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		s.key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return goerr.Wrap(err, "failed to write document", goerr.V("key", s.key))
	}
	return nil
}

func (s *SQLiteDoc) Close() error {
	return s.db.Close()
}
