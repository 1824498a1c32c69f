package engine

import (
	"errors"
	"fmt"

	"tableDB/internal/sql"
	"tableDB/internal/storage"
)

// DBEngine applies parsed statements to a storage engine.
//
// Schema checks beyond type validation are off unless enabled through
// options: by default declared lengths and primary keys are metadata only.
type DBEngine struct {
	started bool
	store   storage.Engine

	enforceLengths     bool
	enforcePrimaryKeys bool
	validateUpdates    bool
}

type Option func(*DBEngine)

// EnforceLengths rejects Char/String values longer than the declared length.
func EnforceLengths(on bool) Option {
	return func(e *DBEngine) { e.enforceLengths = on }
}

// EnforcePrimaryKeys rejects writes that repeat a primary-key value.
func EnforcePrimaryKeys(on bool) Option {
	return func(e *DBEngine) { e.enforcePrimaryKeys = on }
}

// ValidateUpdates type-checks UPDATE ... SET literals the same way INSERT does.
// When off, SET literals are stored verbatim.
func ValidateUpdates(on bool) Option {
	return func(e *DBEngine) { e.validateUpdates = on }
}

// New creates a new DBEngine on top of store.
func New(store storage.Engine, opts ...Option) *DBEngine {
	e := &DBEngine{store: store}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start marks the engine ready. Execute refuses to run before Start.
func (e *DBEngine) Start() error {
	if e.started {
		return fmt.Errorf("engine already started")
	}
	e.started = true
	return nil
}

// Store returns the underlying storage engine.
func (e *DBEngine) Store() storage.Engine {
	return e.store
}

// table fetches a schema and maps a storage miss to TableNotFoundError.
func (e *DBEngine) table(name string) (*sql.Table, error) {
	t, err := e.store.TableSchema(name)
	if errors.Is(err, storage.ErrTableNotFound) {
		return nil, &TableNotFoundError{Table: name}
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// column resolves name within t or reports ColumnNotFoundError.
func column(t *sql.Table, name string) (int, error) {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return -1, &ColumnNotFoundError{Table: t.Name, Column: name}
	}
	return idx, nil
}
