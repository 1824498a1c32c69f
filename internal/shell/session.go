// Package shell is the text boundary of the store: one raw command in, one
// display string out. Successful writes are persisted when autosave is on.
package shell

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tableDB/internal/config"
	"tableDB/internal/engine"
	"tableDB/internal/logging"
	"tableDB/internal/sql"
	"tableDB/internal/storage/filestore"
	"tableDB/internal/storage/memstore"
)

// Persister stores a full snapshot of the store.
type Persister interface {
	Save(tables []*sql.Table) (string, error)
}

// PersistError is returned alongside a successful Result when the write
// was applied in memory but could not be saved.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string { return "changes not saved: " + e.Err.Error() }
func (e *PersistError) Unwrap() error { return e.Err }

// Session owns one engine and runs commands against it one at a time.
type Session struct {
	mu       sync.Mutex
	eng      *engine.DBEngine
	persist  Persister
	autosave bool
	secure   bool
}

// NewSession wraps a started engine. persist may be nil.
func NewSession(eng *engine.DBEngine, persist Persister, autosave bool) *Session {
	return &Session{eng: eng, persist: persist, autosave: autosave, secure: true}
}

// Open builds the in-memory store from cfg and, unless the data section says
// in_memory, loads the saved document into it.
func Open(cfg *config.Root) (*Session, error) {
	store := memstore.New()
	eng := engine.New(store,
		engine.EnforceLengths(cfg.Schema.EnforceLengths),
		engine.EnforcePrimaryKeys(cfg.Schema.EnforcePrimaryKeys),
		engine.ValidateUpdates(cfg.Schema.ValidateUpdates),
	)
	if err := eng.Start(); err != nil {
		return nil, err
	}

	if cfg.Data.InMemory {
		logging.Info("store opened", "mode", "memory")
		return NewSession(eng, nil, false), nil
	}

	fs, err := filestore.New(cfg.Data.Dir,
		filestore.WithDocument(cfg.Data.Document),
		filestore.WithHashFile(cfg.Data.Hash),
	)
	if err != nil {
		return nil, err
	}
	res, err := fs.Load()
	if err != nil {
		return nil, err
	}
	if err := store.Restore(res.Tables); err != nil {
		return nil, fmt.Errorf("restore %s: %w", fs.DocumentPath(), err)
	}

	s := NewSession(eng, fs, cfg.Data.Autosave)
	s.secure = res.Secure
	logging.Info("store opened",
		"document", fs.DocumentPath(),
		"tables", len(res.Tables),
		"fresh", res.Fresh,
		"secure", res.Secure,
	)
	if !res.Secure {
		logging.Warn("document hash mismatch, contents may have been modified outside tabledb",
			"stored_hash", res.StoredHash,
			"computed_hash", res.ComputedHash,
		)
	}
	return s, nil
}

// Verify checks the saved document against its stored hash without
// writing anything. It fails in in-memory mode, where nothing is saved.
func Verify(cfg *config.Root) (*filestore.LoadResult, error) {
	if cfg.Data.InMemory {
		return nil, errors.New("nothing to verify: data.in_memory is set")
	}
	fs, err := filestore.New(cfg.Data.Dir,
		filestore.WithDocument(cfg.Data.Document),
		filestore.WithHashFile(cfg.Data.Hash),
	)
	if err != nil {
		return nil, err
	}
	return fs.Check()
}

// Engine exposes the underlying engine.
func (s *Session) Engine() *engine.DBEngine { return s.eng }

// Secure reports the tamper check result from Open. It is advisory only.
func (s *Session) Secure() bool { return s.secure }

// Save persists the current store regardless of autosave.
func (s *Session) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save()
}

func (s *Session) save() error {
	if s.persist == nil {
		return nil
	}
	hash, err := s.persist.Save(s.eng.Store().Snapshot())
	if err != nil {
		return err
	}
	logging.Debug("store saved", "hash", hash)
	return nil
}

// Execute parses and runs one command. When a write succeeds but cannot be
// saved, both the Result and a *PersistError are returned.
func (s *Session) Execute(ctx context.Context, command string) (*engine.Result, error) {
	if logging.GetRequestID(ctx) == "" {
		ctx = logging.WithRequestID(ctx, uuid.NewString())
	}
	start := time.Now()

	stmt, err := sql.Parse(command)
	if err != nil {
		logging.CommandError(ctx, command, err)
		return nil, err
	}
	return s.execute(ctx, command, stmt, start)
}

// ErrNotQuery is returned by Query for anything but a SELECT.
var ErrNotQuery = errors.New("only SELECT statements are accepted here")

// Query runs command only if it is a SELECT, so a caller that promises a
// read can never change the store.
func (s *Session) Query(ctx context.Context, command string) (*engine.Result, error) {
	if logging.GetRequestID(ctx) == "" {
		ctx = logging.WithRequestID(ctx, uuid.NewString())
	}
	start := time.Now()

	stmt, err := sql.Parse(command)
	if err != nil {
		logging.CommandError(ctx, command, err)
		return nil, err
	}
	switch stmt.(type) {
	case *sql.SelectStmt, *sql.MultiSelectStmt, *sql.JoinSelectStmt:
	default:
		return nil, ErrNotQuery
	}
	return s.execute(ctx, command, stmt, start)
}

func (s *Session) execute(ctx context.Context, command string, stmt sql.Statement, start time.Time) (*engine.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.eng.Execute(stmt)
	if err != nil {
		logging.CommandError(ctx, command, err)
		return nil, err
	}
	logging.Command(ctx, string(res.Kind), res.Table, res.Affected, time.Since(start))

	if res.Mutated() && s.autosave {
		if err := s.save(); err != nil {
			logging.ErrorContext(ctx, "persist failed", "error", err)
			return res, &PersistError{Err: err}
		}
	}
	return res, nil
}

// Run is Execute rendered for display. Errors become a single "Error: ..."
// line; a failed save is appended as a warning under the result.
func (s *Session) Run(ctx context.Context, command string) string {
	res, err := s.Execute(ctx, command)

	var perr *PersistError
	switch {
	case err == nil:
		return res.Render()
	case errors.As(err, &perr) && res != nil:
		return res.Render() + "\nWarning: " + perr.Error()
	default:
		return "Error: " + errorLine(err)
	}
}

// errorLine keeps multi-line error text on one display line.
func errorLine(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", " ")
}
