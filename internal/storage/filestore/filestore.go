package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"tableDB/internal/sql"
)

const (
	DefaultDocument = "database.json"
	DefaultHash     = "database_hash.txt"
)

// FileStore persists a whole store snapshot as one JSON document plus a
// sidecar file holding the document's BLAKE3 hash.
//
// The hash is advisory: Load always returns the decoded tables and reports
// through Secure whether the document still matches the recorded hash.
type FileStore struct {
	dir      string
	docPath  string
	hashPath string

	mu sync.Mutex
}

type Option func(*FileStore)

// WithDocument overrides the document file name inside the directory.
func WithDocument(name string) Option {
	return func(s *FileStore) { s.docPath = filepath.Join(s.dir, name) }
}

// WithHashFile overrides the hash file name inside the directory.
func WithHashFile(name string) Option {
	return func(s *FileStore) { s.hashPath = filepath.Join(s.dir, name) }
}

// LoadResult is what Load found on disk.
type LoadResult struct {
	Tables []*sql.Table

	// Secure is false when the stored hash is unreadable, different from
	// ComputedHash, or missing and not recorded.
	Secure       bool
	StoredHash   string
	ComputedHash string

	// Fresh is true when no document existed yet.
	Fresh bool
}

// New creates a FileStore rooted at dir. Nothing touches the disk until the
// first Save, which creates the directory if needed.
func New(dir string, opts ...Option) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("filestore: empty directory")
	}

	s := &FileStore{
		dir:      dir,
		docPath:  filepath.Join(dir, DefaultDocument),
		hashPath: filepath.Join(dir, DefaultHash),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *FileStore) DocumentPath() string { return s.docPath }
func (s *FileStore) HashPath() string     { return s.hashPath }

// Save writes the document and then its hash, each atomically.
// It returns the new hash.
func (s *FileStore) Save(tables []*sql.Table) (string, error) {
	data, err := Encode(tables)
	if err != nil {
		return "", err
	}
	hash := Hash(data)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.docPath), 0o755); err != nil {
		return "", fmt.Errorf("filestore: create dir: %w", err)
	}
	if err := writeAtomic(s.docPath, data); err != nil {
		return "", fmt.Errorf("filestore: write document: %w", err)
	}
	if err := writeAtomic(s.hashPath, []byte(hash)); err != nil {
		return "", fmt.Errorf("filestore: write hash: %w", err)
	}
	return hash, nil
}

// Load reads the document and compares its hash with the stored one.
//
//   - no document: empty result, Secure and Fresh
//   - document but no hash file: the hash is recorded now and Secure is true
//   - hash file unreadable or different: Secure is false, tables still load
//
// A document that cannot be decoded is an error.
func (s *FileStore) Load() (*LoadResult, error) {
	return s.load(true)
}

// Check is Load without side effects: a missing hash file is reported as
// insecure instead of being recorded.
func (s *FileStore) Check() (*LoadResult, error) {
	return s.load(false)
}

func (s *FileStore) load(recordMissingHash bool) (*LoadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.docPath)
	if errors.Is(err, fs.ErrNotExist) {
		return &LoadResult{Tables: []*sql.Table{}, Secure: true, Fresh: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: read document: %w", err)
	}

	tables, err := Decode(data)
	if err != nil {
		return nil, err
	}

	res := &LoadResult{Tables: tables, ComputedHash: Hash(data)}

	stored, err := os.ReadFile(s.hashPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if !recordMissingHash {
			return res, nil
		}
		if werr := writeAtomic(s.hashPath, []byte(res.ComputedHash)); werr != nil {
			return res, nil
		}
		res.StoredHash = res.ComputedHash
		res.Secure = true
	case err != nil:
		// unreadable hash: Secure stays false
	default:
		res.StoredHash = strings.TrimSpace(string(stored))
		res.Secure = res.StoredHash == res.ComputedHash
	}
	return res, nil
}

// writeAtomic writes data to a temp file in the target directory and renames
// it over path.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
