package memstore

import (
	"fmt"
	"slices"
	"sync"

	sorted "github.com/tobshub/go-sortedmap"

	"tableDB/internal/sql"
	"tableDB/internal/storage"
)

// storedRow carries the insertion sequence the row map is ordered by.
type storedRow struct {
	seq int64
	row sql.Row
}

func storedRowLess(a, b storedRow) bool {
	return a.seq < b.seq
}

type table struct {
	name string
	cols []sql.Column

	// rows maps sequence -> row; order holds the live sequences so that a
	// positional index resolves to a key without a scan.
	rows  *sorted.SortedMap[int64, storedRow]
	order []int64
	next  int64
}

func newTable(name string, cols []sql.Column) *table {
	return &table{
		name: name,
		cols: slices.Clone(cols),
		rows: sorted.New[int64, storedRow](0, storedRowLess),
	}
}

func (t *table) schema() *sql.Table {
	return &sql.Table{Name: t.name, Columns: slices.Clone(t.cols)}
}

func (t *table) append(row sql.Row) {
	seq := t.next
	t.next++
	t.rows.Insert(seq, storedRow{seq: seq, row: row.Clone()})
	t.order = append(t.order, seq)
}

// scan returns copies of every row in sequence order.
func (t *table) scan() []sql.Row {
	out := make([]sql.Row, 0, len(t.order))
	if len(t.order) == 0 {
		return out
	}
	iterCh, err := t.rows.IterCh()
	if err != nil {
		return out
	}
	for rec := range iterCh.Records() {
		out = append(out, rec.Val.row.Clone())
	}
	return out
}

func (t *table) checkRow(row sql.Row) error {
	if len(row) != len(t.cols) {
		return fmt.Errorf("%w: table %s expects %d values, got %d",
			storage.ErrColumnCount, t.name, len(t.cols), len(row))
	}
	return nil
}

func (t *table) checkIndex(index int) error {
	if index < 0 || index >= len(t.order) {
		return fmt.Errorf("%w: %d (table %s has %d rows)", storage.ErrRowIndex, index, t.name, len(t.order))
	}
	return nil
}

type memEngine struct {
	mu     sync.RWMutex
	tables map[string]*table
	names  []string // folded names in creation order
}

// New creates a new in-memory storage engine.
func New() storage.Engine {
	return &memEngine{
		tables: make(map[string]*table),
	}
}

func (e *memEngine) lookup(name string) (*table, error) {
	t, ok := e.tables[sql.FoldName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrTableNotFound, name)
	}
	return t, nil
}

func (e *memEngine) CreateTable(name string, cols []sql.Column) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	key := sql.FoldName(name)
	if _, exists := e.tables[key]; exists {
		return fmt.Errorf("%w: %s", storage.ErrTableExists, name)
	}

	e.tables[key] = newTable(name, cols)
	e.names = append(e.names, key)
	return nil
}

func (e *memEngine) TableSchema(name string) (*sql.Table, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.lookup(name)
	if err != nil {
		return nil, err
	}
	return t.schema(), nil
}

func (e *memEngine) ListTables() []*sql.Table {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*sql.Table, 0, len(e.names))
	for _, key := range e.names {
		out = append(out, e.tables[key].schema())
	}
	return out
}

func (e *memEngine) InsertRow(name string, row sql.Row) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.lookup(name)
	if err != nil {
		return err
	}
	if err := t.checkRow(row); err != nil {
		return err
	}

	t.append(row)
	return nil
}

func (e *memEngine) ReadRows(name string) ([]sql.Row, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.lookup(name)
	if err != nil {
		return nil, err
	}
	return t.scan(), nil
}

func (e *memEngine) UpdateRow(name string, index int, row sql.Row) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.lookup(name)
	if err != nil {
		return err
	}
	if err := t.checkIndex(index); err != nil {
		return err
	}
	if err := t.checkRow(row); err != nil {
		return err
	}

	seq := t.order[index]
	t.rows.Replace(seq, storedRow{seq: seq, row: row.Clone()})
	return nil
}

func (e *memEngine) DeleteRow(name string, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.lookup(name)
	if err != nil {
		return err
	}
	if err := t.checkIndex(index); err != nil {
		return err
	}

	t.rows.Delete(t.order[index])
	t.order = slices.Delete(t.order, index, index+1)
	return nil
}

func (e *memEngine) ClearRows(name string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, err := e.lookup(name)
	if err != nil {
		return 0, err
	}

	n := len(t.order)
	t.rows = sorted.New[int64, storedRow](0, storedRowLess)
	t.order = nil
	return n, nil
}

func (e *memEngine) RowCount(name string) (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.lookup(name)
	if err != nil {
		return 0, err
	}
	return len(t.order), nil
}

func (e *memEngine) Snapshot() []*sql.Table {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]*sql.Table, 0, len(e.names))
	for _, key := range e.names {
		t := e.tables[key]
		snap := t.schema()
		snap.Rows = t.scan()
		out = append(out, snap)
	}
	return out
}

// Restore validates every table before touching the store, so a bad
// snapshot leaves the current contents in place.
func (e *memEngine) Restore(tables []*sql.Table) error {
	fresh := make(map[string]*table, len(tables))
	names := make([]string, 0, len(tables))

	for _, src := range tables {
		key := sql.FoldName(src.Name)
		if _, dup := fresh[key]; dup {
			return fmt.Errorf("%w: %s", storage.ErrTableExists, src.Name)
		}
		t := newTable(src.Name, src.Columns)
		for _, row := range src.Rows {
			if err := t.checkRow(row); err != nil {
				return err
			}
			t.append(row)
		}
		fresh[key] = t
		names = append(names, key)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.tables = fresh
	e.names = names
	return nil
}
