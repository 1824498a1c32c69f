package engine

import (
	"errors"
	"strings"
	"testing"

	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"

	"tableDB/internal/sql"
	"tableDB/internal/storage"
	"tableDB/internal/storage/memstore"
)

func newEngine(t *testing.T, opts ...Option) *DBEngine {
	t.Helper()
	eng := New(memstore.New(), opts...)
	assert.NilError(t, eng.Start())
	return eng
}

func run(t *testing.T, eng *DBEngine, query string) (*Result, error) {
	t.Helper()
	stmt, err := sql.Parse(query)
	assert.NilError(t, err, "parse %q", query)
	return eng.Execute(stmt)
}

func mustRun(t *testing.T, eng *DBEngine, query string) *Result {
	t.Helper()
	res, err := run(t, eng, query)
	assert.NilError(t, err, "execute %q", query)
	return res
}

func rowsOf(t *testing.T, eng *DBEngine, table string) []sql.Row {
	t.Helper()
	rows, err := eng.Store().ReadRows(table)
	assert.NilError(t, err)
	return rows
}

// tokens splits a rendered grid line into trimmed cells.
func tokens(line string) []string {
	parts := strings.Split(line, "|")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func setupUsers(t *testing.T, opts ...Option) *DBEngine {
	t.Helper()
	eng := newEngine(t, opts...)
	mustRun(t, eng, "CREATE TABLE users (id INT PRIMARY KEY, name STRING(50))")
	return eng
}

func TestEngineRequiresStart(t *testing.T) {
	eng := New(memstore.New())
	_, err := eng.Execute(&sql.ShowTablesStmt{})
	assert.ErrorContains(t, err, "engine not started")

	assert.NilError(t, eng.Start())
	assert.ErrorContains(t, eng.Start(), "already started")
}

// The end-to-end users scenario: insert, select, update, delete.
func TestEngineUsersScenario(t *testing.T) {
	eng := setupUsers(t)

	res := mustRun(t, eng, "INSERT INTO users VALUES (1, 'Alice')")
	assert.Equal(t, res.Affected, 1)
	assert.Assert(t, res.Mutated())
	assert.Assert(t, is.Len(rowsOf(t, eng, "users"), 1))

	res = mustRun(t, eng, "SELECT * FROM users")
	lines := strings.Split(res.Render(), "\n")
	assert.DeepEqual(t, tokens(lines[0]), []string{"id", "name"})
	assert.Assert(t, strings.Trim(lines[1], "-") == "")
	assert.DeepEqual(t, tokens(lines[2]), []string{"1", "Alice"})
	assert.Equal(t, lines[len(lines)-1], "Total rows: 1")

	res = mustRun(t, eng, "UPDATE users SET name = 'Bob' WHERE id = '1'")
	assert.Equal(t, res.Affected, 1)
	assert.DeepEqual(t, rowsOf(t, eng, "users"), []sql.Row{{sql.Text("1"), sql.Text("Bob")}})

	res = mustRun(t, eng, "DELETE FROM users WHERE id = '1'")
	assert.Equal(t, res.Affected, 1)
	assert.Assert(t, is.Len(rowsOf(t, eng, "users"), 0))
}

func TestInsertStoresValidatedLiterals(t *testing.T) {
	eng := newEngine(t)
	mustRun(t, eng, "CREATE TABLE t (n INT, flag BOOL, code CHAR(2), note STRING(10))")

	mustRun(t, eng, `INSERT INTO t VALUES (-5, TRUE, "ab", 'x, y')`)
	mustRun(t, eng, "INSERT INTO t VALUES (7, false, NULL, plain)")

	assert.DeepEqual(t, rowsOf(t, eng, "t"), []sql.Row{
		{sql.Text("-5"), sql.Text("TRUE"), sql.Text("ab"), sql.Text("x, y")},
		{sql.Text("7"), sql.Text("false"), sql.Null(), sql.Text("plain")},
	})
}

func TestInsertColumnCountMismatch(t *testing.T) {
	eng := setupUsers(t)

	_, err := run(t, eng, "INSERT INTO users VALUES (1, 'Alice', true)")
	var mismatch *ColumnCountMismatchError
	assert.Assert(t, errors.As(err, &mismatch), "got %v", err)
	assert.Equal(t, mismatch.Expected, 2)
	assert.Equal(t, mismatch.Actual, 3)
	assert.ErrorContains(t, err, "expected 2, got 3")
	assert.Assert(t, is.Len(rowsOf(t, eng, "users"), 0))
}

func TestInsertInvalidLiteralDoesNotMutate(t *testing.T) {
	eng := newEngine(t)
	mustRun(t, eng, "CREATE TABLE t (n INT, flag BOOL)")

	_, err := run(t, eng, "INSERT INTO t VALUES (abc, true)")
	var terr *sql.TypeError
	assert.Assert(t, errors.As(err, &terr))
	assert.Equal(t, terr.Kind, sql.IntegerParseError)
	assert.Equal(t, terr.Literal, "abc")

	_, err = run(t, eng, "INSERT INTO t VALUES (1, maybe)")
	assert.Assert(t, errors.As(err, &terr))
	assert.Equal(t, terr.Kind, sql.BooleanParseError)

	assert.Assert(t, is.Len(rowsOf(t, eng, "t"), 0))
}

func TestTableNotFound(t *testing.T) {
	eng := newEngine(t)

	for _, q := range []string{
		"SELECT * FROM ghost",
		"INSERT INTO ghost VALUES (1)",
		"UPDATE ghost SET a = 1 WHERE b = 2",
		"DELETE FROM ghost",
	} {
		res, err := run(t, eng, q)
		var nf *TableNotFoundError
		assert.Assert(t, errors.As(err, &nf), "query %q: %v", q, err)
		assert.Equal(t, nf.Table, "ghost")
		assert.Assert(t, errors.Is(err, storage.ErrTableNotFound))
		assert.Assert(t, res == nil, "no output for %q", q)
	}
}

func TestCollationIsCaseInsensitive(t *testing.T) {
	eng := setupUsers(t)

	mustRun(t, eng, "INSERT INTO USERS VALUES (1, 'Alice')")
	res := mustRun(t, eng, "select NAME from Users where ID = 1")
	assert.DeepEqual(t, res.Tables[0].Columns, []string{"name"})
	assert.DeepEqual(t, res.Tables[0].Rows, []sql.Row{{sql.Text("Alice")}})

	_, err := run(t, eng, "CREATE TABLE Users (x INT)")
	var exists *TableExistsError
	assert.Assert(t, errors.As(err, &exists))
	assert.Assert(t, errors.Is(err, storage.ErrTableExists))
}

func TestUpdateUnknownColumnMutatesNothing(t *testing.T) {
	eng := setupUsers(t)
	mustRun(t, eng, "INSERT INTO users VALUES (1, 'Alice')")

	for _, q := range []string{
		"UPDATE users SET nickname = 'Al' WHERE id = 1",
		"UPDATE users SET name = 'Bob' WHERE uid = 1",
		"UPDATE users SET name = 'Bob', nickname = 'B' WHERE id = 1",
	} {
		_, err := run(t, eng, q)
		assert.Assert(t, errors.Is(err, ErrColumnNotFound), "query %q: %v", q, err)
	}
	assert.DeepEqual(t, rowsOf(t, eng, "users"), []sql.Row{{sql.Text("1"), sql.Text("Alice")}})
}

func TestUpdateCountsAndStoresVerbatim(t *testing.T) {
	eng := newEngine(t)
	mustRun(t, eng, "CREATE TABLE t (n INT, grp STRING(5))")
	mustRun(t, eng, "INSERT INTO t VALUES (1, 'a')")
	mustRun(t, eng, "INSERT INTO t VALUES (2, 'a')")
	mustRun(t, eng, "INSERT INTO t VALUES (3, 'b')")

	res := mustRun(t, eng, "UPDATE t SET n = 'not a number' WHERE grp = a")
	assert.Equal(t, res.Affected, 2)
	assert.Equal(t, res.Message, "Successfully updated 2 rows in table 't'")
	assert.Equal(t, rowsOf(t, eng, "t")[0][0].S, "not a number")

	res = mustRun(t, eng, "UPDATE t SET grp = 'c' WHERE grp = 'zzz'")
	assert.Equal(t, res.Affected, 0)
	assert.Assert(t, !res.Mutated())
}

func TestUnquotedValuesInInsertSetAndWhere(t *testing.T) {
	eng := newEngine(t)
	mustRun(t, eng, "CREATE TABLE people (id INT, name STRING(50), email STRING(50), joined STRING(10))")

	mustRun(t, eng, "INSERT INTO people VALUES (1, Alice Smith, alice@example.com, 2024-01-01)")
	mustRun(t, eng, "INSERT INTO people VALUES (2, Bob, bob@example.com, 2024-02-01)")
	assert.DeepEqual(t, rowsOf(t, eng, "people")[0], sql.Row{
		sql.Text("1"), sql.Text("Alice Smith"), sql.Text("alice@example.com"), sql.Text("2024-01-01"),
	})

	res := mustRun(t, eng, "UPDATE people SET name = Bob Jones WHERE email = bob@example.com")
	assert.Equal(t, res.Affected, 1)
	assert.Equal(t, rowsOf(t, eng, "people")[1][1], sql.Text("Bob Jones"))

	res = mustRun(t, eng, "SELECT name FROM people WHERE joined = 2024-01-01")
	lines := strings.Split(res.Render(), "\n")
	assert.DeepEqual(t, tokens(lines[2]), []string{"Alice Smith"})

	res = mustRun(t, eng, "DELETE FROM people WHERE name = Alice Smith")
	assert.Equal(t, res.Affected, 1)
	assert.Assert(t, is.Len(rowsOf(t, eng, "people"), 1))
}

func TestUpdateWithValidation(t *testing.T) {
	eng := newEngine(t, ValidateUpdates(true))
	mustRun(t, eng, "CREATE TABLE t (n INT)")
	mustRun(t, eng, "INSERT INTO t VALUES (1)")

	_, err := run(t, eng, "UPDATE t SET n = 'x' WHERE n = 1")
	assert.Assert(t, errors.Is(err, sql.ErrType))
	assert.Equal(t, rowsOf(t, eng, "t")[0][0].S, "1")
}

func TestNullNeverMatches(t *testing.T) {
	eng := setupUsers(t)
	mustRun(t, eng, "INSERT INTO users VALUES (1, NULL)")
	mustRun(t, eng, "INSERT INTO users VALUES (2, 'NULL')")

	res := mustRun(t, eng, "SELECT * FROM users WHERE name = NULL")
	assert.Assert(t, is.Len(res.Tables[0].Rows, 0))

	res = mustRun(t, eng, "SELECT id FROM users WHERE name = 'NULL'")
	assert.DeepEqual(t, res.Tables[0].Rows, []sql.Row{{sql.Text("2")}})

	res = mustRun(t, eng, "UPDATE users SET name = 'x' WHERE name = NULL")
	assert.Equal(t, res.Affected, 0)

	lines := strings.Split(mustRun(t, eng, "SELECT * FROM users").Render(), "\n")
	assert.DeepEqual(t, tokens(lines[2]), []string{"1", "NULL"})
}

func TestDeleteWithoutWhereClearsTable(t *testing.T) {
	eng := setupUsers(t)
	mustRun(t, eng, "INSERT INTO users VALUES (1, 'Alice')")
	mustRun(t, eng, "INSERT INTO users VALUES (2, 'Bob')")
	mustRun(t, eng, "INSERT INTO users VALUES (3, 'Carol')")

	res := mustRun(t, eng, "DELETE FROM users")
	assert.Equal(t, res.Affected, 3)
	assert.Equal(t, res.Message, "Successfully deleted 3 rows from table 'users'")
	assert.Assert(t, is.Len(rowsOf(t, eng, "users"), 0))
}

func TestDeleteWhereRemovesEveryMatch(t *testing.T) {
	eng := newEngine(t)
	mustRun(t, eng, "CREATE TABLE t (n INT, grp STRING(5))")
	for _, q := range []string{
		"INSERT INTO t VALUES (1, 'a')",
		"INSERT INTO t VALUES (2, 'b')",
		"INSERT INTO t VALUES (3, 'a')",
		"INSERT INTO t VALUES (4, 'a')",
	} {
		mustRun(t, eng, q)
	}

	res := mustRun(t, eng, "DELETE FROM t WHERE grp = 'a'")
	assert.Equal(t, res.Affected, 3)
	assert.DeepEqual(t, rowsOf(t, eng, "t"), []sql.Row{{sql.Text("2"), sql.Text("b")}})

	_, err := run(t, eng, "DELETE FROM t WHERE missing = 1")
	assert.Assert(t, errors.Is(err, ErrColumnNotFound))
	assert.Assert(t, is.Len(rowsOf(t, eng, "t"), 1))
}

func TestSelectProjectionAndUnknownColumn(t *testing.T) {
	eng := newEngine(t)
	mustRun(t, eng, "CREATE TABLE t (a INT, b STRING(5), c BOOL)")
	mustRun(t, eng, "INSERT INTO t VALUES (1, 'x', true)")

	res := mustRun(t, eng, "SELECT c, a FROM t")
	assert.DeepEqual(t, res.Tables[0].Columns, []string{"c", "a"})
	assert.DeepEqual(t, res.Tables[0].Rows, []sql.Row{{sql.Text("true"), sql.Text("1")}})

	_, err := run(t, eng, "SELECT a, zz FROM t")
	var cnf *ColumnNotFoundError
	assert.Assert(t, errors.As(err, &cnf))
	assert.Equal(t, cnf.Column, "zz")
}

func TestMultiTableSelect(t *testing.T) {
	eng := setupUsers(t)
	mustRun(t, eng, "CREATE TABLE orders (id INT, item STRING(20))")
	mustRun(t, eng, "INSERT INTO users VALUES (1, 'Alice')")
	mustRun(t, eng, "INSERT INTO orders VALUES (10, 'book')")
	mustRun(t, eng, "INSERT INTO orders VALUES (11, 'pen')")

	res := mustRun(t, eng, "SELECT * FROM users AND orders")
	assert.Assert(t, is.Len(res.Tables, 2))
	assert.Equal(t, res.Tables[0].Name, "users")
	assert.Equal(t, res.Tables[1].Name, "orders")
	assert.Assert(t, !res.Mutated())

	out := res.Render()
	assert.Assert(t, is.Contains(out, "Table users:"))
	assert.Assert(t, is.Contains(out, "Table orders:"))
	assert.Assert(t, is.Contains(out, "Total rows: 2"))

	_, err := run(t, eng, "SELECT * FROM users AND ghost AND orders")
	assert.Assert(t, errors.Is(err, storage.ErrTableNotFound))
}

func TestJoinIsNotImplemented(t *testing.T) {
	eng := setupUsers(t)
	_, err := run(t, eng, "SELECT * FROM users JOIN orders ON users.id = orders.uid")
	assert.Assert(t, errors.Is(err, ErrNotImplemented))
	assert.ErrorContains(t, err, "JOIN is not implemented")
}

func TestUnsupportedCommand(t *testing.T) {
	eng := newEngine(t)
	_, err := run(t, eng, "DROP TABLE users")
	assert.Assert(t, errors.Is(err, ErrUnsupported))
	assert.ErrorContains(t, err, "unsupported command: DROP")
}

func TestShowTables(t *testing.T) {
	eng := setupUsers(t)
	mustRun(t, eng, "INSERT INTO users VALUES (1, 'Alice')")
	mustRun(t, eng, "CREATE TABLE flags (on_off BOOL, code CHAR(3))")

	res := mustRun(t, eng, "SHOW TABLES")
	assert.DeepEqual(t, res.Tables[0].Rows, []sql.Row{
		{sql.Text("users"), sql.Text("id: Int PK, name: String(50)"), sql.Text("1")},
		{sql.Text("flags"), sql.Text("on_off: Bool, code: Char(3)"), sql.Text("0")},
	})
}

func TestLengthsAdvisoryByDefault(t *testing.T) {
	eng := newEngine(t)
	mustRun(t, eng, "CREATE TABLE t (code CHAR(2))")
	mustRun(t, eng, "INSERT INTO t VALUES ('toolong')")
	assert.Equal(t, rowsOf(t, eng, "t")[0][0].S, "toolong")
}

func TestEnforceLengths(t *testing.T) {
	eng := newEngine(t, EnforceLengths(true))
	mustRun(t, eng, "CREATE TABLE t (code CHAR(2))")
	mustRun(t, eng, "INSERT INTO t VALUES ('日本')")

	_, err := run(t, eng, "INSERT INTO t VALUES ('abc')")
	var lerr *LengthExceededError
	assert.Assert(t, errors.As(err, &lerr))
	assert.Equal(t, lerr.Actual, 3)
	assert.Assert(t, errors.Is(err, ErrConstraint))

	_, err = run(t, eng, "UPDATE t SET code = 'xyz' WHERE code = '日本'")
	assert.Assert(t, errors.As(err, &lerr))
	assert.Assert(t, is.Len(rowsOf(t, eng, "t"), 1))
}

func TestPrimaryKeysAdvisoryByDefault(t *testing.T) {
	eng := setupUsers(t)
	mustRun(t, eng, "INSERT INTO users VALUES (1, 'Alice')")
	mustRun(t, eng, "INSERT INTO users VALUES (1, 'Alias')")
	assert.Assert(t, is.Len(rowsOf(t, eng, "users"), 2))
}

func TestEnforcePrimaryKeys(t *testing.T) {
	eng := setupUsers(t, EnforcePrimaryKeys(true))
	mustRun(t, eng, "INSERT INTO users VALUES (1, 'Alice')")
	mustRun(t, eng, "INSERT INTO users VALUES (2, 'Bob')")

	_, err := run(t, eng, "INSERT INTO users VALUES (1, 'Again')")
	var dup *DuplicateKeyError
	assert.Assert(t, errors.As(err, &dup))
	assert.Equal(t, dup.Value, "1")

	_, err = run(t, eng, "UPDATE users SET id = 1 WHERE name = 'Bob'")
	assert.Assert(t, errors.As(err, &dup))

	assert.DeepEqual(t, rowsOf(t, eng, "users"), []sql.Row{
		{sql.Text("1"), sql.Text("Alice")},
		{sql.Text("2"), sql.Text("Bob")},
	})
}

func TestRenderWriteResult(t *testing.T) {
	eng := setupUsers(t)
	res := mustRun(t, eng, "INSERT INTO users VALUES (1, 'Alice')")
	assert.Equal(t, res.Render(), "Successfully inserted 1 row into table 'users'")
}

func TestRenderAlignsColumns(t *testing.T) {
	res := &Result{Tables: []TableResult{{
		Columns: []string{"id", "description"},
		Rows: []sql.Row{
			{sql.Text("1"), sql.Text("short")},
			{sql.Text("22222222222"), sql.Null()},
		},
	}}}

	lines := strings.Split(res.Render(), "\n")
	assert.Equal(t, lines[0], "id          | description")
	assert.Equal(t, lines[2], "1           | short")
	assert.Equal(t, lines[3], "22222222222 | NULL")
	assert.Equal(t, len(lines[1]), len(lines[0]))
}
