package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/hippiehunter/sqlparser/dialect"
)

func TestSelectStatements(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		rendered string
	}{
		{
			name:     "wildcard",
			input:    "SELECT * FROM users",
			rendered: "SELECT * FROM users",
		},
		{
			name:     "qualified wildcard",
			input:    "SELECT u.* FROM users u",
			rendered: "SELECT u.* FROM users AS u",
		},
		{
			name:     "projection with aliases",
			input:    "select id, name as n, count(*) from users",
			rendered: "SELECT id, name AS n, count(*) FROM users",
		},
		{
			name:     "distinct",
			input:    "SELECT DISTINCT dept FROM employees",
			rendered: "SELECT DISTINCT dept FROM employees",
		},
		{
			name:     "all clauses",
			input:    "SELECT dept, count(*) FROM employees WHERE active = TRUE GROUP BY dept HAVING count(*) > 3 ORDER BY dept DESC LIMIT 10 OFFSET 5",
			rendered: "SELECT dept, count(*) FROM employees WHERE active = TRUE GROUP BY dept HAVING count(*) > 3 ORDER BY dept DESC LIMIT 10 OFFSET 5",
		},
		{
			name:     "plain join is inner",
			input:    "SELECT * FROM a JOIN b ON a.id = b.a_id",
			rendered: "SELECT * FROM a INNER JOIN b ON a.id = b.a_id",
		},
		{
			name:     "left outer join normalizes",
			input:    "SELECT * FROM a LEFT OUTER JOIN b ON a.id = b.a_id",
			rendered: "SELECT * FROM a LEFT JOIN b ON a.id = b.a_id",
		},
		{
			name:     "cross join has no condition",
			input:    "SELECT * FROM a CROSS JOIN b",
			rendered: "SELECT * FROM a CROSS JOIN b",
		},
		{
			name:     "chained joins fold left",
			input:    "SELECT * FROM a JOIN b ON a.id = b.a_id JOIN c ON b.id = c.b_id",
			rendered: "SELECT * FROM a INNER JOIN b ON a.id = b.a_id INNER JOIN c ON b.id = c.b_id",
		},
		{
			name:     "derived table",
			input:    "SELECT s.total FROM (SELECT sum(amount) AS total FROM orders) s",
			rendered: "SELECT s.total FROM (SELECT sum(amount) AS total FROM orders) AS s",
		},
		{
			name:     "comma separated tables",
			input:    "SELECT * FROM a, b WHERE a.id = b.id",
			rendered: "SELECT * FROM a, b WHERE a.id = b.id",
		},
	}

	d := dialect.NewGenericDialect()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statement, err := ParseStatement(tt.input, d)
			assert.NoError(t, err)
			assert.Equal(t, tt.rendered, statement.String())
		})
	}
}

func TestDMLStatements(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		rendered string
	}{
		{
			name:     "insert values",
			input:    "INSERT INTO users (id, name) VALUES (1, 'ann'), (2, 'bob')",
			rendered: "INSERT INTO users (id, name) VALUES (1, 'ann'), (2, 'bob')",
		},
		{
			name:     "insert without columns",
			input:    "INSERT INTO users VALUES (1, 'ann')",
			rendered: "INSERT INTO users VALUES (1, 'ann')",
		},
		{
			name:     "insert from query",
			input:    "INSERT INTO archive (id) SELECT id FROM users WHERE active = FALSE",
			rendered: "INSERT INTO archive (id) SELECT id FROM users WHERE active = FALSE",
		},
		{
			name:     "update",
			input:    "UPDATE users SET name = 'ann', age = age + 1 WHERE id = 1",
			rendered: "UPDATE users SET name = 'ann', age = age + 1 WHERE id = 1",
		},
		{
			name:     "delete",
			input:    "DELETE FROM users WHERE created < '2020-01-01'",
			rendered: "DELETE FROM users WHERE created < '2020-01-01'",
		},
		{
			name:     "delete without where",
			input:    "DELETE FROM sessions",
			rendered: "DELETE FROM sessions",
		},
	}

	d := dialect.NewGenericDialect()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statement, err := ParseStatement(tt.input, d)
			assert.NoError(t, err)
			assert.Equal(t, tt.rendered, statement.String())
		})
	}
}

func TestDDLStatements(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		rendered string
	}{
		{
			name:     "create table",
			input:    "CREATE TABLE users (id int PRIMARY KEY, name varchar(100) NOT NULL, age int DEFAULT 0)",
			rendered: "CREATE TABLE users (id INT PRIMARY KEY, name VARCHAR(100) NOT NULL, age INT DEFAULT 0)",
		},
		{
			name:     "create table with precision",
			input:    "CREATE TABLE prices (amount decimal(10, 2) NOT NULL)",
			rendered: "CREATE TABLE prices (amount DECIMAL(10, 2) NOT NULL)",
		},
		{
			name:     "drop table",
			input:    "DROP TABLE users",
			rendered: "DROP TABLE users",
		},
		{
			name:     "drop table if exists",
			input:    "drop table if exists users, sessions",
			rendered: "DROP TABLE IF EXISTS users, sessions",
		},
	}

	d := dialect.NewGenericDialect()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			statement, err := ParseStatement(tt.input, d)
			assert.NoError(t, err)
			assert.Equal(t, tt.rendered, statement.String())
		})
	}
}

func TestPerformAndSet(t *testing.T) {
	d := dialect.NewPostgresDialect()

	statement, err := ParseStatement("PERFORM pg_notify('channel', payload) ", d)
	assert.NoError(t, err)
	perform, ok := statement.(*PerformStatement)
	assert.True(t, ok)
	assert.Equal(t, "PERFORM pg_notify('channel', payload)", statement.String())
	assert.Equal(t, 1, len(perform.Query.Projection))

	statement, err = ParseStatement("PERFORM count(*) FROM jobs WHERE state = 'ready'", d)
	assert.NoError(t, err)
	assert.Equal(t, "PERFORM count(*) FROM jobs WHERE state = 'ready'", statement.String())

	statement, err = ParseStatement("SET search_path = 'app'", d)
	assert.NoError(t, err)
	set, ok := statement.(*SetStatement)
	assert.True(t, ok)
	assert.Equal(t, "SET search_path = 'app'", statement.String())
	assert.Equal(t, "search_path", set.Target.String())

	_, err = ParseStatement("SET search_path", d)
	assert.True(t, errors.Is(err, ErrUnexpectedToken))
}

func TestReturningIsFeatureGated(t *testing.T) {
	postgres := dialect.NewPostgresDialect()
	generic := dialect.NewGenericDialect()

	tests := []string{
		"INSERT INTO users (name) VALUES ('ann') RETURNING id",
		"UPDATE users SET name = 'bob' WHERE id = 1 RETURNING id, name",
		"DELETE FROM users WHERE id = 1 RETURNING *",
	}

	for _, src := range tests {
		statement, err := ParseStatement(src, postgres)
		assert.NoError(t, err)
		assert.Equal(t, src, statement.String())

		_, err = ParseStatement(src, generic)
		assert.True(t, errors.Is(err, ErrUnsupportedConstruct))
		assert.True(t, strings.Contains(err.Error(), "RETURNING"))
	}
}

func TestReservedWordsVaryByDialect(t *testing.T) {
	generic := dialect.NewGenericDialect()
	postgres := dialect.NewPostgresDialect()

	// OFFSET is a plain identifier in the generic dialect
	statement, err := ParseStatement("SELECT offset FROM t", generic)
	assert.NoError(t, err)
	assert.Equal(t, "SELECT offset FROM t", statement.String())

	// and reserved in postgres
	_, err = ParseStatement("SELECT offset FROM t", postgres)
	assert.True(t, errors.Is(err, ErrUnexpectedToken))

	// quoting always works
	statement, err = ParseStatement(`SELECT "offset" FROM t`, postgres)
	assert.NoError(t, err)
	assert.Equal(t, `SELECT "offset" FROM t`, statement.String())

	// MySQL quotes identifiers with backticks
	statement, err = ParseStatement("SELECT `select` FROM t", dialect.NewMySQLDialect())
	assert.NoError(t, err)
	assert.Equal(t, "SELECT `select` FROM t", statement.String())
}

func TestMultipleStatements(t *testing.T) {
	d := dialect.NewGenericDialect()

	statements, err := Parse("SELECT 1; SELECT 2;; SELECT 3", d)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(statements))

	statements, err = Parse("  ;; ", d)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(statements))

	// garbage between statements is reported at the offending token
	_, err = Parse("SELECT 1 SELECT 2", d)
	assert.True(t, errors.Is(err, ErrUnexpectedToken))

	// ParseStatement rejects more than one statement
	_, err = ParseStatement("SELECT 1; SELECT 2", d)
	assert.True(t, errors.Is(err, ErrUnexpectedToken))
}

func TestCommentsAreSkipped(t *testing.T) {
	d := dialect.NewGenericDialect()

	statement, err := ParseStatement("SELECT id -- the key\nFROM users /* all of them */ WHERE active = TRUE", d)
	assert.NoError(t, err)
	assert.Equal(t, "SELECT id FROM users WHERE active = TRUE", statement.String())
}

// Rendering then reparsing must reproduce the same rendering.
func TestRenderingIsStable(t *testing.T) {
	inputs := []string{
		"SELECT DISTINCT a, b AS c FROM t1 INNER JOIN t2 ON t1.id = t2.id WHERE a > 1 ORDER BY b DESC LIMIT 5",
		"SELECT CASE WHEN a THEN 1 ELSE 2 END FROM t",
		"SELECT * FROM (SELECT a FROM t) AS sub WHERE a IN (1, 2, 3)",
		"INSERT INTO t (a, b) VALUES (1, 'x''y') RETURNING a",
		"UPDATE t SET a = a + 1 WHERE b IS NOT NULL RETURNING a",
		"DELETE FROM t WHERE a BETWEEN 1 AND 10",
		"CREATE TABLE t (id INT PRIMARY KEY, v VARCHAR(10) DEFAULT 'x')",
		"DROP TABLE IF EXISTS t",
		"RAISE EXCEPTION 'oops: %', a + 1 USING HINT = 'h', DETAIL = 'd'",
		"RAISE NOTICE sqlstate_hint",
		"RAISE SQLSTATE '22012'",
		"PERFORM log_event('x') FROM events LIMIT 1",
		"SET app.user_id = 42",
		"SELECT a::INT AS n, b ILIKE 'x%' FROM t",
		"SELECT - -a FROM t",
		"SELECT - -1 FROM t",
	}

	d := dialect.NewPostgresDialect()
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first, err := ParseStatement(input, d)
			assert.NoError(t, err)

			second, err := ParseStatement(first.String(), d)
			assert.NoError(t, err)
			assert.Equal(t, first.String(), second.String())
		})
	}
}

func TestStatementSpans(t *testing.T) {
	d := dialect.NewGenericDialect()
	src := "SELECT a + b FROM t WHERE a > 1"

	statement, err := ParseStatement(src, d)
	assert.NoError(t, err)
	query := statement.(*SelectStatement)

	// the statement covers the whole text
	assert.Equal(t, 0, query.Span().Start.Offset)
	assert.Equal(t, len(src), query.Span().End.Offset)

	// every part lies inside its parent
	sum := query.Projection[0].Expr
	assert.True(t, query.Span().Contains(sum.Span()))
	assert.Equal(t, "a + b", src[sum.Span().Start.Offset:sum.Span().End.Offset])

	where := query.Where
	assert.True(t, query.Span().Contains(where.Span()))
	assert.Equal(t, "a > 1", src[where.Span().Start.Offset:where.Span().End.Offset])

	left := sum.(*BinaryExpr).Left
	assert.True(t, sum.Span().Contains(left.Span()))
	assert.Equal(t, "a", src[left.Span().Start.Offset:left.Span().End.Offset])
}

func TestParseErrorReporting(t *testing.T) {
	d := dialect.NewGenericDialect()

	_, err := Parse("SELECT a FROM\nWHERE", d)
	assert.Error(t, err)

	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "an identifier", parseErr.Expected)
	assert.Equal(t, `"WHERE"`, parseErr.Found)
	assert.Equal(t, 2, parseErr.Span.Start.Line)
	assert.Equal(t, 1, parseErr.Span.Start.Column)
	assert.True(t, strings.Contains(err.Error(), "line 2, column 1"))
}
