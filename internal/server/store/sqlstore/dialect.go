package sqlstore

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/lifelog/internal/server/store"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect renders the JSON-document SQL for one database engine.
// Field names reaching a Dialect have already been checked by validIdent.
type Dialect interface {
	// Name is the goose dialect.
	Name() string
	// DriverName is the database/sql driver.
	DriverName() string
	Placeholder(n int) string
	// Field extracts a top-level field for comparison.
	Field(name string) string
	// SortKey extracts a top-level field for ORDER BY.
	SortKey(name string) string
	Has(field, ph string) string
	Substr(field, ph string) string
	// DocParam wraps the placeholder carrying a JSON document.
	DocParam(ph string) string
	// Merge renders a merge-patch of doc with the JSON in ph.
	Merge(ph string) string
	// Value converts a normalized predicate value to what Field compares against.
	Value(v any) any
	IsDuplicate(err error) bool
}

const pgUniqueViolation = "23505"

type postgresDialect struct{}

// Postgres stores documents in JSONB columns.
var Postgres Dialect = postgresDialect{}

func (postgresDialect) Name() string             { return "pgx" }
func (postgresDialect) DriverName() string       { return "pgx" }
func (postgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }
func (postgresDialect) Field(name string) string { return fmt.Sprintf("doc->>'%s'", name) }
func (postgresDialect) SortKey(name string) string {
	return fmt.Sprintf("doc->'%s'", name)
}
func (postgresDialect) Has(field, ph string) string {
	return fmt.Sprintf("doc->'%s' ? %s", field, ph)
}
func (postgresDialect) Substr(field, ph string) string {
	return fmt.Sprintf("strpos(lower(doc->>'%s'), lower(%s)) > 0", field, ph)
}
func (postgresDialect) DocParam(ph string) string { return ph + "::jsonb" }
func (postgresDialect) Merge(ph string) string {
	return fmt.Sprintf("jsonb_strip_nulls(doc || %s::jsonb)", ph)
}

// Value renders v the way ->> prints it.
func (postgresDialect) Value(v any) any {
	switch t := v.(type) {
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return v
}

func (postgresDialect) IsDuplicate(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

type sqliteDialect struct{}

// SQLite stores documents as JSON text and relies on the built-in JSON functions.
var SQLite Dialect = sqliteDialect{}

func (sqliteDialect) Name() string           { return "sqlite3" }
func (sqliteDialect) DriverName() string     { return "sqlite" }
func (sqliteDialect) Placeholder(int) string { return "?" }
func (sqliteDialect) Field(name string) string {
	return fmt.Sprintf("json_extract(doc, '$.%s')", name)
}
func (d sqliteDialect) SortKey(name string) string { return d.Field(name) }
func (sqliteDialect) Has(field, ph string) string {
	return fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(doc, '$.%s') WHERE json_each.value = %s)", field, ph)
}

// Substr lowers both sides; SQLite's lower() only folds ASCII.
func (sqliteDialect) Substr(field, ph string) string {
	return fmt.Sprintf("instr(lower(json_extract(doc, '$.%s')), lower(%s)) > 0", field, ph)
}
func (sqliteDialect) DocParam(ph string) string { return ph }
func (sqliteDialect) Merge(ph string) string    { return fmt.Sprintf("json_patch(doc, %s)", ph) }

// Value maps booleans onto the integers json_extract yields.
func (sqliteDialect) Value(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return v
}

func (sqliteDialect) IsDuplicate(err error) bool {
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	switch sqlErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

// ensure predicate values are normalized before dialect conversion
func param(d Dialect, v any) any { return d.Value(store.Normalize(v)) }
