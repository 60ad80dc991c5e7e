package query

import (
	"fmt"
	"strings"
)

// Dialect selects placeholder and case-insensitive match syntax.
type Dialect int

const (
	DialectPostgres Dialect = iota
	DialectSQLite
)

func (d Dialect) String() string {
	switch d {
	case DialectSQLite:
		return "sqlite"
	default:
		return "postgres"
	}
}

// predicate renders a case-insensitive substring match against placeholder n.
// SQLite's LIKE is case-insensitive for ASCII only.
func (d Dialect) predicate(column string, n int) string {
	switch d {
	case DialectSQLite:
		return column + ` LIKE ? ESCAPE '\'`
	default:
		return fmt.Sprintf("%s ILIKE $%d", column, n)
	}
}

// Clause is the OR-group of substring matches for one column.
type Clause struct {
	Column string
	Terms  []string // distinct, sorted
}

// FilterQuery is a compiled single-table filter: the AND of its clauses.
// No clauses means every row matches.
type FilterQuery struct {
	Table   string
	Clauses []Clause
}

// Unfiltered reports whether the query has no WHERE clause.
func (q FilterQuery) Unfiltered() bool {
	return len(q.Clauses) == 0
}

// String renders the diagnostic form of the query with terms inlined as
// quoted literals. It is echoed to callers and never executed.
func (q FilterQuery) String() string {
	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(q.Table)
	for i, c := range q.Clauses {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		b.WriteByte('(')
		for j, term := range c.Terms {
			if j > 0 {
				b.WriteString(" OR ")
			}
			b.WriteString(c.Column)
			b.WriteString(" ILIKE '%")
			b.WriteString(strings.ReplaceAll(term, "'", "''"))
			b.WriteString("%'")
		}
		b.WriteByte(')')
	}
	return b.String()
}

// SQL renders the executable form for d. Every term is bound as a
// parameter; only the table and column identifiers appear in the text.
func (q FilterQuery) SQL(d Dialect) (string, []any) {
	var b strings.Builder
	var args []any
	b.WriteString("SELECT * FROM ")
	b.WriteString(q.Table)
	for i, c := range q.Clauses {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		b.WriteByte('(')
		for j, term := range c.Terms {
			if j > 0 {
				b.WriteString(" OR ")
			}
			args = append(args, likePattern(term))
			b.WriteString(d.predicate(c.Column, len(args)))
		}
		b.WriteByte(')')
	}
	return b.String(), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern wraps term for a substring match, escaping LIKE wildcards so a
// term matches literally.
func likePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
