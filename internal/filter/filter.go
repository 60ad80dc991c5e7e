package filter

import (
	"fmt"
	"strings"

	"github.com/amishk599/jobquery/internal/model"
	"github.com/amishk599/jobquery/internal/query"
)

// Match reports whether row satisfies q: for every clause, the row's column
// value contains at least one of the clause's terms. Matching is
// case-insensitive. A query without clauses matches every row.
func Match(q query.FilterQuery, row model.Row) bool {
	for _, c := range q.Clauses {
		if !matchClause(c, row) {
			return false
		}
	}
	return true
}

func matchClause(c query.Clause, row model.Row) bool {
	v, ok := row[strings.ToUpper(c.Column)]
	if !ok || v == nil {
		return false
	}
	valueLower := strings.ToLower(fmt.Sprint(v))
	for _, term := range c.Terms {
		if strings.Contains(valueLower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// Rows returns the rows satisfying q, preserving order.
func Rows(q query.FilterQuery, rows []model.Row) []model.Row {
	out := make([]model.Row, 0, len(rows))
	for _, r := range rows {
		if Match(q, r) {
			out = append(out, r)
		}
	}
	return out
}
