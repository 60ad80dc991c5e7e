package query

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/amishk599/jobquery/internal/model"
)

// ErrExtractionFailed is returned by Build when handed a failed ParsedQuery.
var ErrExtractionFailed = errors.New("extraction failed")

// Builder compiles ParsedQuery values into FilterQuery values for one table.
type Builder struct {
	schema *Schema
	table  string
}

// NewBuilder returns a builder over schema targeting table.
func NewBuilder(schema *Schema, table string) (*Builder, error) {
	if schema == nil {
		return nil, fmt.Errorf("builder requires a schema")
	}
	if err := ValidateIdentifier(table); err != nil {
		return nil, fmt.Errorf("table: %w", err)
	}
	return &Builder{schema: schema, table: table}, nil
}

// Build groups the terms of every schema concept by target column, removes
// exact duplicates, sorts each group and ANDs one OR-group per column.
// Columns keep the order of their first appearance in the schema.
// Concepts absent from the schema are ignored. When no column receives a
// term the query is unfiltered.
func (b *Builder) Build(pq model.ParsedQuery) (FilterQuery, error) {
	if pq.Failed() {
		return FilterQuery{}, fmt.Errorf("%w: %s", ErrExtractionFailed, pq.Error)
	}

	conds := newColumnConditionSet()
	for _, c := range b.schema.concepts {
		for _, term := range pq.Get(c.Name) {
			conds.add(c.Column, term)
		}
	}

	q := FilterQuery{Table: b.table}
	for _, col := range b.schema.Columns() {
		terms := conds.sorted(col)
		if len(terms) == 0 {
			continue
		}
		q.Clauses = append(q.Clauses, Clause{Column: col, Terms: terms})
	}
	return q, nil
}

// columnConditionSet accumulates distinct terms per column.
type columnConditionSet struct {
	terms map[string]map[string]struct{}
}

func newColumnConditionSet() *columnConditionSet {
	return &columnConditionSet{terms: make(map[string]map[string]struct{})}
}

// add records term under column. Blank terms would match every row and are
// dropped; dedup is exact-string, so "Austin" and "austin" both survive.
func (s *columnConditionSet) add(column, term string) {
	if strings.TrimSpace(term) == "" {
		return
	}
	set, ok := s.terms[column]
	if !ok {
		set = make(map[string]struct{})
		s.terms[column] = set
	}
	set[term] = struct{}{}
}

func (s *columnConditionSet) sorted(column string) []string {
	set := s.terms[column]
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
