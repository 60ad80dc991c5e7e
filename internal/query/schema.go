package query

import (
	"fmt"
	"regexp"
	"sort"
)

// DefaultTable is the listings table queried when none is configured.
const DefaultTable = "JOBLISTINGS"

var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier rejects anything that is not a bare SQL identifier.
// Table and column names are the only text interpolated into query SQL.
func ValidateIdentifier(name string) error {
	if !identifierRegex.MatchString(name) {
		return fmt.Errorf("invalid SQL identifier %q", name)
	}
	return nil
}

// Concept maps a user-facing search attribute onto a listings column.
type Concept struct {
	Name   string `yaml:"name"`
	Column string `yaml:"column"`
}

// Schema is the ordered concept -> column table. Several concepts may alias
// the same column. A Schema is immutable once built.
type Schema struct {
	concepts []Concept
}

// NewSchema validates concepts and returns a Schema preserving their order.
func NewSchema(concepts []Concept) (*Schema, error) {
	if len(concepts) == 0 {
		return nil, fmt.Errorf("schema must define at least one concept")
	}
	seen := make(map[string]bool, len(concepts))
	for _, c := range concepts {
		if c.Name == "" {
			return nil, fmt.Errorf("concept name cannot be empty")
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("duplicate concept %q", c.Name)
		}
		seen[c.Name] = true
		if err := ValidateIdentifier(c.Column); err != nil {
			return nil, fmt.Errorf("concept %q: %w", c.Name, err)
		}
	}
	cp := make([]Concept, len(concepts))
	copy(cp, concepts)
	return &Schema{concepts: cp}, nil
}

// DefaultConcepts is the built-in concept table.
var DefaultConcepts = []Concept{
	{Name: "role", Column: "SEARCH_QUERY"},
	{Name: "job", Column: "SEARCH_QUERY"},
	{Name: "title", Column: "TITLE"},
	{Name: "company", Column: "COMPANY"},
	{Name: "location", Column: "LOCATION"},
	{Name: "skills", Column: "DESCRIPTION"},
}

// DefaultSchema returns the built-in schema.
func DefaultSchema() *Schema {
	s, err := NewSchema(DefaultConcepts)
	if err != nil {
		panic(err)
	}
	return s
}

// Concepts returns a copy of the concepts in schema order.
func (s *Schema) Concepts() []Concept {
	cp := make([]Concept, len(s.concepts))
	copy(cp, s.concepts)
	return cp
}

// ConceptNames returns the concept names in schema order.
func (s *Schema) ConceptNames() []string {
	names := make([]string, len(s.concepts))
	for i, c := range s.concepts {
		names[i] = c.Name
	}
	return names
}

// Columns returns the distinct target columns in order of first appearance.
func (s *Schema) Columns() []string {
	var cols []string
	seen := make(map[string]bool)
	for _, c := range s.concepts {
		if !seen[c.Column] {
			seen[c.Column] = true
			cols = append(cols, c.Column)
		}
	}
	return cols
}

// SynonymTable maps a canonical term to synonyms. It only enriches the
// extraction prompt; the builder never consults it.
type SynonymTable map[string][]string

// Keys returns the canonical terms in sorted order.
func (t SynonymTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultSynonyms is the built-in synonym table.
func DefaultSynonyms() SynonymTable {
	return SynonymTable{
		"software engineer":         {"software developer", "SWE", "programmer", "backend engineer"},
		"data engineer":             {"ETL developer", "big data engineer", "data pipeline engineer"},
		"data scientist":            {"ML scientist", "data analyst", "research scientist"},
		"machine learning engineer": {"ML engineer", "AI engineer", "deep learning engineer"},
		"devops":                    {"site reliability engineer", "SRE", "platform engineer"},
		"remote":                    {"work from home", "WFH", "anywhere"},
	}
}
