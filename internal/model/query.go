package model

import "encoding/json"

// ErrorKey is the key a failed ParsedQuery is serialized under.
const ErrorKey = "error"

// ParsedQuery maps a concept name to the search terms extracted for it.
// A failed extraction carries only Error; Terms is then ignored.
type ParsedQuery struct {
	Terms map[string][]string
	Error string
}

// ExtractionFailure returns a ParsedQuery that signals a failed extraction.
func ExtractionFailure(msg string) ParsedQuery {
	return ParsedQuery{Error: msg}
}

// Failed reports whether extraction failed.
func (p ParsedQuery) Failed() bool {
	return p.Error != ""
}

// Get returns the terms for concept, or nil when the concept is absent.
func (p ParsedQuery) Get(concept string) []string {
	return p.Terms[concept]
}

// MarshalJSON emits the flat concept -> terms mapping, or {"error": msg}.
func (p ParsedQuery) MarshalJSON() ([]byte, error) {
	if p.Failed() {
		return json.Marshal(map[string]string{ErrorKey: p.Error})
	}
	terms := p.Terms
	if terms == nil {
		terms = map[string][]string{}
	}
	return json.Marshal(terms)
}
