package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/amishk599/jobquery/internal/model"
	"github.com/amishk599/jobquery/internal/query"
)

// ErrEmptyQuery is reported for a blank search query; the model is not called.
var ErrEmptyQuery = errors.New("empty query")

// maxQueryRunes caps how much of an untrusted query reaches the prompt.
const maxQueryRunes = 2000

// TermExtractor turns a free-text search into a ParsedQuery using an LLM.
type TermExtractor struct {
	provider LLMProvider
	tmpl     *template.Template
	schema   *query.Schema
	synonyms query.SynonymTable
	logger   *slog.Logger
}

// NewTermExtractor creates an extractor. The schema and synonym table are
// rendered into every prompt.
func NewTermExtractor(provider LLMProvider, tmpl *template.Template, schema *query.Schema, synonyms query.SynonymTable, logger *slog.Logger) *TermExtractor {
	return &TermExtractor{
		provider: provider,
		tmpl:     tmpl,
		schema:   schema,
		synonyms: synonyms,
		logger:   logger,
	}
}

type synonymEntry struct {
	Term     string
	Synonyms []string
}

type promptData struct {
	Concepts []query.Concept
	Synonyms []synonymEntry
	Query    string
}

// Extract never returns an error: every failure (blank query, model error,
// unparseable output) is reported as a failed ParsedQuery.
func (e *TermExtractor) Extract(ctx context.Context, q string) model.ParsedQuery {
	q = strings.TrimSpace(q)
	if q == "" {
		return model.ExtractionFailure(fmt.Sprintf("Parsing error: %v", ErrEmptyQuery))
	}
	if utf8.RuneCountInString(q) > maxQueryRunes {
		q = string([]rune(q)[:maxQueryRunes])
	}

	prompt, err := e.renderPrompt(q)
	if err != nil {
		e.logger.Error("render extraction prompt", "error", err)
		return model.ExtractionFailure(fmt.Sprintf("Model error: %v", err))
	}

	raw, err := e.provider.Complete(ctx, prompt)
	if err != nil {
		e.logger.Warn("llm completion failed", "error", err)
		return model.ExtractionFailure(fmt.Sprintf("Model error: %v", err))
	}

	terms, err := parseTerms(stripCodeFences(raw))
	if err != nil {
		e.logger.Warn("unparseable llm output", "error", err, "raw", raw)
		return model.ExtractionFailure(fmt.Sprintf("Parsing error: %v", err))
	}

	e.logger.Debug("extracted search terms", "terms", terms)
	return model.ParsedQuery{Terms: terms}
}

func (e *TermExtractor) renderPrompt(q string) (string, error) {
	data := promptData{
		Concepts: e.schema.Concepts(),
		Query:    q,
	}
	for _, k := range e.synonyms.Keys() {
		data.Synonyms = append(data.Synonyms, synonymEntry{Term: k, Synonyms: e.synonyms[k]})
	}

	var buf bytes.Buffer
	if err := e.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}
