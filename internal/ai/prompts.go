package ai

import (
	_ "embed"
	"strings"
	"text/template"
)

//go:embed prompts/term_extraction.md
var termExtractionPromptRaw string

// TermExtractionTemplate is the parsed prompt template for term extraction.
// Parsed once at package init; reused on every Extract call.
var TermExtractionTemplate = template.Must(template.New("term_extraction").
	Funcs(template.FuncMap{"join": strings.Join}).
	Parse(termExtractionPromptRaw))
