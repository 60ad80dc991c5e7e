package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"

	"github.com/amishk599/jobquery/internal/model"
)

// errModelReportedError marks a response whose top-level object carries an
// "error" key.
var errModelReportedError = errors.New("model reported an error")

// stripCodeFences removes Markdown fence lines around a response and any
// prose outside the outermost braces.
func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
		s = strings.TrimSpace(s)
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

// parseTerms turns a cleaned model response into concept -> terms. JSON is
// tried first; Python-style literals fall through to parseLiteral.
func parseTerms(cleaned string) (map[string][]string, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(cleaned), &obj); err == nil {
		if obj == nil {
			return nil, errors.New("expected a mapping, got null")
		}
		return termsFromJSON(obj)
	}
	return parseLiteral(cleaned)
}

func termsFromJSON(obj map[string]any) (map[string][]string, error) {
	if _, ok := obj[model.ErrorKey]; ok {
		return nil, errModelReportedError
	}
	out := make(map[string][]string, len(obj))
	for key, v := range obj {
		list, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("value for %q is not a list", key)
		}
		terms := make([]string, 0, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("item %d for %q is not a string", i, key)
			}
			terms = append(terms, s)
		}
		out[key] = terms
	}
	return out, nil
}

// parseLiteral accepts exactly one shape: a map literal with string or bare
// identifier keys whose values are list literals of string literals. The
// source is parsed into an expr AST and walked; it is never compiled or run.
func parseLiteral(src string) (map[string][]string, error) {
	tree, err := parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("not a literal: %w", err)
	}

	m, ok := tree.Node.(*ast.MapNode)
	if !ok {
		return nil, fmt.Errorf("expected a mapping, got %T", tree.Node)
	}

	out := make(map[string][]string, len(m.Pairs))
	for _, p := range m.Pairs {
		pair, ok := p.(*ast.PairNode)
		if !ok {
			return nil, fmt.Errorf("unexpected map entry %T", p)
		}
		key, err := literalKey(pair.Key)
		if err != nil {
			return nil, err
		}
		if key == model.ErrorKey {
			return nil, errModelReportedError
		}
		arr, ok := pair.Value.(*ast.ArrayNode)
		if !ok {
			return nil, fmt.Errorf("value for %q is not a list", key)
		}
		terms := make([]string, 0, len(arr.Nodes))
		for i, n := range arr.Nodes {
			str, ok := n.(*ast.StringNode)
			if !ok {
				return nil, fmt.Errorf("item %d for %q is not a string", i, key)
			}
			terms = append(terms, str.Value)
		}
		out[key] = terms
	}
	return out, nil
}

func literalKey(n ast.Node) (string, error) {
	switch k := n.(type) {
	case *ast.StringNode:
		return k.Value, nil
	case *ast.IdentifierNode:
		return k.Value, nil
	default:
		return "", fmt.Errorf("map key must be a string, got %T", n)
	}
}
