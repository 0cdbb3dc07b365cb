// Package ai provides helpers for handling raw, untrusted LLM output.
package ai

import (
	"encoding/json"
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("```[a-zA-Z]*\n?")

// ExtractJSON recovers the first parseable JSON value (object or array) from
// raw model output that may carry markdown fences or surrounding prose.
//
// Two stages: a strict parse of the fence-stripped text, then a salvage pass
// over the greedy bracket span (first '[' or '{' through the last ']' or '}').
// The ok result is false when neither stage yields valid JSON; extraction
// never panics or returns an error.
func ExtractJSON(raw string) (json.RawMessage, bool) {
	if strings.TrimSpace(raw) == "" {
		return nil, false
	}
	cleaned := fenceRe.ReplaceAllString(raw, "")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	if json.Valid([]byte(cleaned)) {
		return json.RawMessage(cleaned), true
	}
	if span, ok := bracketSpan(cleaned); ok && json.Valid([]byte(span)) {
		return json.RawMessage(span), true
	}
	return nil, false
}

// ExtractArray is the secondary scan used by question generation: the greedy
// span from the first '[' to the last ']' in the raw (unstripped) text.
func ExtractArray(raw string) (json.RawMessage, bool) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end <= start {
		return nil, false
	}
	span := raw[start : end+1]
	if !json.Valid([]byte(span)) {
		return nil, false
	}
	return json.RawMessage(span), true
}

// bracketSpan returns the greedy span starting at the earliest opening bracket.
// When both bracket kinds open, the earlier one wins; if its span does not
// parse the caller gets no second chance, matching the salvage contract.
func bracketSpan(s string) (string, bool) {
	arr := strings.Index(s, "[")
	obj := strings.Index(s, "{")

	type cand struct {
		open  int
		close string
	}
	var cands []cand
	switch {
	case arr == -1 && obj == -1:
		return "", false
	case arr == -1:
		cands = []cand{{obj, "}"}}
	case obj == -1:
		cands = []cand{{arr, "]"}}
	case arr < obj:
		cands = []cand{{arr, "]"}, {obj, "}"}}
	default:
		cands = []cand{{obj, "}"}, {arr, "]"}}
	}
	for _, c := range cands {
		end := strings.LastIndex(s, c.close)
		if end > c.open {
			return s[c.open : end+1], true
		}
	}
	return "", false
}
