package ai

import (
	"encoding/json"
	"regexp"
)

var (
	fencedJSONRe  = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	fencedAnyRe   = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
	bracketSpanRe = regexp.MustCompile(`(?s)\[.*\]`)
	braceSpanRe   = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractJSON pulls a JSON value out of a model response that was asked
// for JSON but is not guaranteed to comply: the value may arrive inside a
// labeled or unlabeled code fence, embedded in prose, or bare. Strategies
// run in order and the first successful parse wins; fences are tried
// before bare bracket spans because a fence is unambiguous while prose
// can contain stray brackets. Returns nil when nothing parses.
func ExtractJSON(text string) interface{} {
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		if v, ok := tryDecode(m[1]); ok {
			return v
		}
	}
	if m := fencedAnyRe.FindStringSubmatch(text); m != nil {
		if v, ok := tryDecode(m[1]); ok {
			return v
		}
	}
	// First "[" to last "]", greedily across the whole text.
	if m := bracketSpanRe.FindString(text); m != "" {
		if v, ok := tryDecode(m); ok {
			return v
		}
	}
	if m := braceSpanRe.FindString(text); m != "" {
		if v, ok := tryDecode(m); ok {
			return v
		}
	}

	var v interface{}
	_ = json.Unmarshal([]byte(text), &v)
	return v
}

func tryDecode(s string) (interface{}, bool) {
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil || v == nil {
		return nil, false
	}
	return v, true
}
