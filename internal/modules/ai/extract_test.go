package ai

import (
	"reflect"
	"testing"
)

func TestExtractJSONVariants(t *testing.T) {
	want := map[string]interface{}{"a": float64(1)}

	cases := []struct {
		name string
		text string
	}{
		{"bare object", `{"a":1}`},
		{"labeled fence", "```json\n{\"a\":1}\n```"},
		{"unlabeled fence", "```\n{\"a\":1}\n```"},
		{"object in prose", "Sure! Here is the result:\n{\"a\":1}\nHope that helps."},
		{"fence preferred over prose braces", "ignore {this}\n```json\n{\"a\":1}\n```"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ExtractJSON(tc.text)
			if !reflect.DeepEqual(got, want) {
				t.Errorf("ExtractJSON(%q) = %#v, want %#v", tc.text, got, want)
			}
		})
	}
}

func TestExtractJSONArrayInProse(t *testing.T) {
	got := ExtractJSON(`The best categories are ["Tech", "Sports"].`)
	want := []interface{}{"Tech", "Sports"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestExtractJSONNonJSONReturnsNil(t *testing.T) {
	if got := ExtractJSON("I could not produce any structured output, sorry."); got != nil {
		t.Errorf("expected nil, got %#v", got)
	}
}

func TestExtractJSONFallsThroughBadFence(t *testing.T) {
	// The fence content is not valid JSON; the brace span outside it is.
	text := "```\nnot json at all\n```\nresult: {\"a\": 1}"
	want := map[string]interface{}{"a": float64(1)}
	if got := ExtractJSON(text); !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestExtractJSONBracketSpanIsGreedy(t *testing.T) {
	// First "[" to last "]" — a known mis-capture when prose carries
	// stray brackets, preserved intentionally.
	got := ExtractJSON(`[1, 2] and [3]`)
	if got != nil {
		t.Errorf("greedy span \"[1, 2] and [3]\" should not parse, got %#v", got)
	}
}
