package ai

import (
	"strings"
	"testing"
)

func TestBuildSummaryPromptsBothFeatures(t *testing.T) {
	system, user := buildSummaryPrompts(summaryPromptOptions{
		EnableSummary: true,
		EnableTeaser:  true,
		NumPoints:     5,
		PlainContent:  "Some article text.",
	})

	for _, want := range []string{
		"neutral, objective language",
		"engaging but still factual",
		`"summary" and "teaser" fields`,
		"SAME LANGUAGE",
	} {
		if !strings.Contains(system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}
	for _, want := range []string{
		"both a summary and a teaser",
		"Create exactly 5 key bullet points",
		"TEASER:",
		`{"summary": "`,
		"Source text:\nSome article text.",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}

func TestBuildSummaryPromptsSummaryOnly(t *testing.T) {
	system, user := buildSummaryPrompts(summaryPromptOptions{
		EnableSummary: true,
		NumPoints:     3,
		PlainContent:  "text",
	})
	if strings.Contains(system, "teaser engaging") || strings.Contains(user, "TEASER:") {
		t.Error("teaser directives present with teaser disabled")
	}
	if !strings.Contains(system, `JSON format with "summary" field`) {
		t.Error("summary-only JSON directive missing")
	}
}

func TestBuildSummaryPromptsTeaserOnly(t *testing.T) {
	system, user := buildSummaryPrompts(summaryPromptOptions{
		EnableTeaser: true,
		NumPoints:    3,
		PlainContent: "text",
	})
	if strings.Contains(user, "SUMMARY:") {
		t.Error("summary block present with summary disabled")
	}
	if !strings.Contains(system, `JSON format with "teaser" field`) {
		t.Error("teaser-only JSON directive missing")
	}
}

func TestCustomInstructionsAppendedVerbatim(t *testing.T) {
	system, _ := buildSummaryPrompts(summaryPromptOptions{
		EnableSummary:      true,
		NumPoints:          3,
		CustomInstructions: "Always mention the year.",
		PlainContent:       "text",
	})
	if !strings.Contains(system, "Additional instructions:\nAlways mention the year.") {
		t.Errorf("custom instructions not appended:\n%s", system)
	}
}

func TestMaxCharsInstructionMath(t *testing.T) {
	opts := summaryPromptOptions{
		EnableSummary:    true,
		NumPoints:        4,
		ReductionPercent: 10,
		PlainContent:     strings.Repeat("a", 1000),
	}
	got := maxCharsInstruction(opts)
	want := "The total summary must not exceed 100 characters (approximately 25 characters per point)."
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	opts.ReductionPercent = 0
	if maxCharsInstruction(opts) != "" {
		t.Error("zero reduction must not emit a budget line")
	}
}

func TestMaxCharsCountsRunesNotBytes(t *testing.T) {
	opts := summaryPromptOptions{
		EnableSummary:    true,
		NumPoints:        2,
		ReductionPercent: 50,
		PlainContent:     strings.Repeat("世", 100), // 100 chars, 300 bytes
	}
	got := maxCharsInstruction(opts)
	if !strings.Contains(got, "exceed 50 characters") {
		t.Errorf("budget should be 50 for 100 runes at 50%%, got %q", got)
	}
}

func TestBuildCategorizePrompts(t *testing.T) {
	system, user := buildCategorizePrompts(3, []string{"Tech", "Sports"}, "content body")

	if !strings.Contains(system, "ONLY select categories from the provided list") {
		t.Error("vocabulary restriction missing from system prompt")
	}
	if !strings.Contains(system, "empty array []") {
		t.Error("empty-array directive missing")
	}
	for _, want := range []string{
		"Select up to 3 most relevant categories",
		"this list: Tech, Sports",
		`Example: ["Category1", "Category2"]`,
		"Content to categorize:\ncontent body",
	} {
		if !strings.Contains(user, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}

func TestStripTags(t *testing.T) {
	in := `<p>Hello <b>world</b></p><script>alert("x")</script><style>p{}</style> &amp; more`
	got := stripTags(in)
	want := "Hello world & more"
	if got != want {
		t.Errorf("stripTags = %q, want %q", got, want)
	}
}
