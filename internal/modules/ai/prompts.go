package ai

import (
	"fmt"
	"strings"
)

// Generation parameters fixed by the feature, not by the operator.
const (
	summaryTemperature = 0.4
	summaryMaxTokens   = 2500

	categorizeTemperature = 0.2
	categorizeMaxTokens   = 500
)

type summaryPromptOptions struct {
	EnableSummary      bool
	EnableTeaser       bool
	NumPoints          int
	ReductionPercent   int
	CustomInstructions string
	PlainContent       string
}

// buildSummaryPrompts composes the system and user prompts for summary
// and/or teaser generation. Assumes at least one feature is enabled;
// callers validate that before getting here.
func buildSummaryPrompts(opts summaryPromptOptions) (systemPrompt, userPrompt string) {
	rules := []string{
		"1. ONLY use information explicitly stated in the source text",
		"2. NEVER add interpretations, opinions, or external knowledge",
		"3. NEVER hallucinate or invent information not present in the text",
	}
	if opts.EnableSummary {
		rules = append(rules, "4. Use neutral, objective language for the summary")
	}
	if opts.EnableTeaser {
		rules = append(rules, "5. Make the teaser engaging but still factual")
	}
	rules = append(rules,
		"6. Preserve the original meaning accurately",
		"7. Respond in the SAME LANGUAGE as the source text",
	)

	var jsonFormat string
	switch {
	case opts.EnableSummary && opts.EnableTeaser:
		rules = append(rules, `8. Return your response in JSON format with "summary" and "teaser" fields`)
		jsonFormat = `{"summary": "• Point 1\n• Point 2\n• Point 3", "teaser": "Your teaser paragraph here."}`
	case opts.EnableSummary:
		rules = append(rules, `8. Return your response in JSON format with "summary" field`)
		jsonFormat = `{"summary": "• Point 1\n• Point 2\n• Point 3"}`
	default:
		rules = append(rules, `8. Return your response in JSON format with "teaser" field`)
		jsonFormat = `{"teaser": "Your teaser paragraph here."}`
	}

	systemPrompt = "You are a precise summarization assistant. Your task is to create factual content based EXCLUSIVELY on the provided text. You must:\n\n" +
		strings.Join(rules, "\n")
	if opts.CustomInstructions != "" {
		systemPrompt += "\n\nAdditional instructions:\n" + opts.CustomInstructions
	}

	var b strings.Builder
	switch {
	case opts.EnableSummary && opts.EnableTeaser:
		b.WriteString("Analyze the following article and provide both a summary and a teaser.\n\n")
	case opts.EnableSummary:
		b.WriteString("Analyze the following article and provide a summary.\n\n")
	default:
		b.WriteString("Analyze the following article and provide a teaser.\n\n")
	}

	if opts.EnableSummary {
		fmt.Fprintf(&b, "SUMMARY: Create exactly %d key bullet points.\n", opts.NumPoints)
		if instruction := maxCharsInstruction(opts); instruction != "" {
			b.WriteString(instruction + "\n")
		}
		b.WriteString("- Each point must be a complete, standalone statement\n" +
			"- Start each point with a bullet (•)\n" +
			"- Focus on the most important and factual information\n\n")
	}

	if opts.EnableTeaser {
		b.WriteString("TEASER: Write a short, engaging paragraph (2-3 sentences) that entices readers to read the full article. The teaser should:\n" +
			"- Highlight the most compelling aspect of the article\n" +
			"- Create curiosity without revealing everything\n" +
			"- Stay factual and based only on the article content\n\n")
	}

	b.WriteString("Return ONLY valid JSON in this exact format:\n" + jsonFormat + "\n\n")
	b.WriteString("Source text:\n" + opts.PlainContent)

	return systemPrompt, b.String()
}

// maxCharsInstruction computes the character-budget line when a
// reduction percentage is requested. Lengths are measured on the
// HTML-stripped plain text.
func maxCharsInstruction(opts summaryPromptOptions) string {
	if !opts.EnableSummary || opts.ReductionPercent <= 0 || opts.ReductionPercent > 100 {
		return ""
	}
	maxChars := contentLength(opts.PlainContent) * opts.ReductionPercent / 100
	maxCharsPerPoint := maxChars / opts.NumPoints
	return fmt.Sprintf("The total summary must not exceed %d characters (approximately %d characters per point).", maxChars, maxCharsPerPoint)
}

// buildCategorizePrompts composes the prompts for category selection
// from a fixed vocabulary.
func buildCategorizePrompts(maxCategories int, categoryNames []string, plainContent string) (systemPrompt, userPrompt string) {
	systemPrompt = "You are a content categorization assistant. Your task is to analyze text and select the most relevant categories from a predefined list. You must:\n\n" +
		"1. ONLY select categories from the provided list\n" +
		"2. Choose categories based on the actual content, not assumptions\n" +
		"3. Return ONLY a JSON array of category names, nothing else\n" +
		"4. If no categories match, return an empty array []\n" +
		"5. Order categories by relevance (most relevant first)"

	userPrompt = fmt.Sprintf(
		"Select up to %d most relevant categories for the following content from this list: %s\n\n",
		maxCategories,
		strings.Join(categoryNames, ", "),
	) +
		`Return ONLY a JSON array of category names. Example: ["Category1", "Category2"]` + "\n\n" +
		"Content to categorize:\n" + plainContent

	return systemPrompt, userPrompt
}
