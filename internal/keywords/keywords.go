// Package keywords tokenizes and ranks significant terms from free text,
// with a job-description mode that prioritizes requirement-adjacent terms.
package keywords

import (
	"regexp"
	"sort"
	"strings"
)

// minTokenLength drops very short tokens; anything of length <= 2 is noise.
const minTokenLength = 3

// stopWords is the fixed set of terms excluded from ranking.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"has": true, "have": true, "with": true, "this": true, "that": true,
	"from": true, "they": true, "will": true, "would": true, "there": true,
	"their": true, "what": true, "about": true, "which": true, "when": true,
	"your": true, "them": true, "than": true, "then": true, "were": true,
	"been": true, "also": true, "into": true, "more": true, "other": true,
	"some": true, "such": true, "only": true, "over": true, "very": true,
	"who": true, "its": true, "our's": true, "ours": true, "per": true,
	"able": true, "via": true, "use": true, "using": true, "well": true,
	"work": true, "working": true, "role": true, "team": true, "job": true,
}

// requirementIndicators are the words whose sentences mark
// priority keywords in job-description mode.
var requirementIndicators = []string{
	"required", "must", "should", "need", "essential", "necessary",
	"qualification", "experience", "skill", "proficiency", "knowledge",
}

var (
	punctRe    = regexp.MustCompile(`[^\w\s\-+#./]`)
	numericRe  = regexp.MustCompile(`^[\d.,/]+$`)
	sentenceRe = regexp.MustCompile(`[.!?\n]+`)
)

// Extract returns the deduplicated significant terms of text, most
// frequent first. Ties break by first occurrence, so identical input
// always yields an identical ordering. With isJobDescription set, terms
// that co-occur in a sentence with a requirement indicator move to the
// front of the result.
func Extract(text string, isJobDescription bool) []string {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return []string{}
	}

	freq := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if freq[token] == 0 {
			order = append(order, token)
		}
		freq[token]++
	}

	// Stable sort keeps first-occurrence order among equal frequencies.
	ranked := make([]string, len(order))
	copy(ranked, order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return freq[ranked[i]] > freq[ranked[j]]
	})

	if !isJobDescription {
		return ranked
	}

	priority := requirementTerms(text)
	if len(priority) == 0 {
		return ranked
	}

	result := make([]string, 0, len(ranked))
	seen := make(map[string]bool, len(ranked))
	for _, term := range ranked {
		if priority[term] && !seen[term] {
			result = append(result, term)
			seen[term] = true
		}
	}
	for _, term := range ranked {
		if !seen[term] {
			result = append(result, term)
			seen[term] = true
		}
	}
	return result
}

// Frequencies returns the per-term occurrence counts alongside the
// ranked term list. Scoring uses the counts for relevance weighting.
func Frequencies(text string) map[string]int {
	freq := make(map[string]int)
	for _, token := range tokenize(text) {
		freq[token]++
	}
	return freq
}

// tokenize lowercases, strips punctuation, splits on whitespace and
// drops short, stop-word and pure-numeric tokens.
func tokenize(text string) []string {
	lowered := strings.ToLower(text)
	lowered = punctRe.ReplaceAllString(lowered, " ")

	var tokens []string
	for _, field := range strings.Fields(lowered) {
		field = strings.Trim(field, "-+#./")
		if len(field) < minTokenLength {
			continue
		}
		if stopWords[field] || numericRe.MatchString(field) {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

// requirementTerms returns the set of tokens sharing a sentence with a
// requirement indicator.
func requirementTerms(text string) map[string]bool {
	terms := make(map[string]bool)
	for _, sentence := range sentenceRe.Split(text, -1) {
		lower := strings.ToLower(sentence)
		indicated := false
		for _, indicator := range requirementIndicators {
			if strings.Contains(lower, indicator) {
				indicated = true
				break
			}
		}
		if !indicated {
			continue
		}
		for _, token := range tokenize(sentence) {
			if !isIndicatorToken(token) {
				terms[token] = true
			}
		}
	}
	return terms
}

// isIndicatorToken filters the indicator words themselves out of the
// priority set; "required" is a marker, not a skill.
func isIndicatorToken(token string) bool {
	for _, indicator := range requirementIndicators {
		if strings.HasPrefix(token, indicator) || strings.HasPrefix(indicator, token) {
			return true
		}
	}
	// "requires"/"requirements" share a stem with "required" without
	// being a prefix of it.
	return strings.HasPrefix(token, "requir")
}
