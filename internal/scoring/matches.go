package scoring

import (
	"regexp"
	"strings"

	"github.com/jonathan/cv-optimizer/internal/extraction"
	"github.com/jonathan/cv-optimizer/internal/keywords"
	"github.com/jonathan/cv-optimizer/internal/types"
)

// Relevance component caps for matched keywords.
const (
	frequencyBonusPerHit = 10
	frequencyBonusCap    = 30
	emphasisBonusPerHit  = 15
	emphasisBonusCap     = 40
)

// Importance component caps for missing keywords.
const (
	importancePerJobHit   = 15
	importanceJobHitCap   = 45
	importancePositionCap = 30
	importanceContextRe   = `(?i)requir|must\s+have|essential`
	importanceContext     = 25
	// Missing keywords below this importance are dropped.
	importanceCutoff = 40
)

var requiredContextRe = regexp.MustCompile(importanceContextRe)

// analyzeKeywords classifies every job keyword as matched or missing
// and scores it accordingly.
func analyzeKeywords(cvText, jobText string, jobKeywords []string) ([]types.KeywordMatch, []types.MissingKeyword) {
	matched := []types.KeywordMatch{}
	missing := []types.MissingKeyword{}

	jobFreq := keywords.Frequencies(jobText)
	sections := cvSectionTexts(cvText)
	cvLower := strings.ToLower(cvText)
	cvKeywords := keywords.Extract(cvText, false)

	for idx, kw := range jobKeywords {
		freq := countOccurrences(cvText, kw)
		if freq == 0 && substringPresent(cvLower, cvKeywords, kw) {
			// "sql" inside "PostgreSQL" or "database" inside
			// "databases" counts as present, matching the skills
			// dimension's substring rule.
			freq = strings.Count(cvLower, kw)
			if freq == 0 {
				freq = 1
			}
		}
		if freq > 0 {
			matched = append(matched, types.KeywordMatch{
				Keyword:   kw,
				Relevance: keywordRelevance(kw, freq, jobFreq[kw], sections),
				Frequency: freq,
				Placement: keywordPlacement(kw, sections),
			})
			continue
		}

		importance := keywordImportance(kw, idx, len(jobKeywords), jobFreq[kw], jobText)
		if importance <= importanceCutoff {
			continue
		}
		missing = append(missing, types.MissingKeyword{
			Keyword:            kw,
			Importance:         importance,
			SuggestedPlacement: suggestPlacement(kw),
		})
	}

	return matched, missing
}

// substringPresent reports whether kw appears in the CV as a substring
// of the raw text or overlaps a CV keyword in either direction. A
// keyword present this way must never be reported as missing.
func substringPresent(cvLower string, cvKeywords []string, kw string) bool {
	if strings.Contains(cvLower, kw) {
		return true
	}
	for _, cvKw := range cvKeywords {
		if strings.Contains(cvKw, kw) || strings.Contains(kw, cvKw) {
			return true
		}
	}
	return false
}

// countOccurrences counts case-insensitive word-boundary occurrences of
// kw in text.
func countOccurrences(text, kw string) int {
	re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
	if err != nil {
		return 0
	}
	return len(re.FindAllStringIndex(text, -1))
}

// keywordRelevance combines CV frequency, job-description emphasis and a
// placement bonus, clamped to 100.
func keywordRelevance(kw string, cvFreq, jobFreq int, sections map[string]string) int {
	relevance := min(cvFreq*frequencyBonusPerHit, frequencyBonusCap)
	relevance += min(jobFreq*emphasisBonusPerHit, emphasisBonusCap)

	placement := keywordPlacement(kw, sections)
	if bonus, ok := placementBonus[placement]; ok {
		relevance += bonus
	} else {
		relevance += defaultPlacementBonus
	}

	return clamp(relevance, 0, 100)
}

// keywordImportance scores an absent keyword from its job-text
// frequency, its position in the ranked keyword list (earlier is more
// important) and whether it sits in a required/must-have context.
func keywordImportance(kw string, idx, total, jobFreq int, jobText string) int {
	importance := min(jobFreq*importancePerJobHit, importanceJobHitCap)

	if total > 1 {
		importance += importancePositionCap - idx*importancePositionCap/(total-1)
	} else {
		importance += importancePositionCap
	}

	if inRequiredContext(kw, jobText) {
		importance += importanceContext
	}

	return clamp(importance, 0, 100)
}

// inRequiredContext reports whether kw shares a sentence with a
// required/must-have/essential marker.
func inRequiredContext(kw string, jobText string) bool {
	for _, sentence := range regexp.MustCompile(`[.!?\n]+`).Split(jobText, -1) {
		lower := strings.ToLower(sentence)
		if strings.Contains(lower, kw) && requiredContextRe.MatchString(sentence) {
			return true
		}
	}
	return false
}

// cvSectionTexts returns the lowercased text of each canonical CV
// section, located by the same heading rules the extractor uses.
func cvSectionTexts(cvText string) map[string]string {
	sections := make(map[string]string)
	for name, body := range extraction.SectionBodies(cvText) {
		sections[name] = strings.ToLower(body)
	}
	return sections
}

// keywordPlacement returns the canonical section holding the keyword,
// or "various" when it only appears outside every canonical section.
func keywordPlacement(kw string, sections map[string]string) string {
	for _, name := range types.CanonicalSections {
		if body, ok := sections[name]; ok && strings.Contains(body, kw) {
			return name
		}
	}
	return types.PlacementVarious
}

// technicalSuggestRe decides the section hint for a missing keyword.
var technicalSuggestRe = regexp.MustCompile(`(?i)\b(python|java|sql|cloud|aws|azure|docker|kubernetes|api|software|data|testing|security|linux|git)\b`)

// suggestPlacement produces a free-text section hint for a missing keyword.
func suggestPlacement(kw string) string {
	if technicalSuggestRe.MatchString(kw) {
		return "skills section"
	}
	return "profile or experience section"
}
