// Package optimizing re-ranks and augments StructuredCV sections to
// better align with a job posting. The input CV is never mutated; a
// modified copy is returned.
package optimizing

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jonathan/cv-optimizer/internal/types"
)

// Bounds on optimized section sizes.
const (
	MaxSkillsPerCategory  = 15
	MaxAchievements       = 5
	MaxGoals              = 3
	MaxSynthesizedCourses = 3
)

// Optimizer rewrites CV sections against a job posting. It holds only
// an injectable clock year and is safe for concurrent use.
type Optimizer struct {
	currentYear int
}

// NewOptimizer creates an optimizer. A zero year means wall clock.
func NewOptimizer(currentYear int) *Optimizer {
	return &Optimizer{currentYear: currentYear}
}

func (o *Optimizer) year() int {
	if o.currentYear > 0 {
		return o.currentYear
	}
	return time.Now().Year()
}

// Optimize returns a copy of cv with every section re-ranked or
// augmented toward the job posting. jobKeywords is the analyzer's
// ranked keyword list for the job text.
func (o *Optimizer) Optimize(cv *types.StructuredCV, jobText string, jobKeywords []string) *types.StructuredCV {
	out := *cv
	out.Normalize()

	requirements := requirementPhrases(jobText)

	out.Profile = optimizeProfile(cv.Profile, requirements, jobKeywords)
	out.Skills = types.Skills{
		Technical:    optimizeSkillList(cv.Skills.Technical, requirements, jobKeywords),
		Professional: optimizeSkillList(cv.Skills.Professional, requirements, jobKeywords),
	}
	out.Achievements = rankBullets(cv.Achievements, jobKeywords, MaxAchievements)
	out.Goals = rankBullets(cv.Goals, jobKeywords, MaxGoals)
	out.Languages = optimizeLanguages(cv.Languages, jobText)
	out.Education = o.optimizeEducation(cv.Education, requirements, jobKeywords)

	return &out
}

// requirementPhraseRe captures phrases introduced by requirement verbs
// in the job text.
var requirementPhraseRe = regexp.MustCompile(`(?im)(?:required|requires?|seeking|must have|responsibilities include)[:\s]+([^\n.]+)`)

// requirementPhrases extracts short requirement phrases from the job
// text, split on list separators.
func requirementPhrases(jobText string) []string {
	var phrases []string
	seen := make(map[string]bool)
	for _, m := range requirementPhraseRe.FindAllStringSubmatch(jobText, -1) {
		for _, part := range regexp.MustCompile(`[,;]| and `).Split(m[1], -1) {
			part = strings.TrimSpace(part)
			if part == "" || len(part) > 60 {
				continue
			}
			key := strings.ToLower(part)
			if !seen[key] {
				phrases = append(phrases, part)
				seen[key] = true
			}
		}
	}
	return phrases
}

// optimizeProfile synthesizes a profile from top keywords when the CV
// has none, otherwise appends a sentence naming job requirements the
// profile does not already mention.
func optimizeProfile(profile string, requirements []string, jobKeywords []string) string {
	if strings.TrimSpace(profile) == "" {
		top := jobKeywords
		if len(top) > 5 {
			top = top[:5]
		}
		if len(top) == 0 {
			return profile
		}
		return fmt.Sprintf("Professional with demonstrated experience in %s.", joinNatural(top))
	}

	lower := strings.ToLower(profile)
	var missing []string
	for _, req := range requirements {
		if !strings.Contains(lower, strings.ToLower(req)) {
			missing = append(missing, req)
		}
	}
	if len(missing) == 0 {
		return profile
	}
	if len(missing) > 3 {
		missing = missing[:3]
	}

	sentence := fmt.Sprintf(" Brings relevant strengths in %s.", joinNatural(missing))
	return strings.TrimSpace(profile) + sentence
}

// joinNatural joins items with commas and a final "and".
func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

// keywordHits counts how many job keywords the text contains.
func keywordHits(text string, jobKeywords []string) int {
	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range jobKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits
}
