package optimizing

import (
	"sort"
	"strings"
)

// optimizeSkillList unions the existing skills with job requirement
// phrases not already represented, ranks by job-keyword coverage and
// truncates to MaxSkillsPerCategory.
func optimizeSkillList(existing []string, requirements []string, jobKeywords []string) []string {
	merged := make([]string, 0, len(existing)+len(requirements))
	merged = append(merged, existing...)

	for _, req := range requirements {
		if !represented(req, merged) {
			merged = append(merged, req)
		}
	}

	// Rank by how many job keywords each skill string contains; stable
	// so equally-ranked skills keep their original order.
	sort.SliceStable(merged, func(i, j int) bool {
		return keywordHits(merged[i], jobKeywords) > keywordHits(merged[j], jobKeywords)
	})

	if len(merged) > MaxSkillsPerCategory {
		merged = merged[:MaxSkillsPerCategory]
	}
	if merged == nil {
		return []string{}
	}
	return merged
}

// represented reports whether candidate already appears among skills as
// a substring in either direction, case-insensitively.
func represented(candidate string, skills []string) bool {
	lower := strings.ToLower(candidate)
	for _, skill := range skills {
		s := strings.ToLower(skill)
		if strings.Contains(s, lower) || strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
