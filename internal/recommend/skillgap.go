package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/cv-optimizer/internal/types"
)

// Fixed pattern lists used to bucket missing keywords. A keyword
// matching none of them is treated as domain knowledge.
var (
	technicalPatterns = []string{
		"programming", "software", "development", "engineering", "code",
		"python", "java", "javascript", "golang", "sql", "database",
		"cloud", "aws", "azure", "docker", "kubernetes", "api", "linux",
		"testing", "automation", "devops", "security", "network", "data",
	}
	softPatterns = []string{
		"communication", "leadership", "teamwork", "collaboration",
		"management", "organization", "problem", "analytical", "creative",
		"presentation", "negotiation", "mentoring", "adaptability",
	}
)

const topMissingCount = 3

// skillGap builds the narrative grouping missing keywords into
// technical, soft and domain buckets, splitting critical from desired,
// and closes with the top missing keywords by importance.
func skillGap(missing []types.MissingKeyword) string {
	if len(missing) == 0 {
		return "No significant skill gaps detected. The CV covers the keywords this role emphasizes."
	}

	buckets := map[string][]types.MissingKeyword{}
	for _, mk := range missing {
		buckets[bucketOf(mk.Keyword)] = append(buckets[bucketOf(mk.Keyword)], mk)
	}

	var b strings.Builder
	for _, name := range []string{"technical", "soft", "domain"} {
		group := buckets[name]
		if len(group) == 0 {
			continue
		}
		critical, desired := splitByImportance(group)
		b.WriteString(bucketLine(name, critical, desired))
	}

	top := topMissing(missing, topMissingCount)
	b.WriteString("Priorities: ")
	parts := make([]string, len(top))
	for i, mk := range top {
		parts[i] = fmt.Sprintf("%s (add to %s)", mk.Keyword, mk.SuggestedPlacement)
	}
	b.WriteString(strings.Join(parts, "; "))
	b.WriteString(".")
	return b.String()
}

func bucketOf(keyword string) string {
	lower := strings.ToLower(keyword)
	for _, p := range technicalPatterns {
		if strings.Contains(lower, p) || strings.Contains(p, lower) {
			return "technical"
		}
	}
	for _, p := range softPatterns {
		if strings.Contains(lower, p) || strings.Contains(p, lower) {
			return "soft"
		}
	}
	return "domain"
}

func splitByImportance(group []types.MissingKeyword) (critical, desired []string) {
	for _, mk := range group {
		if mk.Importance > criticalImportance {
			critical = append(critical, mk.Keyword)
		} else {
			desired = append(desired, mk.Keyword)
		}
	}
	return critical, desired
}

func bucketLine(name string, critical, desired []string) string {
	var b strings.Builder
	label := map[string]string{
		"technical": "Technical skills",
		"soft":      "Soft skills",
		"domain":    "Domain knowledge",
	}[name]

	b.WriteString(label)
	b.WriteString(": ")
	if len(critical) > 0 {
		b.WriteString(fmt.Sprintf("critical gaps in %s", strings.Join(critical, ", ")))
		if len(desired) > 0 {
			b.WriteString("; ")
		}
	}
	if len(desired) > 0 {
		b.WriteString(fmt.Sprintf("desired additions include %s", strings.Join(desired, ", ")))
	}
	b.WriteString(". ")
	return b.String()
}

func topMissing(missing []types.MissingKeyword, n int) []types.MissingKeyword {
	sorted := make([]types.MissingKeyword, len(missing))
	copy(sorted, missing)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Importance > sorted[j].Importance
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
