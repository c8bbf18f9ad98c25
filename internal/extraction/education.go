package extraction

import (
	"regexp"
	"strings"

	"github.com/jonathan/cv-optimizer/internal/types"
)

var (
	// RE2 has no lookahead; subject phrases use [\w ] so the match
	// stops at the first comma, period, paren or line break.
	degreeRe      = regexp.MustCompile(`(?i)\b(ph\.?\s?d\.?|doctor(?:ate)?(?:\s+of\s+\w+)?|master(?:'?s)?(?:\s+of\s+[\w ]+)?|m\.?b\.?a\.?|m\.?sc?\.?|bachelor(?:'?s)?(?:\s+of\s+[\w ]+)?|b\.?sc?\.?|b\.?a\.?|b\.?eng\.?|associate(?:'?s)?(?:\s+degree)?)\b(?:[ \t]+in[ \t]+[\w &/\-]+)?`)
	institutionRe = regexp.MustCompile(`(?i)([\w.'\- ]*(?:university|college|institute|polytechnic|school|academy)[\w.'\- ]*)`)
	eduLocationRe = regexp.MustCompile(`\b([A-Z][a-z]+(?:\s[A-Z][a-z]+)*,\s*(?:[A-Z]{2}|[A-Z][a-z]+))\b`)
	yearRe        = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	gpaRe         = regexp.MustCompile(`(?i)gpa[:\s]*([0-4](?:\.\d{1,2})?)(?:\s*/\s*[0-9.]+)?`)
	coursesRe     = regexp.MustCompile(`(?i)(?:relevant\s+)?course(?:s|work)?[:\s]+(.+)`)
	eduHonorsRe   = regexp.MustCompile(`(?i)\b(hono(?:u)?rs|dean'?s list|cum laude|award|scholarship|distinction|first class)\b`)
)

// parseEducation splits the education section into entries and applies
// independent sub-patterns per field. The split strategy depends on
// whether the section uses bullet markers.
func parseEducation(body string) []types.EducationEntry {
	if body == "" {
		return []types.EducationEntry{}
	}

	blocks := splitEducationBlocks(body)
	entries := make([]types.EducationEntry, 0, len(blocks))
	for _, block := range blocks {
		entry := parseEducationEntry(block)
		if entry.Degree == "" && entry.Institution == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// splitEducationBlocks divides the section body into per-entry blocks:
// bullet-delimited when bullets are present, paragraph-delimited otherwise.
func splitEducationBlocks(body string) []string {
	if isBulletSection(body) {
		var blocks []string
		var current []string
		for _, line := range strings.Split(body, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if isBulletLine(line) && len(current) > 0 {
				blocks = append(blocks, strings.Join(current, "\n"))
				current = current[:0]
			}
			current = append(current, listMarkerRe.ReplaceAllString(line, ""))
		}
		if len(current) > 0 {
			blocks = append(blocks, strings.Join(current, "\n"))
		}
		return blocks
	}

	var blocks []string
	for _, para := range blankLineRe.Split(body, -1) {
		if para = strings.TrimSpace(para); para != "" {
			blocks = append(blocks, para)
		}
	}
	return blocks
}

// isBulletSection reports whether any line of the body carries a bullet marker.
func isBulletSection(body string) bool {
	for _, line := range strings.Split(body, "\n") {
		if isBulletLine(line) {
			return true
		}
	}
	return false
}

// parseEducationEntry extracts every field it can from one block.
// Missing fields stay at their empty defaults.
func parseEducationEntry(block string) types.EducationEntry {
	entry := types.EducationEntry{
		RelevantCourses: []string{},
		Achievements:    []string{},
	}

	if m := degreeRe.FindString(block); m != "" {
		entry.Degree = strings.TrimSpace(m)
	}
	if m := institutionRe.FindStringSubmatch(block); m != nil {
		entry.Institution = strings.TrimSpace(m[1])
	}
	if m := eduLocationRe.FindStringSubmatch(block); m != nil {
		candidate := strings.TrimSpace(m[1])
		// The institution line often re-matches here; skip it.
		if !strings.EqualFold(candidate, entry.Institution) {
			entry.Location = candidate
		}
	}
	if years := yearRe.FindAllString(block, -1); len(years) > 0 {
		entry.Year = years[len(years)-1]
	}
	if m := gpaRe.FindStringSubmatch(block); m != nil {
		entry.GPA = m[1]
	}
	if m := coursesRe.FindStringSubmatch(block); m != nil {
		for _, course := range strings.Split(m[1], ",") {
			if course = strings.TrimSpace(course); course != "" {
				entry.RelevantCourses = append(entry.RelevantCourses, course)
			}
		}
	}
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(listMarkerRe.ReplaceAllString(line, ""))
		if line == "" || coursesRe.MatchString(line) {
			continue
		}
		if eduHonorsRe.MatchString(line) {
			entry.Achievements = append(entry.Achievements, line)
		}
	}

	return entry
}
