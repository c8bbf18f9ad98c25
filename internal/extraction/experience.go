package extraction

import (
	"regexp"
	"strings"

	"github.com/jonathan/cv-optimizer/internal/types"
)

var (
	// dateRangeRe matches a leading date range such as "2018 - 2022",
	// "Jan 2019 – Present" or "2020-present".
	dateRangeRe = regexp.MustCompile(`(?i)((?:[A-Za-z]{3,9}\.?\s+)?(?:19|20)\d{2})\s*[-–—to]+\s*((?:[A-Za-z]{3,9}\.?\s+)?(?:(?:19|20)\d{2}|present|current|now))`)

	// dateLineStartRe detects lines that begin a new experience entry.
	dateLineStartRe = regexp.MustCompile(`(?i)^\s*(?:[A-Za-z]{3,9}\.?\s+)?(?:19|20)\d{2}\s*[-–—to]`)

	// titleRe captures a role title adjacent to the date range.
	titleRe = regexp.MustCompile(`(?i)^\s*(?:[-*•·]\s*)?([A-Z][\w./+#&' \-]{2,60}?)(?:\s+(?:at|@|,|\|)\s|\s*[-–—]\s|\s*\()`)
)

// parseExperience splits the experience section into entries on
// date-like line starts and extracts the leading date range plus an
// adjacent title per entry.
func parseExperience(body string) []types.ExperienceEntry {
	if body == "" {
		return []types.ExperienceEntry{}
	}

	entries := []types.ExperienceEntry{}
	lines := strings.Split(body, "\n")
	var pendingTitle string

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			pendingTitle = ""
			continue
		}

		if m := dateRangeRe.FindStringSubmatch(line); m != nil {
			entry := types.ExperienceEntry{
				StartDate: strings.TrimSpace(m[1]),
				EndDate:   strings.TrimSpace(m[2]),
			}
			entry.Title = titleOnLine(dateRangeRe.ReplaceAllString(line, ""))
			if entry.Title == "" {
				entry.Title = pendingTitle
			}
			entries = append(entries, entry)
			pendingTitle = ""
			continue
		}

		// A non-date line may carry the title for the date line below it.
		if !isBulletLine(line) {
			pendingTitle = titleOnLine(line)
		}
	}

	return entries
}

// titleOnLine extracts a plausible role title from a line fragment.
func titleOnLine(line string) string {
	line = strings.Trim(strings.TrimSpace(line), "-–—:,|")
	line = strings.TrimSpace(line)
	if line == "" {
		return ""
	}
	if m := titleRe.FindStringSubmatch(line + " -"); m != nil {
		return strings.TrimSpace(m[1])
	}
	// Short standalone lines are taken verbatim.
	if len(line) <= 60 && !strings.ContainsAny(line, ".!?") {
		return line
	}
	return ""
}

// ExperienceYears sums the spans of parsed date ranges in whole years,
// resolving "present" to currentYear. Used by scoring to estimate total
// experience from raw CV text.
func ExperienceYears(entries []types.ExperienceEntry, currentYear int) int {
	total := 0
	for _, entry := range entries {
		start := yearOf(entry.StartDate, 0)
		end := yearOf(entry.EndDate, currentYear)
		if start > 0 && end >= start {
			total += end - start
		}
	}
	return total
}

// yearOf extracts the 4-digit year from a date fragment; "present" and
// friends resolve to the supplied fallback.
func yearOf(fragment string, fallback int) int {
	if m := yearRe.FindString(fragment); m != "" {
		year := 0
		for _, r := range m {
			year = year*10 + int(r-'0')
		}
		return year
	}
	lower := strings.ToLower(fragment)
	if strings.Contains(lower, "present") || strings.Contains(lower, "current") || strings.Contains(lower, "now") {
		return fallback
	}
	return 0
}
