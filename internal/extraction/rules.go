package extraction

import (
	"regexp"
	"sort"
	"strings"
)

// HeadingRule anchors one section heading pattern. Rules for a section
// are tried in order and the first match wins.
type HeadingRule struct {
	Name    string
	Pattern *regexp.Regexp
}

// Section names used as keys in the heading tables.
const (
	sectionProfile      = "profile"
	sectionSkills       = "skills"
	sectionExperience   = "experience"
	sectionEducation    = "education"
	sectionAchievements = "achievements"
	sectionGoals        = "goals"
	sectionLanguages    = "languages"
	sectionContact      = "contact"
)

// sectionRules maps each canonical section to its ordered heading rules.
// Patterns are line-anchored so body words like "experience" inside a
// paragraph do not start a new section.
var sectionRules = map[string][]HeadingRule{
	sectionProfile: {
		{Name: "profile-heading", Pattern: regexp.MustCompile(`(?im)^\s*(?:professional\s+)?(?:profile|summary|objective)\s*:?[ \t]*`)},
		{Name: "about-heading", Pattern: regexp.MustCompile(`(?im)^\s*about(?:\s+me)?\s*:?[ \t]*`)},
	},
	sectionSkills: {
		{Name: "skills-heading", Pattern: regexp.MustCompile(`(?im)^\s*(?:core\s+|key\s+|technical\s+)?(?:skills|competencies)\s*(?:&\s*\w+\s*)?:?[ \t]*`)},
		{Name: "expertise-heading", Pattern: regexp.MustCompile(`(?im)^\s*areas?\s+of\s+expertise\s*:?[ \t]*`)},
	},
	sectionExperience: {
		{Name: "experience-heading", Pattern: regexp.MustCompile(`(?im)^\s*(?:work\s+|professional\s+|employment\s+)?(?:experience|history)\s*:?[ \t]*`)},
		{Name: "career-heading", Pattern: regexp.MustCompile(`(?im)^\s*career\s+(?:summary|history)\s*:?[ \t]*`)},
	},
	sectionEducation: {
		{Name: "education-heading", Pattern: regexp.MustCompile(`(?im)^\s*education(?:\s*(?:&|and)\s*(?:training|qualifications))?\s*:?[ \t]*`)},
		{Name: "academic-heading", Pattern: regexp.MustCompile(`(?im)^\s*academic\s+(?:background|qualifications)\s*:?[ \t]*`)},
	},
	sectionAchievements: {
		{Name: "achievements-heading", Pattern: regexp.MustCompile(`(?im)^\s*(?:key\s+)?(?:achievements|accomplishments|awards)\s*:?[ \t]*`)},
	},
	sectionGoals: {
		{Name: "goals-heading", Pattern: regexp.MustCompile(`(?im)^\s*(?:career\s+)?goals?\s*:?[ \t]*`)},
		{Name: "aspirations-heading", Pattern: regexp.MustCompile(`(?im)^\s*aspirations\s*:?[ \t]*`)},
	},
	sectionLanguages: {
		{Name: "languages-heading", Pattern: regexp.MustCompile(`(?im)^\s*languages?\s*:?[ \t]*`)},
	},
	sectionContact: {
		{Name: "contact-heading", Pattern: regexp.MustCompile(`(?im)^\s*contact(?:\s+(?:info|information|details))?\s*:?[ \t]*`)},
	},
}

// headingSpan records where a section heading matched in the source text.
type headingSpan struct {
	section string
	rule    string
	start   int // start of the heading match
	end     int // end of the heading match (body begins here)
}

// locateSections applies each section's rule chain against the text and
// returns the winning heading spans sorted by position. A section whose
// rules never match is simply absent from the result.
func locateSections(text string) []headingSpan {
	spans := make([]headingSpan, 0, len(sectionRules))
	for section, rules := range sectionRules {
		for _, rule := range rules {
			if loc := rule.Pattern.FindStringIndex(text); loc != nil {
				spans = append(spans, headingSpan{
					section: section,
					rule:    rule.Name,
					start:   loc[0],
					end:     loc[1],
				})
				break
			}
		}
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return spans
}

// SectionBodies cleans raw text and returns the body of each canonical
// section that could be located. Scoring uses it to decide keyword
// placement with the same rules the extractor applies.
func SectionBodies(rawText string) map[string]string {
	return sectionBodies(CleanText(rawText))
}

// sectionBodies returns the text body for each located section: the
// content between the end of its heading and the start of the next
// heading (or end of text).
func sectionBodies(text string) map[string]string {
	spans := locateSections(text)
	bodies := make(map[string]string, len(spans))
	for i, span := range spans {
		end := len(text)
		if i+1 < len(spans) {
			end = spans[i+1].start
		}
		bodies[span.section] = strings.TrimSpace(text[span.end:end])
	}
	return bodies
}

var blankLineRe = regexp.MustCompile(`\n\s*\n`)

// firstParagraph cuts a section body at the first blank line. The
// profile section terminates at a paragraph break even when no further
// heading follows.
func firstParagraph(body string) string {
	if loc := blankLineRe.FindStringIndex(body); loc != nil {
		return strings.TrimSpace(body[:loc[0]])
	}
	return strings.TrimSpace(body)
}

var listMarkerRe = regexp.MustCompile(`^[\s]*(?:[-*•·▪]|\d+[.)])\s*`)

// splitListItems turns a section body into individual items. Bullet
// markers take precedence; otherwise items split on newlines, then on
// commas or semicolons when the body is a single line.
func splitListItems(body string) []string {
	if body == "" {
		return nil
	}

	lines := strings.Split(body, "\n")
	var items []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = listMarkerRe.ReplaceAllString(line, "")
		if line != "" {
			items = append(items, line)
		}
	}

	// A single unmarked line is likely an inline comma/semicolon list.
	if len(items) == 1 && !isBulletLine(body) {
		parts := regexp.MustCompile(`[,;]`).Split(items[0], -1)
		if len(parts) > 1 {
			items = items[:0]
			for _, part := range parts {
				if part = strings.TrimSpace(part); part != "" {
					items = append(items, part)
				}
			}
		}
	}

	return items
}
