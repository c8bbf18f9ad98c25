// Package extraction turns raw CV text into a StructuredCV using ordered,
// heading-anchored regex rule chains. Extraction is best-effort: a section
// that cannot be located yields its empty default and never an error.
package extraction

import (
	"regexp"
	"strings"

	"github.com/jonathan/cv-optimizer/internal/types"
)

// maxFallbackProfileLines bounds the number of leading lines used as
// profile text when no profile heading matches.
const maxFallbackProfileLines = 5

// Extract parses raw CV text into a StructuredCV. It never fails; any
// section or sub-entity that cannot be located keeps its default value.
func Extract(rawText string) *types.StructuredCV {
	cv := types.NewStructuredCV()
	text := CleanText(rawText)
	if text == "" {
		cv.Name = fallbackName
		return cv
	}

	bodies := sectionBodies(text)

	cv.Name = extractName(text)
	cv.Contact = extractContact(text, bodies[sectionContact])

	if body, ok := bodies[sectionProfile]; ok {
		cv.Profile = strings.TrimSpace(strings.ReplaceAll(firstParagraph(body), "\n", " "))
	} else {
		cv.Profile = fallbackProfile(text, cv.Name)
	}
	cv.Subheader = extractSubheader(text, cv.Name)

	cv.Skills = splitSkills(bodies[sectionSkills])
	cv.Experience = parseExperience(bodies[sectionExperience])
	cv.Education = parseEducation(bodies[sectionEducation])
	cv.Achievements = stringList(bodies[sectionAchievements])
	cv.Goals = stringList(bodies[sectionGoals])
	cv.Languages = stringList(bodies[sectionLanguages])

	return cv
}

// fallbackProfile treats the first 1-5 non-empty lines as profile text,
// skipping the name line and contact-looking lines.
func fallbackProfile(text, name string) string {
	var kept []string
	for _, line := range nonEmptyLines(text) {
		if line == name || emailRe.MatchString(line) || phoneRe.MatchString(line) {
			continue
		}
		kept = append(kept, line)
		if len(kept) == maxFallbackProfileLines {
			break
		}
	}
	return strings.Join(kept, " ")
}

// extractSubheader returns the line immediately following the name when
// it looks like a professional tagline rather than contact info.
func extractSubheader(text, name string) string {
	lines := nonEmptyLines(text)
	for i, line := range lines {
		if line != name {
			continue
		}
		if i+1 < len(lines) {
			next := lines[i+1]
			if !emailRe.MatchString(next) && !phoneRe.MatchString(next) && len(next) <= 80 {
				return next
			}
		}
		break
	}
	return ""
}

// stringList converts a section body into a trimmed item list.
func stringList(body string) []string {
	items := splitListItems(body)
	if items == nil {
		return []string{}
	}
	return items
}

// technicalIndicatorRe classifies a skill string as technical when no
// explicit sub-heading split is available.
var technicalIndicatorRe = regexp.MustCompile(`(?i)\b(software|programming|engineer|develop|code|python|java|javascript|typescript|golang|sql|nosql|database|cloud|aws|azure|gcp|docker|kubernetes|linux|api|rest|graphql|devops|ci/cd|git|testing|ml|ai|data|analytics|security|network|html|css|react|angular|node)\b`)

var (
	technicalSubheadRe    = regexp.MustCompile(`(?im)^\s*technical(?:\s+skills)?\s*:?[ \t]*`)
	professionalSubheadRe = regexp.MustCompile(`(?im)^\s*(?:professional|soft|interpersonal)(?:\s+skills)?\s*:?[ \t]*`)
)

// splitSkills divides a skills section into technical and professional
// lists. Explicit sub-headings win; otherwise each item is classified by
// a technical-indicator pattern.
func splitSkills(body string) types.Skills {
	skills := types.Skills{Technical: []string{}, Professional: []string{}}
	if body == "" {
		return skills
	}

	techLoc := technicalSubheadRe.FindStringIndex(body)
	profLoc := professionalSubheadRe.FindStringIndex(body)
	if techLoc != nil && profLoc != nil {
		var techBody, profBody string
		if techLoc[0] < profLoc[0] {
			techBody = body[techLoc[1]:profLoc[0]]
			profBody = body[profLoc[1]:]
		} else {
			profBody = body[profLoc[1]:techLoc[0]]
			techBody = body[techLoc[1]:]
		}
		skills.Technical = stringList(strings.TrimSpace(techBody))
		skills.Professional = stringList(strings.TrimSpace(profBody))
		return skills
	}

	for _, item := range splitListItems(body) {
		if technicalIndicatorRe.MatchString(item) {
			skills.Technical = append(skills.Technical, item)
		} else {
			skills.Professional = append(skills.Professional, item)
		}
	}
	return skills
}
