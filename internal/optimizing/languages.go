package optimizing

import (
	"regexp"
	"strings"
)

// knownLanguages are the spoken languages recognized in job postings.
var knownLanguages = []string{
	"english", "spanish", "french", "german", "italian", "portuguese",
	"dutch", "mandarin", "cantonese", "japanese", "korean", "arabic",
	"russian", "hindi", "polish", "swedish", "norwegian", "danish",
}

var languageRequirementRe = regexp.MustCompile(`(?i)\b(fluent|fluency|proficien\w*|native|bilingual|speak\w*|language)\b`)

// optimizeLanguages moves job-required languages to the front of the
// list and upgrades their stated level to Proficient when the posting
// explicitly asks for a language skill.
func optimizeLanguages(langs []string, jobText string) []string {
	if len(langs) == 0 {
		return []string{}
	}

	required := requiredLanguages(jobText)
	if len(required) == 0 {
		return langs
	}

	front := make([]string, 0, len(langs))
	rest := make([]string, 0, len(langs))
	for _, lang := range langs {
		name := languageName(lang)
		if name != "" && required[name] {
			front = append(front, upgradeLevel(lang))
		} else {
			rest = append(rest, lang)
		}
	}
	return append(front, rest...)
}

// requiredLanguages returns the known languages the posting names near a
// language-requirement phrase.
func requiredLanguages(jobText string) map[string]bool {
	lower := strings.ToLower(jobText)
	if !languageRequirementRe.MatchString(lower) {
		return nil
	}
	required := make(map[string]bool)
	for _, lang := range knownLanguages {
		if strings.Contains(lower, lang) {
			required[lang] = true
		}
	}
	return required
}

// languageName extracts the known language named in an entry such as
// "Spanish (Conversational)", or "" when none is recognized.
func languageName(entry string) string {
	lower := strings.ToLower(entry)
	for _, lang := range knownLanguages {
		if strings.Contains(lower, lang) {
			return lang
		}
	}
	return ""
}

var levelRe = regexp.MustCompile(`(?i)\b(basic|beginner|elementary|intermediate|conversational|limited)\b`)

// upgradeLevel raises a sub-proficient stated level to Proficient. Entries
// already at Fluent or Native are left alone.
func upgradeLevel(entry string) string {
	if !levelRe.MatchString(entry) {
		return entry
	}
	return levelRe.ReplaceAllString(entry, "Proficient")
}
