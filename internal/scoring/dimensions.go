package scoring

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jonathan/cv-optimizer/internal/extraction"
	"github.com/jonathan/cv-optimizer/internal/keywords"
)

// computeSkillsMatch returns the ratio of job keywords that also appear,
// exactly or as a substring in either direction, among CV keywords.
func computeSkillsMatch(cvKeywords, jobKeywords []string) int {
	if len(jobKeywords) == 0 {
		return 100
	}
	matched := 0
	for _, jobKw := range jobKeywords {
		for _, cvKw := range cvKeywords {
			if strings.Contains(cvKw, jobKw) || strings.Contains(jobKw, cvKw) {
				matched++
				break
			}
		}
	}
	return clamp(int(math.Round(float64(matched)/float64(len(jobKeywords))*100)), 0, 100)
}

var requiredYearsRe = regexp.MustCompile(`(?i)(\d+)\+?\s*years?(?:\s+of)?\s+experience`)

// yearsPoints and titlePoints split the experience score into its two
// halves per the scoring table.
const (
	yearsPoints        = 50
	titleMatchPoints   = 50
	titlePartialPoints = 25
)

// computeExperienceMatch awards up to 50 points for years of experience
// relative to the job's stated requirement and 50 or 25 points for role
// title overlap.
func (s *Scorer) computeExperienceMatch(cvText, jobText string) int {
	cv := extraction.Extract(cvText)

	// Years component.
	actualYears := extraction.ExperienceYears(cv.Experience, s.currentYear())
	yearsScore := float64(yearsPoints)
	if m := requiredYearsRe.FindStringSubmatch(jobText); m != nil {
		required, _ := strconv.Atoi(m[1])
		if required > 0 {
			ratio := clampF(float64(actualYears)/float64(required), 0, 1)
			yearsScore = ratio * yearsPoints
		}
	}

	// Title component.
	titleScore := titlePartialPoints
	jobTitles := jobTitleWords(jobText)
	for _, entry := range cv.Experience {
		if titleOverlaps(entry.Title, jobTitles) {
			titleScore = titleMatchPoints
			break
		}
	}

	return clamp(int(math.Round(yearsScore))+titleScore, 0, 100)
}

var jobTitleLineRe = regexp.MustCompile(`(?im)^\s*(?:position|role|title|job title)\s*:\s*(.+)$`)

// jobTitleWords collects candidate role-title words from the job text:
// an explicit "Position:" line when present, otherwise the first line.
func jobTitleWords(jobText string) map[string]bool {
	var candidate string
	if m := jobTitleLineRe.FindStringSubmatch(jobText); m != nil {
		candidate = m[1]
	} else {
		for _, line := range strings.Split(jobText, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				candidate = line
				break
			}
		}
	}

	words := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(candidate)) {
		word = strings.Trim(word, ".,:;()")
		if len(word) > 2 {
			words[word] = true
		}
	}
	return words
}

// titleOverlaps reports whether any significant word of an experience
// title appears among the job title words.
func titleOverlaps(title string, jobTitles map[string]bool) bool {
	for _, word := range strings.Fields(strings.ToLower(title)) {
		word = strings.Trim(word, ".,:;()")
		if len(word) > 2 && jobTitles[word] {
			return true
		}
	}
	return false
}

// degreeLevelRes detect degree levels in descending rank order.
var degreeLevelRes = []struct {
	level string
	re    *regexp.Regexp
}{
	{"phd", regexp.MustCompile(`(?i)\b(ph\.?\s?d|doctor(?:ate|al))\b`)},
	{"masters", regexp.MustCompile(`(?i)\b(master'?s?|m\.?b\.?a|m\.?sc?)\b`)},
	{"bachelors", regexp.MustCompile(`(?i)\b(bachelor'?s?|b\.?sc?|b\.?a\b|b\.?eng|undergraduate degree)\b`)},
	{"associate", regexp.MustCompile(`(?i)\bassociate'?s?(?:\s+degree)?\b`)},
}

// detectDegreeLevel returns the highest degree level named in text, or
// empty when none is detected.
func detectDegreeLevel(text string) string {
	for _, dl := range degreeLevelRes {
		if dl.re.MatchString(text) {
			return dl.level
		}
	}
	return ""
}

// computeEducationMatch compares the job's required degree level against
// the CV's highest detected level using the fixed score table. Full
// credit when the CV level meets or exceeds the requirement, otherwise a
// proportional partial score. Defaults when the job states nothing.
func computeEducationMatch(cvText, jobText string) int {
	required := detectDegreeLevel(jobText)
	if required == "" {
		return defaultEducationScore
	}
	requiredScore := degreeScores[required]

	cvLevel := detectDegreeLevel(cvText)
	if cvLevel == "" {
		return 0
	}
	cvScore := degreeScores[cvLevel]

	if cvScore >= requiredScore {
		return 100
	}
	return clamp(int(math.Round(float64(cvScore)/float64(requiredScore)*100)), 0, 100)
}

// computeIndustryFit scores each industry keyword table against the two
// texts and reports the best-scoring industry, clamped to [0,100].
func computeIndustryFit(cvText, jobText string) int {
	cvLower := strings.ToLower(cvText)
	jobLower := strings.ToLower(jobText)

	best := 0
	for _, terms := range industryKeywords {
		score := 0
		for _, term := range terms {
			inCV := strings.Contains(cvLower, term)
			inJob := strings.Contains(jobLower, term)
			switch {
			case inCV && inJob:
				score += industryHitBonus
			case inJob:
				score -= industryMissPenalty
			}
		}
		if score > best {
			best = score
		}
	}
	return clamp(best, 0, 100)
}

// computeKeywordDensity scores the ratio of job-keyword occurrences to
// total CV word count. The sweet spot is 1-3%; thinner CVs score down
// proportionally and keyword-stuffed CVs are penalized.
func computeKeywordDensity(cvText string, jobKeywords []string) int {
	words := len(strings.Fields(cvText))
	if words == 0 || len(jobKeywords) == 0 {
		return 0
	}

	freq := keywords.Frequencies(cvText)
	occurrences := 0
	for _, kw := range jobKeywords {
		occurrences += freq[kw]
	}

	density := float64(occurrences) / float64(words) * 100
	switch {
	case density >= 1 && density <= 3:
		return 100
	case density < 1:
		return clamp(int(math.Round(density*100)), 0, 100)
	default:
		return clamp(int(math.Round(300/density)), 0, 100)
	}
}

var (
	formatHeadingRe = regexp.MustCompile(`(?im)^\s*(experience|education|skills|profile|summary|objective|achievements|languages)\b`)
	formatBulletRe  = regexp.MustCompile(`(?m)^\s*[-*•·]\s+`)
	formatDateRe    = regexp.MustCompile(`(?i)\b(?:19|20)\d{2}\s*[-–—]\s*(?:(?:19|20)\d{2}|present)\b`)
)

// Ideal CV word-count band for format scoring.
const (
	formatMinWords = 300
	formatMaxWords = 1000
)

// computeFormatCompatibility is an additive score from the presence of
// section headers (+30), bullet points (+20), consistent date ranges
// (+20) and CV length within the ideal band (+30, partial outside it).
func computeFormatCompatibility(cvText string) int {
	score := 0
	if formatHeadingRe.MatchString(cvText) {
		score += 30
	}
	if formatBulletRe.MatchString(cvText) {
		score += 20
	}
	if formatDateRe.MatchString(cvText) {
		score += 20
	}

	words := len(strings.Fields(cvText))
	switch {
	case words >= formatMinWords && words <= formatMaxWords:
		score += 30
	case words > 0 && words < formatMinWords:
		score += int(math.Round(30 * float64(words) / formatMinWords))
	case words > formatMaxWords:
		score += int(math.Round(30 * formatMaxWords / float64(words)))
	}

	return clamp(score, 0, 100)
}

// requirementSectionRes locate the job-posting sections used for the
// content relevance score.
var requirementSectionRes = map[string]*regexp.Regexp{
	"required":         regexp.MustCompile(`(?im)^\s*(?:requirements?|qualifications?|what you(?:'ll)? need|must have)\s*:?[ \t]*$`),
	"responsibilities": regexp.MustCompile(`(?im)^\s*(?:responsibilities|duties|what you(?:'ll)? do|the role)\s*:?[ \t]*$`),
	"preferred":        regexp.MustCompile(`(?im)^\s*(?:preferred|nice to have|bonus|desirable)(?:\s+qualifications?)?\s*:?[ \t]*$`),
	"benefits":         regexp.MustCompile(`(?im)^\s*(?:benefits|perks|what we offer)\s*:?[ \t]*$`),
}

// computeContentRelevance measures how many job requirement phrases,
// de-markered, appear verbatim in the CV text, weighted by category.
func computeContentRelevance(cvText, jobText string) int {
	cvLower := strings.ToLower(cvText)

	weightedTotal := 0.0
	weightedMatched := 0.0
	for category, re := range requirementSectionRes {
		phrases := sectionPhrases(jobText, re)
		if len(phrases) == 0 {
			continue
		}
		weight := relevanceCategoryWeights[category]
		matched := 0
		for _, phrase := range phrases {
			if strings.Contains(cvLower, strings.ToLower(phrase)) {
				matched++
			}
		}
		weightedTotal += weight
		weightedMatched += weight * float64(matched) / float64(len(phrases))
	}

	if weightedTotal == 0 {
		return 0
	}
	return clamp(int(math.Round(weightedMatched/weightedTotal*100)), 0, 100)
}

var phraseMarkerRe = regexp.MustCompile(`^\s*(?:[-*•·]|\d+[.)])\s*`)

// sectionPhrases returns the de-markered phrases listed under a job
// section heading, up to the next blank line or heading-like line.
func sectionPhrases(jobText string, headingRe *regexp.Regexp) []string {
	loc := headingRe.FindStringIndex(jobText)
	if loc == nil {
		return nil
	}

	var phrases []string
	rest := jobText[loc[1]:]
	for _, line := range strings.Split(rest, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(phrases) > 0 {
				break
			}
			continue
		}
		// A new heading ends the section.
		if strings.HasSuffix(trimmed, ":") && !phraseMarkerRe.MatchString(line) {
			break
		}
		phrase := phraseMarkerRe.ReplaceAllString(line, "")
		if phrase = strings.TrimSpace(phrase); phrase != "" {
			phrases = append(phrases, phrase)
		}
	}
	return phrases
}
