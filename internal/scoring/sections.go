package scoring

import (
	"math"
	"strings"

	"github.com/jonathan/cv-optimizer/internal/extraction"
	"github.com/jonathan/cv-optimizer/internal/types"
)

// Length score bands for section analysis.
const (
	sectionShortWords  = 50
	sectionMediumWords = 100
	sectionShortScore  = 20
	sectionMediumScore = 40
	sectionLongScore   = 60
	sectionKeywordMax  = 40
)

// Fixed feedback strings keyed to the band each section hit.
var sectionFeedback = map[string]map[string]string{
	"missing": {
		"profile":      "No profile or summary section found. Add a short professional summary.",
		"skills":       "No skills section found. List your technical and professional skills explicitly.",
		"experience":   "No experience section found. Describe your work history with dates and titles.",
		"education":    "No education section found. Include your degrees and institutions.",
		"achievements": "No achievements section found. Highlight measurable accomplishments.",
	},
	"short": {
		"profile":      "Profile is very brief. Expand it with your key strengths and goals.",
		"skills":       "Skills section is thin. Add more of the skills the role asks for.",
		"experience":   "Experience section is brief. Add responsibilities and outcomes per role.",
		"education":    "Education section is brief. Add courses or achievements where relevant.",
		"achievements": "Achievements section is brief. Quantify your results where possible.",
	},
	"medium": {
		"profile":      "Profile has reasonable length. Weave in more role-specific keywords.",
		"skills":       "Skills section is adequate. Align it more closely with the posting.",
		"experience":   "Experience section is adequate. Emphasize results matching the role.",
		"education":    "Education section is adequate. Surface relevant coursework.",
		"achievements": "Achievements section is adequate. Lead with the most relevant wins.",
	},
	"strong": {
		"profile":      "Profile is well developed and keyword-rich.",
		"skills":       "Skills section is comprehensive.",
		"experience":   "Experience section is detailed and relevant.",
		"education":    "Education section is complete.",
		"achievements": "Achievements section is strong.",
	},
}

// analyzeSections scores each canonical section by word-count band plus
// keyword overlap with the job keywords, clamped to 100.
func analyzeSections(cvText string, jobKeywords []string) map[string]types.SectionAnalysis {
	bodies := extraction.SectionBodies(cvText)
	result := make(map[string]types.SectionAnalysis, len(types.CanonicalSections))

	for _, name := range types.CanonicalSections {
		body, ok := bodies[name]
		if !ok || strings.TrimSpace(body) == "" {
			result[name] = types.SectionAnalysis{
				Score:    0,
				Feedback: sectionFeedback["missing"][name],
			}
			continue
		}

		words := len(strings.Fields(body))
		var lengthScore int
		var band string
		switch {
		case words < sectionShortWords:
			lengthScore, band = sectionShortScore, "short"
		case words < sectionMediumWords:
			lengthScore, band = sectionMediumScore, "medium"
		default:
			lengthScore, band = sectionLongScore, "strong"
		}

		keywordScore := 0
		if len(jobKeywords) > 0 {
			lower := strings.ToLower(body)
			matched := 0
			for _, kw := range jobKeywords {
				if strings.Contains(lower, kw) {
					matched++
				}
			}
			keywordScore = int(math.Round(float64(matched) / float64(len(jobKeywords)) * sectionKeywordMax))
		}

		result[name] = types.SectionAnalysis{
			Score:    clamp(lengthScore+keywordScore, 0, 100),
			Feedback: sectionFeedback[band][name],
		}
	}

	return result
}
