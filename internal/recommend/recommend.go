// Package recommend turns a JobMatchAnalysis into human-readable
// guidance: an ordered recommendation list, a skill-gap narrative and a
// short detailed-analysis paragraph.
package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/cv-optimizer/internal/types"
)

// Score bands for the opening recommendation.
const (
	bandLow = 50
	bandMid = 70

	// Missing keywords above this importance are called out as critical.
	criticalImportance = 70

	// Sections scoring below this get a dedicated feedback line.
	weakSectionScore = 50
)

// Generate fills the narrative fields of an analysis in place and
// returns it. Recommendations are ordered: score-band opener first,
// then critical keywords, then weak sections.
func Generate(analysis *types.JobMatchAnalysis) *types.JobMatchAnalysis {
	analysis.Recommendations = recommendations(analysis)
	analysis.SkillGap = skillGap(analysis.MissingKeywords)
	analysis.DetailedAnalysis = detailedAnalysis(analysis)
	return analysis
}

func recommendations(analysis *types.JobMatchAnalysis) []string {
	recs := []string{openingMessage(analysis.Dimensional.OverallCompatibility)}

	if critical := criticalMissing(analysis.MissingKeywords); len(critical) > 0 {
		recs = append(recs, fmt.Sprintf(
			"Address critical missing keywords: %s. These appear central to the role.",
			strings.Join(critical, ", ")))
	}

	for _, name := range types.CanonicalSections {
		section, ok := analysis.Sections[name]
		if !ok || section.Score >= weakSectionScore {
			continue
		}
		recs = append(recs, section.Feedback)
	}
	return recs
}

func openingMessage(overall int) string {
	switch {
	case overall < bandLow:
		return "Your CV needs significant improvement to match this role. Focus on the missing keywords and weak sections below."
	case overall < bandMid:
		return "Your CV shows moderate alignment with this role. Targeted changes to a few sections will raise your match."
	default:
		return "Your CV is well-aligned with this role. Minor adjustments will polish the remaining gaps."
	}
}

// criticalMissing returns the keywords whose importance exceeds the
// critical threshold, highest first.
func criticalMissing(missing []types.MissingKeyword) []string {
	var critical []types.MissingKeyword
	for _, mk := range missing {
		if mk.Importance > criticalImportance {
			critical = append(critical, mk)
		}
	}
	sort.SliceStable(critical, func(i, j int) bool {
		return critical[i].Importance > critical[j].Importance
	})
	out := make([]string, len(critical))
	for i, mk := range critical {
		out[i] = mk.Keyword
	}
	return out
}

// detailedAnalysis summarizes the dimensional scores in one paragraph,
// naming the strongest and weakest dimension.
func detailedAnalysis(analysis *types.JobMatchAnalysis) string {
	d := analysis.Dimensional
	dims := []struct {
		name  string
		score int
	}{
		{"skills match", d.SkillsMatch},
		{"experience match", d.ExperienceMatch},
		{"education match", d.EducationMatch},
		{"industry fit", d.IndustryFit},
		{"keyword density", d.KeywordDensity},
		{"format compatibility", d.FormatCompatibility},
		{"content relevance", d.ContentRelevance},
	}
	strongest, weakest := dims[0], dims[0]
	for _, dim := range dims[1:] {
		if dim.score > strongest.score {
			strongest = dim
		}
		if dim.score < weakest.score {
			weakest = dim
		}
	}

	return fmt.Sprintf(
		"Overall compatibility is %d/100. The strongest dimension is %s (%d) and the weakest is %s (%d). "+
			"%d job keywords were found in the CV and %d are missing.",
		d.OverallCompatibility, strongest.name, strongest.score, weakest.name, weakest.score,
		len(analysis.MatchedKeywords), len(analysis.MissingKeywords))
}
