package scoring

import (
	"math"
	"time"

	"github.com/jonathan/cv-optimizer/internal/keywords"
	"github.com/jonathan/cv-optimizer/internal/types"
)

// Scorer computes JobMatchAnalysis values. It holds only immutable
// configuration and is safe for concurrent use.
type Scorer struct {
	cfg *Config
}

// NewScorer creates a scorer; a nil config selects the defaults.
func NewScorer(cfg *Config) *Scorer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Scorer{cfg: cfg}
}

// currentYear resolves "present" date ranges.
func (s *Scorer) currentYear() int {
	if s.cfg.CurrentYear > 0 {
		return s.cfg.CurrentYear
	}
	return time.Now().Year()
}

// Score produces the full JobMatchAnalysis for one (cvText, jobText)
// pair. Pure function of its inputs given the constant tables.
func (s *Scorer) Score(cvText, jobText string) *types.JobMatchAnalysis {
	cvKeywords := keywords.Extract(cvText, false)
	jobKeywords := keywords.Extract(jobText, true)

	dims := types.DimensionalScores{
		SkillsMatch:         computeSkillsMatch(cvKeywords, jobKeywords),
		ExperienceMatch:     s.computeExperienceMatch(cvText, jobText),
		EducationMatch:      computeEducationMatch(cvText, jobText),
		IndustryFit:         computeIndustryFit(cvText, jobText),
		KeywordDensity:      computeKeywordDensity(cvText, jobKeywords),
		FormatCompatibility: computeFormatCompatibility(cvText),
		ContentRelevance:    computeContentRelevance(cvText, jobText),
	}
	dims.OverallCompatibility = s.overall(dims)

	matched, missing := analyzeKeywords(cvText, jobText, jobKeywords)

	analysis := &types.JobMatchAnalysis{
		Score:                max(s.cfg.ScoreFloor, dims.OverallCompatibility),
		MatchedKeywords:      matched,
		MissingKeywords:      missing,
		Dimensional:          dims,
		Sections:             analyzeSections(cvText, jobKeywords),
		ImprovementPotential: clamp(100-dims.OverallCompatibility, 0, 100),
	}
	analysis.Normalize()
	return analysis
}

// overall applies the fixed weight table to the seven sub-scores.
func (s *Scorer) overall(d types.DimensionalScores) int {
	w := s.cfg.Weights
	sum := w.Skills*float64(d.SkillsMatch) +
		w.Experience*float64(d.ExperienceMatch) +
		w.Education*float64(d.EducationMatch) +
		w.Industry*float64(d.IndustryFit) +
		w.Density*float64(d.KeywordDensity) +
		w.Format*float64(d.FormatCompatibility) +
		w.Relevance*float64(d.ContentRelevance)
	return clamp(int(math.Round(sum)), 0, 100)
}
