package types

// Canonical placement values for keyword matches.
const (
	PlacementProfile      = "profile"
	PlacementSkills       = "skills"
	PlacementExperience   = "experience"
	PlacementAchievements = "achievements"
	PlacementEducation    = "education"
	PlacementVarious      = "various"
)

// KeywordMatch is a job-relevant term found in the CV.
type KeywordMatch struct {
	Keyword   string `json:"keyword"`
	Relevance int    `json:"relevance"` // 0-100
	Frequency int    `json:"frequency"` // occurrences in CV text, >= 1
	Placement string `json:"placement"` // one of the Placement* constants
}

// MissingKeyword is a job-relevant term absent from the CV.
type MissingKeyword struct {
	Keyword            string `json:"keyword"`
	Importance         int    `json:"importance"` // 0-100
	SuggestedPlacement string `json:"suggested_placement"`
}

// DimensionalScores holds the seven weighted sub-scores plus their
// aggregate. Each field is an integer in [0,100]; OverallCompatibility
// is the fixed weighted sum of the other seven.
type DimensionalScores struct {
	SkillsMatch          int `json:"skills_match"`
	ExperienceMatch      int `json:"experience_match"`
	EducationMatch       int `json:"education_match"`
	IndustryFit          int `json:"industry_fit"`
	KeywordDensity       int `json:"keyword_density"`
	FormatCompatibility  int `json:"format_compatibility"`
	ContentRelevance     int `json:"content_relevance"`
	OverallCompatibility int `json:"overall_compatibility"`
}

// SectionAnalysis is the per-section score and feedback pair.
type SectionAnalysis struct {
	Score    int    `json:"score"` // 0-100
	Feedback string `json:"feedback"`
}

// CanonicalSections lists the sections scored by section analysis,
// in display order.
var CanonicalSections = []string{
	PlacementProfile,
	PlacementSkills,
	PlacementExperience,
	PlacementEducation,
	PlacementAchievements,
}

// JobMatchAnalysis aggregates everything the scorer produces for one
// (cvText, jobText) pair. It is created fresh per request and never
// persists beyond the response unless explicitly stored.
type JobMatchAnalysis struct {
	Score                int                        `json:"score"` // display score, >= 50 floor applied
	MatchedKeywords      []KeywordMatch             `json:"matched_keywords"`
	MissingKeywords      []MissingKeyword           `json:"missing_keywords"`
	Dimensional          DimensionalScores          `json:"dimensional_scores"`
	Sections             map[string]SectionAnalysis `json:"section_analysis"`
	DetailedAnalysis     string                     `json:"detailed_analysis"`
	SkillGap             string                     `json:"skill_gap"`
	Recommendations      []string                   `json:"recommendations"`
	ImprovementPotential int                        `json:"improvement_potential"` // roughly 100 - overall
}

// Normalize replaces nil sequence and map fields with empty values so
// encoded responses never contain null collections.
func (a *JobMatchAnalysis) Normalize() {
	if a.MatchedKeywords == nil {
		a.MatchedKeywords = []KeywordMatch{}
	}
	if a.MissingKeywords == nil {
		a.MissingKeywords = []MissingKeyword{}
	}
	if a.Sections == nil {
		a.Sections = map[string]SectionAnalysis{}
	}
	if a.Recommendations == nil {
		a.Recommendations = []string{}
	}
}
