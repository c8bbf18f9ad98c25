// Package scoring computes the multi-dimensional compatibility score
// between CV text and a job posting. Scoring is a pure function of its
// two inputs: given the same constant tables it is fully deterministic.
package scoring

// Weights holds the fixed aggregation weights for the overall
// compatibility score. The values are preserved business heuristics;
// they always sum to 1.0.
type Weights struct {
	Skills     float64
	Experience float64
	Education  float64
	Industry   float64
	Density    float64
	Format     float64
	Relevance  float64
}

// DefaultWeights returns the standard weight table.
func DefaultWeights() Weights {
	return Weights{
		Skills:     0.25,
		Experience: 0.20,
		Education:  0.15,
		Industry:   0.10,
		Density:    0.15,
		Format:     0.05,
		Relevance:  0.10,
	}
}

// Config collects the overridable scoring constants.
type Config struct {
	Weights Weights
	// ScoreFloor is the minimum display score; the reported match is
	// never allowed to appear below it.
	ScoreFloor int
	// CurrentYear resolves "present" in experience date ranges. Zero
	// means use the wall-clock year.
	CurrentYear int
}

// DefaultConfig returns the standard scoring configuration.
func DefaultConfig() *Config {
	return &Config{
		Weights:    DefaultWeights(),
		ScoreFloor: 50,
	}
}

// placementBonus is the fixed relevance bonus per keyword placement.
var placementBonus = map[string]int{
	"skills":       25,
	"experience":   30,
	"profile":      20,
	"achievements": 15,
	"education":    10,
}

// defaultPlacementBonus applies when the keyword sits outside every
// canonical section.
const defaultPlacementBonus = 5

// industryKeywords is the fixed industry fit table. Each keyword found
// in both texts adds industryHitBonus; each found only in the job text
// subtracts industryMissPenalty.
var industryKeywords = map[string][]string{
	"technology":    {"software", "developer", "engineering", "cloud", "data", "agile", "api", "platform"},
	"finance":       {"banking", "investment", "financial", "trading", "audit", "compliance", "risk", "accounting"},
	"healthcare":    {"clinical", "patient", "medical", "health", "pharmaceutical", "care", "hospital", "nursing"},
	"marketing":     {"brand", "campaign", "seo", "content", "advertising", "social", "analytics", "engagement"},
	"manufacturing": {"production", "assembly", "quality", "lean", "supply", "logistics", "safety", "operations"},
	"consulting":    {"client", "stakeholder", "strategy", "advisory", "engagement", "delivery", "transformation", "workshop"},
}

const (
	industryHitBonus    = 20
	industryMissPenalty = 10
)

// degreeScores maps a degree level to its fixed education score.
var degreeScores = map[string]int{
	"phd":       100,
	"masters":   80,
	"bachelors": 60,
	"associate": 40,
}

// defaultEducationScore applies when the job states no degree requirement.
const defaultEducationScore = 80

// contentRelevance phrase-category weights.
var relevanceCategoryWeights = map[string]float64{
	"required":         0.4,
	"responsibilities": 0.3,
	"preferred":        0.2,
	"benefits":         0.1,
}

// clamp bounds v to [lo,hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clampF bounds v to [lo,hi].
func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
