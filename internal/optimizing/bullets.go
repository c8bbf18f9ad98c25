package optimizing

import (
	"regexp"
	"sort"
)

// Bullet scoring bonuses.
const (
	bulletKeywordBonus    = 2
	bulletQuantifiedBonus = 3
	bulletLeadershipBonus = 2
	bulletInnovationBonus = 2
)

var (
	quantifiedRe = regexp.MustCompile(`(?i)\d+\s*%|\$\s?\d|increased|reduced|improved|grew|saved|doubled|accelerated|cut\b`)
	leadershipRe = regexp.MustCompile(`(?i)\b(led|managed|directed|coordinated|mentored|supervised|headed|chaired)\b`)
	innovationRe = regexp.MustCompile(`(?i)\b(created|designed|developed|launched|pioneered|initiated|invented|architected)\b`)
)

// rankBullets scores each candidate bullet for job relevance and keeps
// the top limit entries in descending score order.
func rankBullets(bullets []string, jobKeywords []string, limit int) []string {
	if len(bullets) == 0 {
		return []string{}
	}

	type scored struct {
		text  string
		score int
	}
	ranked := make([]scored, 0, len(bullets))
	for _, bullet := range bullets {
		ranked = append(ranked, scored{text: bullet, score: bulletScore(bullet, jobKeywords)})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]string, len(ranked))
	for i, s := range ranked {
		out[i] = s.text
	}
	return out
}

// bulletScore rewards job-keyword coverage, quantifiable results and
// leadership/innovation verbs.
func bulletScore(bullet string, jobKeywords []string) int {
	score := keywordHits(bullet, jobKeywords) * bulletKeywordBonus
	if quantifiedRe.MatchString(bullet) {
		score += bulletQuantifiedBonus
	}
	if leadershipRe.MatchString(bullet) {
		score += bulletLeadershipBonus
	}
	if innovationRe.MatchString(bullet) {
		score += bulletInnovationBonus
	}
	return score
}
