package optimizing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-optimizer/internal/types"
)

func TestOptimize_EnforcesSectionLimits(t *testing.T) {
	cv := types.NewStructuredCV()
	for i := 0; i < 25; i++ {
		cv.Skills.Technical = append(cv.Skills.Technical, fmt.Sprintf("skill-%d", i))
		cv.Achievements = append(cv.Achievements, fmt.Sprintf("achievement %d", i))
		cv.Goals = append(cv.Goals, fmt.Sprintf("goal %d", i))
	}

	out := NewOptimizer(2026).Optimize(cv, "Looking for an engineer.", []string{"engineer"})

	assert.LessOrEqual(t, len(out.Skills.Technical), MaxSkillsPerCategory)
	assert.LessOrEqual(t, len(out.Achievements), MaxAchievements)
	assert.LessOrEqual(t, len(out.Goals), MaxGoals)
}

func TestOptimize_DoesNotMutateInput(t *testing.T) {
	cv := types.NewStructuredCV()
	cv.Profile = "Backend developer."
	cv.Achievements = []string{"a", "b", "c", "d", "e", "f"}

	_ = NewOptimizer(2026).Optimize(cv, "Required: kubernetes, terraform", []string{"kubernetes"})

	assert.Equal(t, "Backend developer.", cv.Profile)
	assert.Len(t, cv.Achievements, 6)
}

func TestOptimizeProfile_SynthesizesWhenEmpty(t *testing.T) {
	got := optimizeProfile("", nil, []string{"python", "aws", "docker"})

	assert.Contains(t, got, "python")
	assert.Contains(t, got, "aws")
	assert.Contains(t, got, "docker")
}

func TestOptimizeProfile_AppendsMissingRequirements(t *testing.T) {
	profile := "Seasoned engineer with a background in distributed systems."
	got := optimizeProfile(profile, []string{"kubernetes", "terraform"}, nil)

	assert.Contains(t, got, profile)
	assert.Contains(t, got, "kubernetes")
	assert.Contains(t, got, "terraform")
}

func TestOptimizeProfile_AppendsAtMostThree(t *testing.T) {
	reqs := []string{"one", "two", "three", "four", "five"}
	got := optimizeProfile("Engineer.", reqs, nil)

	assert.NotContains(t, got, "four")
	assert.NotContains(t, got, "five")
}

func TestRequirementPhrases_SplitsListSeparators(t *testing.T) {
	job := "Required: Python, Kubernetes and Terraform\nNice to have: Go"
	got := requirementPhrases(job)

	require.NotEmpty(t, got)
	assert.Contains(t, got, "Python")
	assert.Contains(t, got, "Kubernetes")
	assert.Contains(t, got, "Terraform")
}

func TestOptimizeSkillList_AddsUnrepresentedRequirements(t *testing.T) {
	got := optimizeSkillList([]string{"Go", "PostgreSQL"}, []string{"Kubernetes", "postgresql"}, []string{"kubernetes"})

	assert.Contains(t, got, "Kubernetes")
	// postgresql is already represented by PostgreSQL and must not duplicate.
	count := 0
	for _, s := range got {
		if s == "PostgreSQL" || s == "postgresql" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestOptimizeSkillList_RanksJobRelevantFirst(t *testing.T) {
	got := optimizeSkillList([]string{"Photoshop", "Kubernetes"}, nil, []string{"kubernetes"})

	require.Len(t, got, 2)
	assert.Equal(t, "Kubernetes", got[0])
}

func TestRankBullets_PrefersQuantifiedResults(t *testing.T) {
	bullets := []string{
		"Attended weekly meetings",
		"Reduced deployment time by 40% using kubernetes",
	}
	got := rankBullets(bullets, []string{"kubernetes"}, 2)

	require.Len(t, got, 2)
	assert.Equal(t, "Reduced deployment time by 40% using kubernetes", got[0])
}

func TestRankBullets_TruncatesToLimit(t *testing.T) {
	bullets := []string{"a", "b", "c", "d"}
	got := rankBullets(bullets, nil, 3)

	assert.Len(t, got, 3)
}

func TestOptimizeLanguages_PromotesRequiredLanguage(t *testing.T) {
	langs := []string{"English (Native)", "Spanish (Basic)"}
	job := "Fluency in Spanish is required for this role."

	got := optimizeLanguages(langs, job)

	require.Len(t, got, 2)
	assert.Equal(t, "Spanish (Proficient)", got[0])
	assert.Equal(t, "English (Native)", got[1])
}

func TestOptimizeLanguages_NoRequirementLeavesOrder(t *testing.T) {
	langs := []string{"English (Native)", "German (Basic)"}
	got := optimizeLanguages(langs, "A job about software.")

	assert.Equal(t, langs, got)
}

func TestOptimizeEducation_SortsByRelevanceAndRecency(t *testing.T) {
	entries := []types.EducationEntry{
		{Degree: "BA History", Institution: "Old College", Year: "2005"},
		{Degree: "MSc Computer Science", Institution: "Tech University", Year: "2023", GPA: "3.8"},
	}

	o := NewOptimizer(2026)
	got := o.optimizeEducation(entries, nil, []string{"computer", "science"})

	require.Len(t, got, 2)
	assert.Equal(t, "MSc Computer Science", got[0].Degree)
}

func TestOptimizeEducation_SynthesizesCourses(t *testing.T) {
	entries := []types.EducationEntry{{Degree: "BSc Mathematics", Year: "2020"}}

	got := NewOptimizer(2026).optimizeEducation(entries, nil, []string{"statistics", "python", "modeling", "extra"})

	require.Len(t, got, 1)
	assert.Len(t, got[0].RelevantCourses, MaxSynthesizedCourses)
	assert.Contains(t, got[0].RelevantCourses[0], "Statistics")
}

func TestEducationScore_GPABonuses(t *testing.T) {
	base := types.EducationEntry{Degree: "BSc", Year: "2024"}
	high := base
	high.GPA = "GPA: 3.9"
	low := base
	low.GPA = "GPA: 2.1"

	assert.Greater(t, educationScore(high, nil, nil, 2026), educationScore(low, nil, nil, 2026))
}
