package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-optimizer/internal/keywords"
)

func TestAnalyzeKeywords_SubstringCountsAsPresent(t *testing.T) {
	cvText := "Jane maintains PostgreSQL databases and tunes slow queries."
	jobText := "Requires: SQL experience and database tuning."
	jobKeywords := keywords.Extract(jobText, true)

	matched, missing := analyzeKeywords(cvText, jobText, jobKeywords)

	var missingSet []string
	for _, mk := range missing {
		missingSet = append(missingSet, mk.Keyword)
	}
	// "sql" sits inside "PostgreSQL" and "database" inside "databases";
	// neither may be reported as missing.
	assert.NotContains(t, missingSet, "sql")
	assert.NotContains(t, missingSet, "database")

	var matchedSet []string
	for _, km := range matched {
		matchedSet = append(matchedSet, km.Keyword)
		assert.GreaterOrEqual(t, km.Frequency, 1, km.Keyword)
	}
	assert.Contains(t, matchedSet, "sql")
	assert.Contains(t, matchedSet, "database")
}

func TestAnalyzeKeywords_MissingKeywordImportance(t *testing.T) {
	cvText := "I write Go services and Python tools."
	jobText := "Kubernetes experience is required. We value teamwork."
	jobKeywords := keywords.Extract(jobText, true)
	require.Equal(t, "kubernetes", jobKeywords[0])

	_, missing := analyzeKeywords(cvText, jobText, jobKeywords)

	require.NotEmpty(t, missing)
	top := missing[0]
	assert.Equal(t, "kubernetes", top.Keyword)
	// Job frequency (15) + top list position (30) + required context (25).
	assert.Equal(t, 70, top.Importance)
	assert.Equal(t, "skills section", top.SuggestedPlacement)
}

func TestAnalyzeKeywords_LowImportanceDropped(t *testing.T) {
	cvText := "I write Go services."
	jobText := "Kubernetes experience is required. We value teamwork."
	jobKeywords := keywords.Extract(jobText, true)

	_, missing := analyzeKeywords(cvText, jobText, jobKeywords)

	for _, mk := range missing {
		assert.Greater(t, mk.Importance, importanceCutoff, mk.Keyword)
		assert.NotEqual(t, "teamwork", mk.Keyword, "low-importance keywords are dropped")
	}
}

func TestCountOccurrences(t *testing.T) {
	assert.Equal(t, 1, countOccurrences("Go and Golang", "go"), "word boundaries exclude partial hits")
	assert.Equal(t, 3, countOccurrences("SQL sql Sql", "sql"))
	assert.Equal(t, 0, countOccurrences("", "sql"))
}

func TestKeywordPlacement(t *testing.T) {
	sections := map[string]string{
		"skills":     "go, python, postgresql",
		"experience": "built billing services in go",
	}

	assert.Equal(t, "skills", keywordPlacement("python", sections))
	assert.Equal(t, "experience", keywordPlacement("billing", sections))
	assert.Equal(t, "various", keywordPlacement("rust", sections))
}
