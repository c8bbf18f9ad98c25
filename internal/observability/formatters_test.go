package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cv-optimizer/internal/types"
)

func TestPrintStructuredCV(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	cv := types.NewStructuredCV()
	cv.Name = "Jane Doe"
	cv.Contact.Email = "jane@example.com"
	cv.Skills.Technical = []string{"Go", "PostgreSQL"}

	p.PrintStructuredCV(cv)

	out := buf.String()
	assert.Contains(t, out, "EXTRACTED CV")
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "Go")
}

func TestPrintAnalysis(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	analysis := &types.JobMatchAnalysis{
		Score: 64,
		Dimensional: types.DimensionalScores{
			SkillsMatch:          70,
			OverallCompatibility: 64,
		},
		MissingKeywords: []types.MissingKeyword{
			{Keyword: "kubernetes", Importance: 80},
		},
	}

	p.PrintAnalysis(analysis)

	out := buf.String()
	assert.Contains(t, out, "JOB MATCH ANALYSIS")
	assert.Contains(t, out, "64/100")
	assert.Contains(t, out, "kubernetes")
}

func TestPrintNilValues(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintStructuredCV(nil)
	p.PrintAnalysis(nil)
	p.PrintRecommendations(nil)

	assert.Empty(t, buf.String())
}
