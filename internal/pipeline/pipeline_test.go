package pipeline

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-optimizer/internal/observability"
	"github.com/jonathan/cv-optimizer/internal/optimizing"
)

const sampleCV = `Jane Doe
jane.doe@example.com

Profile:
Backend engineer with a focus on distributed systems and Go services.

Skills:
- Go
- PostgreSQL
- Docker

Experience:
Senior Engineer 2019 - present
Built payment processing services in Go.

Education:
BSc Computer Science, Tech University, 2018`

const sampleJob = `Senior Backend Engineer

Required: Go, Kubernetes, PostgreSQL
5 years experience required.
Responsibilities include designing distributed services.`

func TestAnalyze_ProducesCompleteAnalysis(t *testing.T) {
	p := New(Options{})

	analysis, err := p.Analyze(context.Background(), sampleCV, sampleJob)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, analysis.Score, 50)
	assert.NotEmpty(t, analysis.Recommendations)
	assert.NotEmpty(t, analysis.SkillGap)
	assert.NotEmpty(t, analysis.DetailedAnalysis)
	assert.NotEmpty(t, analysis.Sections)
}

func TestAnalyze_ValidatesInputs(t *testing.T) {
	p := New(Options{})

	_, err := p.Analyze(context.Background(), "", sampleJob)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "cvText", ve.Field)

	_, err = p.Analyze(context.Background(), sampleCV, "")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "jobDescription", ve.Field)
}

func TestOptimize_ReturnsCVAndAnalysis(t *testing.T) {
	p := New(Options{Optimizer: optimizing.NewOptimizer(2026)})

	cv, analysis, err := p.Optimize(context.Background(), sampleCV, sampleJob)

	require.NoError(t, err)
	require.NotNil(t, cv)
	require.NotNil(t, analysis)
	assert.Equal(t, "Jane Doe", cv.Name)
	assert.LessOrEqual(t, len(cv.Skills.Technical), optimizing.MaxSkillsPerCategory)
	assert.GreaterOrEqual(t, analysis.Score, 50)
}

func TestOptimize_VerbosePrinterOutput(t *testing.T) {
	var buf bytes.Buffer
	p := New(Options{Printer: observability.NewPrinter(&buf)})

	_, _, err := p.Optimize(context.Background(), sampleCV, sampleJob)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "JOB MATCH ANALYSIS")
}
