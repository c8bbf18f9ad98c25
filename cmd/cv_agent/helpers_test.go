package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-optimizer/internal/config"
)

func TestValidateInputSources(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		wantErr string
	}{
		{"no cv source", config.Config{Job: "job.txt"}, "--cv or --cv-url"},
		{"both cv sources", config.Config{CV: "cv.txt", CVURL: "https://x", Job: "job.txt"}, "mutually exclusive"},
		{"no job source", config.Config{CV: "cv.txt"}, "--job or --job-url"},
		{"both job sources", config.Config{CV: "cv.txt", Job: "job.txt", JobURL: "https://x"}, "mutually exclusive"},
		{"file sources ok", config.Config{CV: "cv.txt", Job: "job.txt"}, ""},
		{"url sources ok", config.Config{CVURL: "https://a", JobURL: "https://b"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInputSources(&tt.cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadTexts_FromFiles(t *testing.T) {
	dir := t.TempDir()
	cvPath := filepath.Join(dir, "cv.txt")
	jobPath := filepath.Join(dir, "job.txt")
	require.NoError(t, os.WriteFile(cvPath, []byte("Jane Doe\nGo engineer"), 0644))
	require.NoError(t, os.WriteFile(jobPath, []byte("Backend role\nGo required"), 0644))

	cfg := &config.Config{CV: cvPath, Job: jobPath}
	cvText, jobText, err := loadTexts(context.Background(), cfg)

	require.NoError(t, err)
	assert.Contains(t, cvText, "Jane Doe")
	assert.Contains(t, jobText, "Backend role")
}

func TestLoadTexts_MissingFile(t *testing.T) {
	cfg := &config.Config{
		CV:  filepath.Join(t.TempDir(), "missing.txt"),
		Job: filepath.Join(t.TempDir(), "job.txt"),
	}
	_, _, err := loadTexts(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load CV")
}

func TestBuildOrchestrator_NoExternalServices(t *testing.T) {
	orchestrator, cleanup, err := buildOrchestrator(context.Background(), &config.Config{})
	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, orchestrator)
	assert.Equal(t, "closed", orchestrator.BreakerState())
}

func TestWriteOptimizedOutput(t *testing.T) {
	dir := t.TempDir()

	// Remote runs carry plain text.
	textPath := filepath.Join(dir, "out.txt")
	require.NoError(t, writeOptimizedOutput(textPath, "rewritten cv", nil))
	data, err := os.ReadFile(textPath)
	require.NoError(t, err)
	assert.Equal(t, "rewritten cv", string(data))

	// Local runs carry a structured CV serialized as JSON.
	jsonPath := filepath.Join(dir, "out.json")
	require.NoError(t, writeOptimizedOutput(jsonPath, "", map[string]string{"name": "Jane Doe"}))
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name": "Jane Doe"`)
}
