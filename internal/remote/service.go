package remote

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jonathan/cv-optimizer/internal/schemas"
	"github.com/jonathan/cv-optimizer/internal/types"
)

//go:embed analysis_schema.json
var analysisSchema string

// DefaultTimeout bounds every remote analyze/optimize call.
const DefaultTimeout = 45 * time.Second

// analyzeResponse is the wire shape of a remote analyze call.
type analyzeResponse struct {
	Success  bool                    `json:"success"`
	Analysis *types.JobMatchAnalysis `json:"analysis,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

// optimizeResponse is the wire shape of a remote optimize call.
type optimizeResponse struct {
	Success          bool                    `json:"success"`
	OptimizedContent string                  `json:"optimizedContent,omitempty"`
	MatchAnalysis    *types.JobMatchAnalysis `json:"matchAnalysis,omitempty"`
	Error            string                  `json:"error,omitempty"`
}

// Service performs LLM-backed CV analysis and optimization. Every call
// is bounded by the configured timeout; any failure is returned as a
// *ServiceError so callers can count it against the circuit breaker.
type Service struct {
	client  Client
	timeout time.Duration
}

// NewService wraps an LLM client. A zero timeout selects DefaultTimeout.
func NewService(client Client, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{client: client, timeout: timeout}
}

// Analyze requests a full job-match analysis from the remote model.
func (s *Service) Analyze(ctx context.Context, cvText, jobText string) (*types.JobMatchAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.client.GenerateJSON(ctx, analyzePrompt(cvText, jobText), TierStandard)
	if err != nil {
		return nil, &ServiceError{Message: "analyze call failed", Cause: err}
	}

	var resp analyzeResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, &ServiceError{Message: "malformed analyze response", Cause: err}
	}
	if !resp.Success || resp.Analysis == nil {
		return nil, &ServiceError{Message: fmt.Sprintf("analyze rejected: %s", resp.Error)}
	}

	if err := validateAnalysis(resp.Analysis); err != nil {
		return nil, &ServiceError{Message: "analyze response failed schema validation", Cause: err}
	}

	resp.Analysis.Normalize()
	return resp.Analysis, nil
}

// Optimize requests optimized CV content from the remote model. The
// previously computed analysis steers the rewrite.
func (s *Service) Optimize(ctx context.Context, cvText, jobText string, analysis *types.JobMatchAnalysis) (string, *types.JobMatchAnalysis, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.client.GenerateJSON(ctx, optimizePrompt(cvText, jobText, analysis), TierAdvanced)
	if err != nil {
		return "", nil, &ServiceError{Message: "optimize call failed", Cause: err}
	}

	var resp optimizeResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return "", nil, &ServiceError{Message: "malformed optimize response", Cause: err}
	}
	if !resp.Success || resp.OptimizedContent == "" {
		return "", nil, &ServiceError{Message: fmt.Sprintf("optimize rejected: %s", resp.Error)}
	}

	if resp.MatchAnalysis != nil {
		if err := validateAnalysis(resp.MatchAnalysis); err != nil {
			return "", nil, &ServiceError{Message: "optimize response failed schema validation", Cause: err}
		}
		resp.MatchAnalysis.Normalize()
	}
	return resp.OptimizedContent, resp.MatchAnalysis, nil
}

// validateAnalysis checks a remote analysis against the embedded schema
// before it is trusted.
func validateAnalysis(analysis *types.JobMatchAnalysis) error {
	encoded, err := json.Marshal(analysis)
	if err != nil {
		return err
	}
	return schemas.ValidateJSONString(analysisSchema, string(encoded))
}
