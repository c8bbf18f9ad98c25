package analysis

import (
	"context"
	"log"

	"github.com/jonathan/cv-optimizer/internal/types"
)

// RemoteService is the LLM-backed analyze/optimize surface.
type RemoteService interface {
	Analyze(ctx context.Context, cvText, jobText string) (*types.JobMatchAnalysis, error)
	Optimize(ctx context.Context, cvText, jobText string, analysis *types.JobMatchAnalysis) (string, *types.JobMatchAnalysis, error)
}

// LocalPipeline is the deterministic offline fallback.
type LocalPipeline interface {
	Analyze(ctx context.Context, cvText, jobText string) (*types.JobMatchAnalysis, error)
	Optimize(ctx context.Context, cvText, jobText string) (*types.StructuredCV, *types.JobMatchAnalysis, error)
}

// Source identifies which path produced a result.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// AnalyzeResult pairs an analysis with the path that produced it.
type AnalyzeResult struct {
	Analysis *types.JobMatchAnalysis
	Source   Source
}

// OptimizeResult pairs optimized content with the path that produced
// it. Remote optimization returns raw text; the local path also returns
// the structured CV it rebuilt.
type OptimizeResult struct {
	OptimizedText string
	OptimizedCV   *types.StructuredCV
	Analysis      *types.JobMatchAnalysis
	Source        Source
}

// Orchestrator prefers the remote service and falls back to the local
// pipeline when the remote call fails or the breaker is open. It is
// safe for concurrent use; the breaker is its only shared state.
type Orchestrator struct {
	remote  RemoteService
	local   LocalPipeline
	breaker *CircuitBreaker
}

// NewOrchestrator wires the two paths. remote may be nil, in which case
// every request runs locally. A nil breaker gets the defaults.
func NewOrchestrator(remote RemoteService, local LocalPipeline, breaker *CircuitBreaker) *Orchestrator {
	if breaker == nil {
		breaker = NewCircuitBreaker(0, 0, nil)
	}
	return &Orchestrator{remote: remote, local: local, breaker: breaker}
}

// BreakerState exposes the breaker state for health reporting.
func (o *Orchestrator) BreakerState() string {
	return o.breaker.State()
}

// Analyze runs a CV/job analysis, remote-first. Remote failures are
// recorded against the breaker and fall through to the local pipeline
// transparently; the caller only sees an error when the local path
// fails too.
func (o *Orchestrator) Analyze(ctx context.Context, cvText, jobText string, onProgress ProgressCallback) (*AnalyzeResult, error) {
	if o.remote != nil && o.breaker.Allow() {
		analysis, err := o.remote.Analyze(ctx, cvText, jobText)
		if err == nil {
			o.breaker.RecordSuccess()
			return &AnalyzeResult{Analysis: analysis, Source: SourceRemote}, nil
		}
		o.breaker.RecordFailure()
		log.Printf("remote analyze failed, falling back to local pipeline: %v", err)
	}

	stop := startSyntheticProgress(ctx, onProgress)
	defer stop()

	analysis, err := o.local.Analyze(ctx, cvText, jobText)
	if err != nil {
		return nil, err
	}
	return &AnalyzeResult{Analysis: analysis, Source: SourceLocal}, nil
}

// Optimize rewrites a CV toward a job posting, remote-first. The remote
// path reuses a prior analysis when the caller has one; the local path
// recomputes everything. A successful result always carries a non-nil
// Analysis: the match analysis is optional on the remote wire, so when
// the remote omits it the orchestrator scores the optimized text
// locally instead.
func (o *Orchestrator) Optimize(ctx context.Context, cvText, jobText string, prior *types.JobMatchAnalysis, onProgress ProgressCallback) (*OptimizeResult, error) {
	if o.remote != nil && o.breaker.Allow() {
		text, matchAnalysis, err := o.remote.Optimize(ctx, cvText, jobText, prior)
		if err == nil {
			o.breaker.RecordSuccess()
			if matchAnalysis == nil {
				matchAnalysis = prior
			}
			if matchAnalysis == nil {
				if local, analyzeErr := o.local.Analyze(ctx, text, jobText); analyzeErr == nil {
					matchAnalysis = local
				} else {
					log.Printf("scoring remote-optimized text locally failed: %v", analyzeErr)
				}
			}
			return &OptimizeResult{OptimizedText: text, Analysis: matchAnalysis, Source: SourceRemote}, nil
		}
		o.breaker.RecordFailure()
		log.Printf("remote optimize failed, falling back to local pipeline: %v", err)
	}

	stop := startSyntheticProgress(ctx, onProgress)
	defer stop()

	cv, analysis, err := o.local.Optimize(ctx, cvText, jobText)
	if err != nil {
		return nil, err
	}
	return &OptimizeResult{OptimizedCV: cv, Analysis: analysis, Source: SourceLocal}, nil
}
