// Package pipeline runs the local, deterministic CV analysis flow:
// extraction, keyword analysis, scoring, optimization and
// recommendation generation.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-optimizer/internal/extraction"
	"github.com/jonathan/cv-optimizer/internal/keywords"
	"github.com/jonathan/cv-optimizer/internal/observability"
	"github.com/jonathan/cv-optimizer/internal/optimizing"
	"github.com/jonathan/cv-optimizer/internal/recommend"
	"github.com/jonathan/cv-optimizer/internal/scoring"
	"github.com/jonathan/cv-optimizer/internal/storage"
	"github.com/jonathan/cv-optimizer/internal/types"
)

// ValidationError rejects a request before any scoring work starts.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// Options configures a pipeline.
type Options struct {
	Scorer    *scoring.Scorer
	Optimizer *optimizing.Optimizer
	Store     *storage.Store         // optional persistence
	Printer   *observability.Printer // optional verbose output
}

// Pipeline is the offline fallback behind the orchestrator. All of its
// stages are pure; the optional store is the only side effect.
type Pipeline struct {
	scorer    *scoring.Scorer
	optimizer *optimizing.Optimizer
	store     *storage.Store
	printer   *observability.Printer
}

// New creates a pipeline. Nil scorer/optimizer select defaults.
func New(opts Options) *Pipeline {
	scorer := opts.Scorer
	if scorer == nil {
		scorer = scoring.NewScorer(nil)
	}
	optimizer := opts.Optimizer
	if optimizer == nil {
		optimizer = optimizing.NewOptimizer(0)
	}
	return &Pipeline{
		scorer:    scorer,
		optimizer: optimizer,
		store:     opts.Store,
		printer:   opts.Printer,
	}
}

// Analyze scores cvText against jobText and fills in the narrative
// guidance. Persistence failures are logged, never fatal.
func (p *Pipeline) Analyze(ctx context.Context, cvText, jobText string) (*types.JobMatchAnalysis, error) {
	if err := validateInputs(cvText, jobText); err != nil {
		return nil, err
	}

	analysis := p.scorer.Score(cvText, jobText)
	recommend.Generate(analysis)

	if p.printer != nil {
		p.printer.PrintAnalysis(analysis)
		p.printer.PrintRecommendations(analysis.Recommendations)
	}

	p.persist(ctx, analysis)
	return analysis, nil
}

// Optimize extracts a structured CV and rewrites its sections toward
// the job posting, returning both the optimized CV and the analysis of
// the original text. Extraction and scoring run concurrently; both are
// pure functions over the same inputs.
func (p *Pipeline) Optimize(ctx context.Context, cvText, jobText string) (*types.StructuredCV, *types.JobMatchAnalysis, error) {
	if err := validateInputs(cvText, jobText); err != nil {
		return nil, nil, err
	}

	var (
		cv       *types.StructuredCV
		analysis *types.JobMatchAnalysis
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		cv = extraction.Extract(cvText)
		return nil
	})
	g.Go(func() error {
		analysis = p.scorer.Score(cvText, jobText)
		recommend.Generate(analysis)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	jobKeywords := keywords.Extract(jobText, true)
	optimized := p.optimizer.Optimize(cv, jobText, jobKeywords)

	if p.printer != nil {
		p.printer.PrintStructuredCV(optimized)
		p.printer.PrintAnalysis(analysis)
	}

	p.persist(ctx, analysis)
	return optimized, analysis, nil
}

// persist saves the analysis when a store is configured. The pipeline
// result never depends on persistence succeeding.
func (p *Pipeline) persist(ctx context.Context, analysis *types.JobMatchAnalysis) {
	if p.store == nil {
		return
	}
	if _, err := p.store.SaveAnalysis(ctx, uuid.Nil, "local", analysis); err != nil {
		log.Printf("Warning: failed to persist analysis: %v", err)
	}
}

func validateInputs(cvText, jobText string) error {
	if cvText == "" {
		return &ValidationError{Field: "cvText"}
	}
	if jobText == "" {
		return &ValidationError{Field: "jobDescription"}
	}
	return nil
}
