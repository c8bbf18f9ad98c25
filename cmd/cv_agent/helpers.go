package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/cv-optimizer/internal/analysis"
	"github.com/jonathan/cv-optimizer/internal/config"
	"github.com/jonathan/cv-optimizer/internal/ingestion"
	"github.com/jonathan/cv-optimizer/internal/pipeline"
	"github.com/jonathan/cv-optimizer/internal/remote"
	"github.com/jonathan/cv-optimizer/internal/storage"
)

// validateInputSources checks that the merged config names exactly one
// source for the CV and one for the job posting.
func validateInputSources(cfg *config.Config) error {
	if cfg.CV == "" && cfg.CVURL == "" {
		return fmt.Errorf("either --cv or --cv-url must be provided (via flag or config)")
	}
	if cfg.CV != "" && cfg.CVURL != "" {
		return fmt.Errorf("--cv and --cv-url are mutually exclusive; provide only one")
	}
	if cfg.Job == "" && cfg.JobURL == "" {
		return fmt.Errorf("either --job or --job-url must be provided (via flag or config)")
	}
	if cfg.Job != "" && cfg.JobURL != "" {
		return fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	}
	return nil
}

// loadTexts resolves the CV and job posting texts from files or URLs.
func loadTexts(ctx context.Context, cfg *config.Config) (cvText, jobText string, err error) {
	if cfg.CV != "" {
		cvText, err = ingestion.FromFile(cfg.CV)
	} else {
		cvText, err = ingestion.FromURL(ctx, cfg.CVURL, cfg.UseBrowser, cfg.Verbose)
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to load CV: %w", err)
	}

	if cfg.Job != "" {
		jobText, err = ingestion.FromFile(cfg.Job)
	} else {
		jobText, err = ingestion.FromURL(ctx, cfg.JobURL, cfg.UseBrowser, cfg.Verbose)
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to load job posting: %w", err)
	}

	return cvText, jobText, nil
}

// buildOrchestrator assembles the remote-first analyzer with its local
// fallback. The returned cleanup closes the remote client and database
// pool; it is safe to call when neither was configured.
func buildOrchestrator(ctx context.Context, cfg *config.Config) (*analysis.Orchestrator, func(), error) {
	var store *storage.Store
	if cfg.DatabaseURL != "" {
		s, err := storage.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		store = s
	}

	local := pipeline.New(pipeline.Options{Store: store})

	var (
		remoteSvc    analysis.RemoteService
		remoteClient remote.Client
	)
	if cfg.APIKey != "" {
		client, err := remote.NewClient(ctx, remote.DefaultConfig(), cfg.APIKey)
		if err != nil {
			if store != nil {
				store.Close()
			}
			return nil, nil, fmt.Errorf("failed to create remote client: %w", err)
		}
		remoteClient = client
		remoteSvc = remote.NewService(client, 0)
	}

	cleanup := func() {
		if remoteClient != nil {
			_ = remoteClient.Close()
		}
		if store != nil {
			store.Close()
		}
	}

	return analysis.NewOrchestrator(remoteSvc, local, nil), cleanup, nil
}

// progressPrinter writes progress updates to stderr so stdout stays
// clean for the analysis output.
func progressPrinter(event analysis.ProgressEvent) {
	fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", event.Percent, event.Message)
}

// applyEnvFallbacks fills API key and database URL from the
// environment when neither flag nor config provided them.
func applyEnvFallbacks(cfg *config.Config) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.RendererURL == "" {
		cfg.RendererURL = os.Getenv("RENDERER_URL")
	}
}
