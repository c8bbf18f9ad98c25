package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-optimizer/internal/config"
	"github.com/jonathan/cv-optimizer/internal/observability"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a CV against a job description",
	Long: `Analyzes a CV against a job description and reports the overall match score, the seven dimensional scores, matched and missing keywords, per-section quality and tailored recommendations.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runAnalyzeCmd,
}

var (
	analyzeConfigPath  string
	analyzeCV          string
	analyzeCVURL       string
	analyzeJob         string
	analyzeJobURL      string
	analyzeAPIKey      string
	analyzeDatabaseURL string
	analyzeUseBrowser  bool
	analyzeVerbose     bool
)

func init() {
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	analyzeCmd.Flags().StringVar(&analyzeCV, "cv", "", "Path to CV text file (mutually exclusive with --cv-url)")
	analyzeCmd.Flags().StringVar(&analyzeCVURL, "cv-url", "", "URL to fetch the CV from (mutually exclusive with --cv)")
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	analyzeCmd.Flags().StringVar(&analyzeJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	analyzeCmd.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for analysis persistence
	analyzeCmd.Flags().StringVar(&analyzeDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyzeCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveAnalyzeConfig(cmd)
	if err != nil {
		return err
	}

	cvText, jobText, err := loadTexts(ctx, cfg)
	if err != nil {
		return err
	}

	orchestrator, cleanup, err := buildOrchestrator(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := orchestrator.Analyze(ctx, cvText, jobText, progressPrinter)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintAnalysis(result.Analysis)
	printer.PrintRecommendations(result.Analysis.Recommendations)
	fmt.Printf("Analysis source: %s\n", result.Source)

	return nil
}

// resolveAnalyzeConfig merges the config file, CLI flags and
// environment, CLI flags winning over the file.
func resolveAnalyzeConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg config.Config
	if analyzeConfigPath != "" {
		loaded, err := config.LoadConfig(analyzeConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return nil, err
		}
		cfg = *loaded
		if analyzeVerbose {
			fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", analyzeConfigPath)
		}
	}

	// Only override when the flag was explicitly set
	if cmd.Flags().Changed("cv") {
		cfg.CV = analyzeCV
	}
	if cmd.Flags().Changed("cv-url") {
		cfg.CVURL = analyzeCVURL
	}
	if cmd.Flags().Changed("job") {
		cfg.Job = analyzeJob
	}
	if cmd.Flags().Changed("job-url") {
		cfg.JobURL = analyzeJobURL
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = analyzeAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = analyzeDatabaseURL
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = analyzeUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = analyzeVerbose
	}

	applyEnvFallbacks(&cfg)

	if err := validateInputSources(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
