package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/cv-optimizer/internal/analysis"
	"github.com/jonathan/cv-optimizer/internal/config"
	"github.com/jonathan/cv-optimizer/internal/observability"
	"github.com/jonathan/cv-optimizer/internal/render"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Rewrite a CV toward a job description",
	Long: `Optimizes a CV toward a job description: section contents are reordered and rewritten around the posting's keywords and a match analysis of the original CV is reported alongside.

When --renderer-url (or RENDERER_URL) is set, the optimized CV is sent to the document renderer and the produced file is saved locally. Otherwise the optimized CV is written as JSON to --output.`,
	RunE: runOptimizeCmd,
}

var (
	optimizeConfigPath  string
	optimizeCV          string
	optimizeCVURL       string
	optimizeJob         string
	optimizeJobURL      string
	optimizeAPIKey      string
	optimizeDatabaseURL string
	optimizeRendererURL string
	optimizeOutput      string
	optimizeUseBrowser  bool
	optimizeVerbose     bool
)

func init() {
	optimizeCmd.Flags().StringVar(&optimizeConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	optimizeCmd.Flags().StringVar(&optimizeCV, "cv", "", "Path to CV text file (mutually exclusive with --cv-url)")
	optimizeCmd.Flags().StringVar(&optimizeCVURL, "cv-url", "", "URL to fetch the CV from (mutually exclusive with --cv)")
	optimizeCmd.Flags().StringVarP(&optimizeJob, "job", "j", "", "Path to job posting text file (mutually exclusive with --job-url)")
	optimizeCmd.Flags().StringVar(&optimizeJobURL, "job-url", "", "URL to fetch job posting from (mutually exclusive with --job)")
	optimizeCmd.Flags().StringVarP(&optimizeOutput, "output", "o", "optimized_cv.json", "Output filename for the optimized CV")
	optimizeCmd.Flags().StringVar(&optimizeRendererURL, "renderer-url", "", "Document renderer base URL (optional, defaults to RENDERER_URL env var)")
	optimizeCmd.Flags().BoolVar(&optimizeUseBrowser, "use-browser", false, "Use headless browser for SPA sites (requires Chrome)")
	optimizeCmd.Flags().BoolVarP(&optimizeVerbose, "verbose", "v", false, "Print detailed debug information")

	optimizeCmd.Flags().StringVar(&optimizeAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	optimizeCmd.Flags().StringVar(&optimizeDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(optimizeCmd)
}

func runOptimizeCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveOptimizeConfig(cmd)
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

	result, err := orchestrator.Optimize(ctx, cvText, jobText, nil, progressPrinter)
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose && result.OptimizedCV != nil {
		printer.PrintStructuredCV(result.OptimizedCV)
	}
	if result.Analysis != nil {
		printer.PrintAnalysis(result.Analysis)
		printer.PrintRecommendations(result.Analysis.Recommendations)
	}
	fmt.Printf("Optimization source: %s\n", result.Source)

	if cfg.RendererURL != "" && result.OptimizedCV != nil {
		return renderAndSave(ctx, cfg.RendererURL, result)
	}
	return writeOptimizedOutput(optimizeOutput, result.OptimizedText, result.OptimizedCV)
}

// renderAndSave sends the optimized CV to the document renderer and
// saves the produced file using the download fallback chain.
func renderAndSave(ctx context.Context, rendererURL string, result *analysis.OptimizeResult) error {
	r := render.NewRenderer(render.DefaultOptions(rendererURL))
	doc, err := r.Render(ctx, result.OptimizedCV, result.OptimizedText)
	if err != nil {
		return fmt.Errorf("document rendering failed: %w", err)
	}

	filename := "optimized_cv.pdf"
	if err := render.SaveDocument(doc, filename); err != nil {
		return err
	}
	fmt.Printf("Document saved as %s\n", filename)
	return nil
}

// writeOptimizedOutput writes the optimized CV to a file: remote runs
// produce plain text, local runs a structured JSON document.
func writeOptimizedOutput(path, optimizedText string, cv any) error {
	var data []byte
	if optimizedText != "" {
		data = []byte(optimizedText)
	} else {
		encoded, err := json.MarshalIndent(cv, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode optimized CV: %w", err)
		}
		data = encoded
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Printf("Optimized CV written to %s\n", path)
	return nil
}

func resolveOptimizeConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg config.Config
	if optimizeConfigPath != "" {
		loaded, err := config.LoadConfig(optimizeConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return nil, err
		}
		cfg = *loaded
		if optimizeVerbose {
			fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", optimizeConfigPath)
		}
	}

	if cmd.Flags().Changed("cv") {
		cfg.CV = optimizeCV
	}
	if cmd.Flags().Changed("cv-url") {
		cfg.CVURL = optimizeCVURL
	}
	if cmd.Flags().Changed("job") {
		cfg.Job = optimizeJob
	}
	if cmd.Flags().Changed("job-url") {
		cfg.JobURL = optimizeJobURL
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = optimizeAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = optimizeDatabaseURL
	}
	if cmd.Flags().Changed("renderer-url") {
		cfg.RendererURL = optimizeRendererURL
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = optimizeUseBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = optimizeVerbose
	}

	applyEnvFallbacks(&cfg)

	if err := validateInputSources(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
