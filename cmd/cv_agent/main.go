// Package main provides the entry point for the CV optimizer CLI and
// HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cv_agent",
	Short: "CV analysis and optimization agent",
	Long:  "Analyzes CVs against job descriptions, scores the match across seven dimensions and rewrites CV sections toward the posting, using a remote LLM with a deterministic local fallback.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
