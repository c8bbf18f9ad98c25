// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/cv-optimizer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintStructuredCV outputs a human-readable summary of an extracted CV.
func (p *Printer) PrintStructuredCV(cv *types.StructuredCV) {
	if cv == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", cv.Name))
	if cv.Contact.Email != "" {
		sb.WriteString(fmt.Sprintf("Email:    %s\n", cv.Contact.Email))
	}
	sb.WriteString(fmt.Sprintf("Roles:    %d\n", len(cv.Experience)))
	sb.WriteString(fmt.Sprintf("Degrees:  %d\n", len(cv.Education)))

	if len(cv.Skills.Technical) > 0 {
		sb.WriteString("\nTechnical skills:\n")
		count := min(len(cv.Skills.Technical), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", cv.Skills.Technical[i]))
		}
		if len(cv.Skills.Technical) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(cv.Skills.Technical)-maxItemsToShow))
		}
	}

	p.printBox("EXTRACTED CV", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysis outputs a human-readable summary of a job match analysis.
func (p *Printer) PrintAnalysis(analysis *types.JobMatchAnalysis) {
	if analysis == nil {
		return
	}

	d := analysis.Dimensional
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Score:          %d/100\n", analysis.Score))
	sb.WriteString(fmt.Sprintf("Overall:        %d\n", d.OverallCompatibility))
	sb.WriteString(fmt.Sprintf("Skills:         %d\n", d.SkillsMatch))
	sb.WriteString(fmt.Sprintf("Experience:     %d\n", d.ExperienceMatch))
	sb.WriteString(fmt.Sprintf("Education:      %d\n", d.EducationMatch))
	sb.WriteString(fmt.Sprintf("Industry fit:   %d\n", d.IndustryFit))
	sb.WriteString(fmt.Sprintf("Density:        %d\n", d.KeywordDensity))
	sb.WriteString(fmt.Sprintf("Format:         %d\n", d.FormatCompatibility))
	sb.WriteString(fmt.Sprintf("Relevance:      %d\n", d.ContentRelevance))

	if len(analysis.MissingKeywords) > 0 {
		sb.WriteString("\nTop missing keywords:\n")
		count := min(len(analysis.MissingKeywords), maxItemsToShow)
		for i := 0; i < count; i++ {
			mk := analysis.MissingKeywords[i]
			sb.WriteString(fmt.Sprintf("  • %s (importance %d)\n", mk.Keyword, mk.Importance))
		}
	}

	p.printBox("JOB MATCH ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRecommendations outputs the generated guidance list.
func (p *Printer) PrintRecommendations(recs []string) {
	if len(recs) == 0 {
		return
	}

	var sb strings.Builder
	for i, rec := range recs {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, rec))
	}
	p.printBox("RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}
