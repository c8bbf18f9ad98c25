// Package ingestion turns CV and job posting sources (local files or
// URLs) into cleaned plain text ready for analysis.
package ingestion

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/cv-optimizer/internal/extraction"
	"github.com/jonathan/cv-optimizer/internal/fetch"
)

var (
	// ErrUnsupportedFormat is returned for file types this package cannot read
	ErrUnsupportedFormat = fmt.Errorf("unsupported file format")
	// ErrHTTPRequestFailed is returned when a URL fetch fails
	ErrHTTPRequestFailed = fmt.Errorf("HTTP request failed")
	// ErrContentExtractionFailed is returned when no usable text could be extracted
	ErrContentExtractionFailed = fmt.Errorf("content extraction failed")
)

// FromFile reads a plain-text or markdown document and returns cleaned
// text.
func FromFile(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".md", ".text", "":
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	text := extraction.CleanText(string(content))
	if text == "" {
		return "", fmt.Errorf("%w: %s is empty", ErrContentExtractionFailed, path)
	}
	return text, nil
}

// FromURL fetches a page, extracts its main text with platform-aware
// selectors and returns cleaned text. When useBrowser is set and the
// plain fetch yields too little content, the page is re-rendered in a
// headless browser before extraction.
func FromURL(ctx context.Context, urlStr string, useBrowser, verbose bool) (string, error) {
	platform := fetch.DetectPlatform(urlStr)
	if verbose {
		log.Printf("[VERBOSE] URL: %s, platform: %s", urlStr, platform)
	}

	result, err := fetch.URL(ctx, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}

	contentSelectors := fetch.PlatformContentSelectors(platform)
	noiseSelectors := fetch.PlatformNoiseSelectors(platform)

	text, err := fetch.ExtractMainText(result.HTML, contentSelectors, noiseSelectors...)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	if useBrowser && fetch.ShouldUseBrowser(text) {
		if verbose {
			log.Printf("[VERBOSE] Extracted only %d chars, retrying with browser", len(text))
		}
		html, browserErr := fetch.BrowserSimple(ctx, urlStr, verbose)
		if browserErr == nil {
			if rendered, extractErr := fetch.ExtractMainText(html, contentSelectors, noiseSelectors...); extractErr == nil && len(rendered) > len(text) {
				text = rendered
			}
		} else if verbose {
			log.Printf("[VERBOSE] Browser fallback failed: %v", browserErr)
		}
	}

	cleaned := extraction.CleanText(text)
	if cleaned == "" {
		return "", fmt.Errorf("%w: no text at %s", ErrContentExtractionFailed, urlStr)
	}
	return cleaned, nil
}
