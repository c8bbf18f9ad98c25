package render

import (
	"fmt"
	"os"
	"path/filepath"
)

// DownloadStrategy attempts one way of saving a document locally,
// returning true on success.
type DownloadStrategy func(documentBytes []byte, filename string) bool

// SaveDocument writes a rendered document using the given strategies in
// order, stopping at the first that succeeds. When none succeed it
// returns ErrAllMethodsFailed. A nil strategy list selects the defaults.
func SaveDocument(documentBytes []byte, filename string, strategies ...DownloadStrategy) error {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	for _, strategy := range strategies {
		if strategy(documentBytes, filename) {
			return nil
		}
	}
	return fmt.Errorf("saving %s: %w", filename, ErrAllMethodsFailed)
}

// DefaultStrategies returns the built-in save order: directly beside the
// working directory, then the user home directory, then the system temp
// directory.
func DefaultStrategies() []DownloadStrategy {
	return []DownloadStrategy{
		writeTo(""),
		writeToHome,
		writeTo(os.TempDir()),
	}
}

// writeTo returns a strategy that writes into dir; an empty dir means
// the current working directory.
func writeTo(dir string) DownloadStrategy {
	return func(documentBytes []byte, filename string) bool {
		path := filename
		if dir != "" {
			path = filepath.Join(dir, filepath.Base(filename))
		}
		return os.WriteFile(path, documentBytes, 0o644) == nil
	}
}

func writeToHome(documentBytes []byte, filename string) bool {
	home, err := os.UserHomeDir()
	if err != nil {
		return false
	}
	path := filepath.Join(home, "Downloads", filepath.Base(filename))
	if os.WriteFile(path, documentBytes, 0o644) == nil {
		return true
	}
	// Downloads may not exist; fall back to the home directory itself.
	return os.WriteFile(filepath.Join(home, filepath.Base(filename)), documentBytes, 0o644) == nil
}
