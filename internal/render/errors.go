// Package render talks to the external document renderer and saves the
// resulting binary document, trying fallback strategies before giving up.
package render

import (
	"errors"
	"fmt"
)

// ErrAllMethodsFailed means every download strategy was exhausted. It is
// the only terminal failure in this package; callers must surface it to
// the user for explicit action.
var ErrAllMethodsFailed = errors.New("all download methods failed")

// DocumentGenerationError represents a renderer failure. It is surfaced
// with a remediation path (manual download) rather than treated as fatal.
type DocumentGenerationError struct {
	Message string
	Cause   error
}

func (e *DocumentGenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document generation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("document generation error: %s", e.Message)
}

func (e *DocumentGenerationError) Unwrap() error {
	return e.Cause
}
