package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/jonathan/cv-optimizer/internal/types"
)

// Retry policy for renderer calls.
const (
	MaxAttempts    = 3
	baseBackoff    = 500 * time.Millisecond
	maxJitter      = 250 * time.Millisecond
	AttemptTimeout = 15 * time.Second
)

// Options configures the renderer client.
type Options struct {
	BaseURL        string
	AttemptTimeout time.Duration
	MaxAttempts    int
}

// DefaultOptions returns sensible defaults for rendering.
func DefaultOptions(baseURL string) *Options {
	return &Options{
		BaseURL:        baseURL,
		AttemptTimeout: AttemptTimeout,
		MaxAttempts:    MaxAttempts,
	}
}

// Renderer is an HTTP client for the external document renderer. The
// payload it returns is opaque; this package does not define its layout.
type Renderer struct {
	opts   *Options
	client *http.Client
}

// NewRenderer creates a renderer client. A nil options selects defaults
// with an empty base URL, which fails on first use.
func NewRenderer(opts *Options) *Renderer {
	if opts == nil {
		opts = DefaultOptions("")
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = AttemptTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = MaxAttempts
	}
	return &Renderer{
		opts:   opts,
		client: &http.Client{},
	}
}

// renderRequest is the wire shape sent to the renderer service.
type renderRequest struct {
	CV            *types.StructuredCV `json:"cv"`
	OptimizedText string              `json:"optimized_text"`
}

// Render produces the binary document for a structured CV plus its raw
// optimized text. Attempts are retried with exponential backoff and
// jitter; each attempt races its own timeout.
func (r *Renderer) Render(ctx context.Context, cv *types.StructuredCV, optimizedText string) ([]byte, error) {
	if r.opts.BaseURL == "" {
		return nil, &DocumentGenerationError{Message: "renderer URL not configured"}
	}

	body, err := json.Marshal(renderRequest{CV: cv, OptimizedText: optimizedText})
	if err != nil {
		return nil, &DocumentGenerationError{Message: "failed to encode render request", Cause: err}
	}

	var lastErr error
	for attempt := 0; attempt < r.opts.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, &DocumentGenerationError{Message: "render cancelled", Cause: ctx.Err()}
			case <-time.After(backoff(attempt)):
			}
		}

		payload, err := r.attempt(ctx, body)
		if err == nil {
			return payload, nil
		}
		lastErr = err
	}
	return nil, &DocumentGenerationError{
		Message: fmt.Sprintf("renderer failed after %d attempts", r.opts.MaxAttempts),
		Cause:   lastErr,
	}
}

func (r *Renderer) attempt(ctx context.Context, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.AttemptTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.opts.BaseURL+"/render", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("renderer returned HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// backoff returns the exponential delay for a retry attempt plus random
// jitter so concurrent retries do not align.
func backoff(attempt int) time.Duration {
	delay := baseBackoff << (attempt - 1)
	return delay + time.Duration(rand.Int63n(int64(maxJitter)))
}
