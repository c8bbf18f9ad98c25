// Package captcha verifies reCAPTCHA tokens that gate the analysis
// endpoints. Verification is not part of the pipeline itself; handlers
// call it before any scoring work starts.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultVerifyURL is the Google siteverify endpoint.
const DefaultVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

// DefaultTimeout bounds a single verification call.
const DefaultTimeout = 10 * time.Second

// Options configures the verifier.
type Options struct {
	Secret    string
	VerifyURL string
	Timeout   time.Duration
}

// DefaultOptions returns sensible defaults for verification.
func DefaultOptions(secret string) *Options {
	return &Options{
		Secret:    secret,
		VerifyURL: DefaultVerifyURL,
		Timeout:   DefaultTimeout,
	}
}

// Result is the outcome of a token verification.
type Result struct {
	Success bool    `json:"success"`
	Score   float64 `json:"score"`
	Action  string  `json:"action"`
}

// Error represents a verification transport or policy failure.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("captcha error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("captcha error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Verifier checks tokens against the verification service.
type Verifier struct {
	opts   *Options
	client *http.Client
}

// NewVerifier creates a verifier. A nil options disables verification
// entirely (every token passes); useful for local development.
func NewVerifier(opts *Options) *Verifier {
	if opts != nil {
		if opts.VerifyURL == "" {
			opts.VerifyURL = DefaultVerifyURL
		}
		if opts.Timeout <= 0 {
			opts.Timeout = DefaultTimeout
		}
	}
	return &Verifier{
		opts:   opts,
		client: &http.Client{},
	}
}

// Enabled reports whether verification is configured.
func (v *Verifier) Enabled() bool {
	return v.opts != nil && v.opts.Secret != ""
}

// siteverifyResponse is the wire shape of the verification service.
type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Score      float64  `json:"score"`
	Action     string   `json:"action"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify checks a token, requiring at least minScore and, when
// expectedAction is non-empty, a matching action. The returned Result
// carries the raw score and action even when the check fails.
func (v *Verifier) Verify(ctx context.Context, token string, minScore float64, expectedAction string) (*Result, error) {
	if !v.Enabled() {
		return &Result{Success: true, Score: 1, Action: expectedAction}, nil
	}
	if token == "" {
		return &Result{}, &Error{Message: "missing captcha token"}
	}

	ctx, cancel := context.WithTimeout(ctx, v.opts.Timeout)
	defer cancel()

	form := url.Values{}
	form.Set("secret", v.opts.Secret)
	form.Set("response", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.opts.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &Error{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, &Error{Message: "verification request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Message: fmt.Sprintf("verification service returned HTTP %d", resp.StatusCode)}
	}

	var wire siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, &Error{Message: "malformed verification response", Cause: err}
	}

	result := &Result{Score: wire.Score, Action: wire.Action}
	if !wire.Success {
		return result, &Error{Message: fmt.Sprintf("token rejected: %s", strings.Join(wire.ErrorCodes, ", "))}
	}
	if wire.Score < minScore {
		return result, &Error{Message: fmt.Sprintf("score %.2f below required %.2f", wire.Score, minScore)}
	}
	if expectedAction != "" && wire.Action != expectedAction {
		return result, &Error{Message: fmt.Sprintf("action %q does not match expected %q", wire.Action, expectedAction)}
	}

	result.Success = true
	return result, nil
}
