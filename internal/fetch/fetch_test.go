package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		fmt.Fprint(w, "<html><body><main>Job content</main></body></html>")
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Contains(t, result.HTML, "Job content")
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not a url", nil)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, fetchErr.Message, "invalid URL")
}

func TestURL_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)

	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
}

func TestExtractMainText_PrefersContentSelector(t *testing.T) {
	html := `<html><body>
		<nav>Navigation junk</nav>
		<div class="job-description">Senior Engineer role requiring Go and Kubernetes.</div>
		<footer>Footer junk</footer>
	</body></html>`

	text, err := ExtractMainText(html, JobPostingSelectors())

	require.NoError(t, err)
	assert.Contains(t, text, "Senior Engineer role")
	assert.NotContains(t, text, "Navigation junk")
	assert.NotContains(t, text, "Footer junk")
}

func TestExtractMainText_FallsBackToBody(t *testing.T) {
	html := `<html><body><p>Plain page content</p></body></html>`

	text, err := ExtractMainText(html, []string{".does-not-exist"})

	require.NoError(t, err)
	assert.Contains(t, text, "Plain page content")
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want Platform
	}{
		{"https://boards.greenhouse.io/acme/jobs/123", PlatformGreenhouse},
		{"https://jobs.lever.co/acme/abc", PlatformLever},
		{"https://acme.wd1.myworkdayjobs.com/careers", PlatformWorkday},
		{"https://example.com/careers/123", PlatformUnknown},
		{"://bad", PlatformUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DetectPlatform(tt.url), tt.url)
	}
}

func TestPlatformContentSelectors_AlwaysIncludeGenericFallback(t *testing.T) {
	for _, platform := range []Platform{PlatformGreenhouse, PlatformLever, PlatformWorkday, PlatformUnknown} {
		selectors := PlatformContentSelectors(platform)
		assert.Contains(t, selectors, "main", "platform %s", platform)
	}
}

func TestShouldUseBrowser(t *testing.T) {
	assert.True(t, ShouldUseBrowser("too short"))
	assert.False(t, ShouldUseBrowser(strings.Repeat("long content ", 100)))
}
