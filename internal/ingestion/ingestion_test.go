package ingestion

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFile_CleansText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Doe\r\n\r\n\r\n\r\nProfile:\r\nEngineer.   \n"), 0o644))

	text, err := FromFile(path)

	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe")
	assert.NotContains(t, text, "\r")
	assert.NotContains(t, text, "\n\n\n")
}

func TestFromFile_UnsupportedFormat(t *testing.T) {
	_, err := FromFile("cv.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFromFile_Missing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestFromURL_ExtractsJobText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<nav>menu</nav>
			<div class="job-description">Required: Go, Kubernetes and five years of experience.</div>
		</body></html>`)
	}))
	defer server.Close()

	text, err := FromURL(context.Background(), server.URL, false, false)

	require.NoError(t, err)
	assert.Contains(t, text, "Required: Go, Kubernetes")
	assert.NotContains(t, text, "menu")
}

func TestFromURL_FetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := FromURL(context.Background(), server.URL, false, false)

	assert.ErrorIs(t, err, ErrHTTPRequestFailed)
}
