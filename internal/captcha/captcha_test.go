package captcha

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func verifierFor(t *testing.T, handler http.HandlerFunc) *Verifier {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewVerifier(&Options{Secret: "test-secret", VerifyURL: server.URL})
}

func TestVerify_Success(t *testing.T) {
	v := verifierFor(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "test-secret", r.Form.Get("secret"))
		assert.Equal(t, "tok", r.Form.Get("response"))
		fmt.Fprint(w, `{"success": true, "score": 0.9, "action": "analyze"}`)
	})

	result, err := v.Verify(context.Background(), "tok", 0.5, "analyze")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 0.9, result.Score)
}

func TestVerify_ScoreBelowMinimum(t *testing.T) {
	v := verifierFor(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": true, "score": 0.2, "action": "analyze"}`)
	})

	result, err := v.Verify(context.Background(), "tok", 0.5, "analyze")

	require.Error(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 0.2, result.Score)
}

func TestVerify_ActionMismatch(t *testing.T) {
	v := verifierFor(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": true, "score": 0.9, "action": "login"}`)
	})

	_, err := v.Verify(context.Background(), "tok", 0.5, "analyze")

	assert.Error(t, err)
}

func TestVerify_RejectedToken(t *testing.T) {
	v := verifierFor(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success": false, "error-codes": ["invalid-input-response"]}`)
	})

	_, err := v.Verify(context.Background(), "tok", 0.5, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid-input-response")
}

func TestVerify_DisabledPassesEverything(t *testing.T) {
	v := NewVerifier(nil)

	result, err := v.Verify(context.Background(), "", 0.5, "analyze")

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, v.Enabled())
}

func TestVerify_MissingToken(t *testing.T) {
	v := NewVerifier(&Options{Secret: "s"})

	_, err := v.Verify(context.Background(), "", 0.5, "analyze")

	assert.Error(t, err)
}
