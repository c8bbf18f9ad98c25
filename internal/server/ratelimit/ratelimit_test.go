package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{},
		Blacklist:     map[string]bool{},
		EndpointConfigs: []EndpointConfig{
			{Path: "/analyze", Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},
		},
	}
}

func TestLimiter_BurstThenDenied(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	allowed, info := l.Allow("1.2.3.4", "/analyze", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 10, info.Limit)

	allowed, _ = l.Allow("1.2.3.4", "/analyze", "POST")
	assert.True(t, allowed)

	// Burst capacity of 2 is exhausted.
	allowed, info = l.Allow("1.2.3.4", "/analyze", "POST")
	assert.False(t, allowed)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_ClientsIsolated(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/analyze", "POST")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("1.2.3.4", "/analyze", "POST")
	assert.False(t, allowed)

	// A different client has its own bucket.
	allowed, _ = l.Allow("5.6.7.8", "/analyze", "POST")
	assert.True(t, allowed)
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	cfg := testConfig()
	cfg.Whitelist["10.0.0.1"] = true
	cfg.Blacklist["10.0.0.2"] = true
	l := NewLimiter(cfg)
	defer l.Stop()

	for i := 0; i < 20; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/analyze", "POST")
		assert.True(t, allowed)
	}

	allowed, _ := l.Allow("10.0.0.2", "/health", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 50; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/analyze", "POST")
		assert.True(t, allowed)
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/analyze", Method: "POST", Limit: 10},
		{Path: "/analyses/", Method: "GET", Limit: 50},
	}

	cfg := MatchEndpoint("/analyze", "POST", configs)
	require.NotNil(t, cfg)
	assert.Equal(t, 10, cfg.Limit)

	// Prefix match for paths ending in "/".
	cfg = MatchEndpoint("/analyses/abc-123", "GET", configs)
	require.NotNil(t, cfg)
	assert.Equal(t, 50, cfg.Limit)

	// Health check is always unlimited.
	cfg = MatchEndpoint("/health", "GET", configs)
	require.NotNil(t, cfg)
	assert.Equal(t, 0, cfg.Limit)

	assert.Nil(t, MatchEndpoint("/unknown", "GET", configs))
}

func TestBucket_Refills(t *testing.T) {
	// 100 tokens per second so the refill is observable in a short test.
	b := newBucket(1, 100)

	require.True(t, b.take())
	require.False(t, b.take())

	time.Sleep(20 * time.Millisecond)
	assert.True(t, b.take())
}
