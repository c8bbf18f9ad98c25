package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-optimizer/internal/types"
)

// fakeClock advances only when told to.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	b := NewCircuitBreaker(3, 5*time.Minute, clock)

	require.True(t, b.Allow())
	b.RecordFailure()
	b.RecordFailure()
	require.True(t, b.Allow(), "two failures must not open the breaker")

	b.RecordFailure()
	assert.False(t, b.Allow(), "third failure must open the breaker")
	assert.Equal(t, "open", b.State())
}

func TestCircuitBreaker_ClosesAfterCooldown(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	b := NewCircuitBreaker(3, 5*time.Minute, clock)
	for i := 0; i < 3; i++ {
		b.RecordFailure()
	}
	require.False(t, b.Allow())

	clock.advance(5 * time.Minute)

	assert.True(t, b.Allow(), "cooldown elapsed, remote calls must be allowed again")
	assert.Equal(t, "closed", b.State())

	// Counter was reset: two fresh failures do not re-open it.
	b.RecordFailure()
	b.RecordFailure()
	assert.True(t, b.Allow())
}

func TestCircuitBreaker_SuccessResetsCounter(t *testing.T) {
	b := NewCircuitBreaker(3, 5*time.Minute, &fakeClock{})

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()

	assert.True(t, b.Allow())
}

// countingRemote fails a fixed number of times, then succeeds.
type countingRemote struct {
	calls    int
	failures int
}

func (r *countingRemote) Analyze(ctx context.Context, cvText, jobText string) (*types.JobMatchAnalysis, error) {
	r.calls++
	if r.calls <= r.failures {
		return nil, errors.New("simulated remote failure")
	}
	return &types.JobMatchAnalysis{Score: 80}, nil
}

func (r *countingRemote) Optimize(ctx context.Context, cvText, jobText string, analysis *types.JobMatchAnalysis) (string, *types.JobMatchAnalysis, error) {
	r.calls++
	if r.calls <= r.failures {
		return "", nil, errors.New("simulated remote failure")
	}
	return "optimized", nil, nil
}

type stubLocal struct{}

func (stubLocal) Analyze(ctx context.Context, cvText, jobText string) (*types.JobMatchAnalysis, error) {
	a := &types.JobMatchAnalysis{Score: 55}
	a.Normalize()
	return a, nil
}

func (stubLocal) Optimize(ctx context.Context, cvText, jobText string) (*types.StructuredCV, *types.JobMatchAnalysis, error) {
	return types.NewStructuredCV(), &types.JobMatchAnalysis{Score: 55}, nil
}

func TestOrchestrator_SkipsRemoteWhileOpen(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	remote := &countingRemote{failures: 100}
	o := NewOrchestrator(remote, stubLocal{}, NewCircuitBreaker(3, 5*time.Minute, clock))

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		result, err := o.Analyze(ctx, "cv", "job", nil)
		require.NoError(t, err)
		assert.Equal(t, SourceLocal, result.Source)
	}
	require.Equal(t, 3, remote.calls)

	// Breaker is open: the 4th request must not attempt a remote call.
	result, err := o.Analyze(ctx, "cv", "job", nil)
	require.NoError(t, err)
	assert.Equal(t, SourceLocal, result.Source)
	assert.Equal(t, 3, remote.calls)

	// After cooldown the next request tries the remote again.
	clock.advance(5 * time.Minute)
	_, err = o.Analyze(ctx, "cv", "job", nil)
	require.NoError(t, err)
	assert.Equal(t, 4, remote.calls)
}

func TestOrchestrator_RemoteSuccessPreferred(t *testing.T) {
	remote := &countingRemote{failures: 0}
	o := NewOrchestrator(remote, stubLocal{}, nil)

	result, err := o.Analyze(context.Background(), "cv", "job", nil)

	require.NoError(t, err)
	assert.Equal(t, SourceRemote, result.Source)
	assert.Equal(t, 80, result.Analysis.Score)
}

// The match analysis is optional on the remote optimize wire; a remote
// success without one must still produce a scored result.
func TestOrchestrator_RemoteOptimizeWithoutAnalysisScoresLocally(t *testing.T) {
	remote := &countingRemote{failures: 0}
	o := NewOrchestrator(remote, stubLocal{}, nil)

	result, err := o.Optimize(context.Background(), "cv", "job", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, SourceRemote, result.Source)
	assert.Equal(t, "optimized", result.OptimizedText)
	require.NotNil(t, result.Analysis)
	assert.Equal(t, 55, result.Analysis.Score)
}

func TestOrchestrator_RemoteOptimizeReusesPriorAnalysis(t *testing.T) {
	remote := &countingRemote{failures: 0}
	o := NewOrchestrator(remote, stubLocal{}, nil)
	prior := &types.JobMatchAnalysis{Score: 91}

	result, err := o.Optimize(context.Background(), "cv", "job", prior, nil)

	require.NoError(t, err)
	assert.Equal(t, SourceRemote, result.Source)
	require.NotNil(t, result.Analysis)
	assert.Equal(t, 91, result.Analysis.Score)
}

func TestOrchestrator_NilRemoteRunsLocal(t *testing.T) {
	o := NewOrchestrator(nil, stubLocal{}, nil)

	result, err := o.Optimize(context.Background(), "cv", "job", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, SourceLocal, result.Source)
	require.NotNil(t, result.OptimizedCV)
}

func TestProgressAt_PiecewiseLinear(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    int
	}{
		{0, 0},
		{2500 * time.Millisecond, 20},
		{5 * time.Second, 40},
		{10 * time.Second, 55},
		{30 * time.Second, 95},
		{2 * time.Minute, 95},
	}
	for _, tt := range tests {
		got, _ := progressAt(tt.elapsed)
		assert.Equal(t, tt.want, got, "elapsed=%s", tt.elapsed)
	}
}
