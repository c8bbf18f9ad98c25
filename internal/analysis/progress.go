package analysis

import (
	"context"
	"sync"
	"time"
)

// ProgressEvent represents a progress update during analysis execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Percent int    `json:"percent"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when analysis progress occurs
type ProgressCallback func(event ProgressEvent)

// progressStage is one linear segment of the synthetic progress curve.
type progressStage struct {
	until   time.Duration
	from    int
	to      int
	message string
}

// The synthetic curve spans roughly 30 seconds. It exists purely for
// caller feedback; the local computation it narrates is near-instant
// and never blocks on the ticker.
var progressStages = []progressStage{
	{until: 5 * time.Second, from: 0, to: 40, message: "Extracting CV structure"},
	{until: 15 * time.Second, from: 40, to: 70, message: "Scoring against job description"},
	{until: 30 * time.Second, from: 70, to: 95, message: "Preparing recommendations"},
}

const progressTick = 500 * time.Millisecond

// startSyntheticProgress emits piecewise-linear progress events until
// the returned stop function is called or ctx is cancelled. stop is
// idempotent.
func startSyntheticProgress(ctx context.Context, cb ProgressCallback) (stop func()) {
	if cb == nil {
		return func() {}
	}

	done := make(chan struct{})
	var once sync.Once
	stop = func() { once.Do(func() { close(done) }) }

	go func() {
		start := time.Now()
		ticker := time.NewTicker(progressTick)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				percent, message := progressAt(now.Sub(start))
				cb(ProgressEvent{Step: "analysis", Message: message, Percent: percent})
			}
		}
	}()
	return stop
}

// progressAt maps elapsed time onto the piecewise-linear curve.
func progressAt(elapsed time.Duration) (int, string) {
	var begin time.Duration
	for _, stage := range progressStages {
		if elapsed < stage.until {
			span := stage.until - begin
			frac := float64(elapsed-begin) / float64(span)
			return stage.from + int(frac*float64(stage.to-stage.from)), stage.message
		}
		begin = stage.until
	}
	last := progressStages[len(progressStages)-1]
	return last.to, last.message
}
