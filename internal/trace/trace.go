// Package trace generates analysis run identifiers and carries them
// through contexts so the log lines of one run can be correlated.
package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"
	"time"
)

// ContextKey is this package's typed key namespace.
type ContextKey string

// RunIDKey carries the analysis run ID.
const RunIDKey ContextKey = "run_id"

// NewRunID creates a unique identifier for one analysis run.
func NewRunID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to timestamp if random fails
		return fmt.Sprintf("run_%d", time.Now().UnixNano())
	}
	return "run_" + hex.EncodeToString(bytes)
}

// WithRunID returns a context carrying the run ID.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// RunID extracts the run ID from context, or an empty string when absent.
func RunID(ctx context.Context) string {
	if id, ok := ctx.Value(RunIDKey).(string); ok {
		return id
	}
	return ""
}

// Metrics tracks run counters across the process lifetime.
type Metrics struct {
	runs           int64
	lastDurationMs int64
}

// RecordRun counts a completed run and remembers its duration.
func (m *Metrics) RecordRun(d time.Duration) {
	atomic.AddInt64(&m.runs, 1)
	atomic.StoreInt64(&m.lastDurationMs, d.Milliseconds())
}

// Runs returns the number of completed runs.
func (m *Metrics) Runs() int64 {
	return atomic.LoadInt64(&m.runs)
}

// LastDuration returns the duration of the most recent run.
func (m *Metrics) LastDuration() time.Duration {
	return time.Duration(atomic.LoadInt64(&m.lastDurationMs)) * time.Millisecond
}
