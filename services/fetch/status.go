package fetch

import (
	"context"
	"sync"

	"github.com/freedesk/mailroom/interfaces"
)

// RecordingFetcher wraps an EmailFetcher and remembers the most recent
// run result, which the status endpoint serves.
type RecordingFetcher struct {
	inner interfaces.EmailFetcher

	mu      sync.RWMutex
	lastRun *interfaces.RunResult
}

func NewRecordingFetcher(inner interfaces.EmailFetcher) *RecordingFetcher {
	return &RecordingFetcher{inner: inner}
}

func (r *RecordingFetcher) Run(ctx context.Context) interfaces.RunResult {
	result := r.inner.Run(ctx)
	r.mu.Lock()
	r.lastRun = &result
	r.mu.Unlock()
	return result
}

// LastRun returns the most recent run result, or nil before the first run.
func (r *RecordingFetcher) LastRun() *interfaces.RunResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastRun
}
