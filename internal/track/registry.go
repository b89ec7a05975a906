package track

import (
	"context"
	"sync"
	"time"

	"eternalpay/internal/adapters"
)

// Registry hands out one tracker per transaction id. Trackers are started on
// first request against the registry's base context, so they outlive the
// HTTP request that created them.
type Registry struct {
	baseCtx  context.Context
	client   adapters.TransactionClient
	pix      *PixService
	interval time.Duration

	mu       sync.Mutex
	trackers map[string]*Tracker
}

func NewRegistry(baseCtx context.Context, client adapters.TransactionClient, pix *PixService, interval time.Duration) *Registry {
	return &Registry{
		baseCtx:  baseCtx,
		client:   client,
		pix:      pix,
		interval: interval,
		trackers: make(map[string]*Tracker),
	}
}

// Track returns the tracker for id, creating and starting it when absent.
func (r *Registry) Track(id string) *Tracker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.trackers[id]; ok {
		return t
	}
	t := NewTracker(id, r.client, r.pix, r.interval)
	t.Start(r.baseCtx)
	r.trackers[id] = t
	return t
}

// StopAll cancels every tracker and waits for the loops to exit.
func (r *Registry) StopAll() {
	r.mu.Lock()
	trackers := make([]*Tracker, 0, len(r.trackers))
	for _, t := range r.trackers {
		trackers = append(trackers, t)
	}
	r.mu.Unlock()

	for _, t := range trackers {
		t.Stop()
	}
}
