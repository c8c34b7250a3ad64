// Package reachability turns a connectivity probe into a boolean signal
// that interested components subscribe to. The uploader daemon listens
// for the offline-to-online transition to start draining queued commands.
package reachability

import (
	"context"
	"sync"
	"time"

	"github.com/dbakhtin/socialsync/internal/logging"
)

// Listener receives reachability transitions. Duplicate states are
// coalesced: a listener only ever sees actual changes.
type Listener interface {
	NetworkStatusChanged(reachable bool)
}

// Probe checks connectivity once, typically by pinging the API status
// endpoint. A nil error means the network is reachable.
type Probe func(ctx context.Context) error

// Tracker multicasts reachability changes to registered listeners.
// State can be driven by Watch or set directly (tests, platform hooks).
type Tracker struct {
	log logging.Logger

	mu        sync.Mutex
	reachable bool
	listeners map[Listener]struct{}
}

func New(log logging.Logger) *Tracker {
	return &Tracker{
		log:       log,
		listeners: make(map[Listener]struct{}),
	}
}

func (t *Tracker) AddListener(l Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners[l] = struct{}{}
}

func (t *Tracker) RemoveListener(l Listener) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.listeners, l)
}

func (t *Tracker) IsReachable() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reachable
}

// SetReachable records the new state and notifies listeners if it
// changed. Notification happens outside the lock so a listener may call
// back into the tracker.
func (t *Tracker) SetReachable(reachable bool) {
	t.mu.Lock()
	if t.reachable == reachable {
		t.mu.Unlock()
		return
	}
	t.reachable = reachable
	notify := make([]Listener, 0, len(t.listeners))
	for l := range t.listeners {
		notify = append(notify, l)
	}
	t.mu.Unlock()

	t.log.Info(context.Background(), "network status changed", "reachable", reachable)
	for _, l := range notify {
		l.NetworkStatusChanged(reachable)
	}
}

// Watch probes connectivity on a ticker until ctx is cancelled. Each
// probe runs under its own timeout so a stalled network call cannot
// delay the next tick indefinitely.
func (t *Tracker) Watch(ctx context.Context, probe Probe, interval, probeTimeout time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			err := probe(probeCtx)
			cancel()
			t.SetReachable(err == nil)
		case <-ctx.Done():
			return
		}
	}
}
