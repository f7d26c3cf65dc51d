package comms

import (
	"sync"

	"github.com/aegiscyber/portal-services/pkg/metrics"
)

// Subscription is a standing watch on one client's message set. Every change
// to the set yields a complete, re-sorted snapshot on Snapshots(); consumers
// must treat each value as a full state replacement, not an append. A slow
// consumer only ever sees the newest snapshot: stale ones are coalesced away.
type Subscription struct {
	snapshots chan []Message
	done      chan struct{}
	closeOnce sync.Once

	// detach from the underlying source; set by the repository
	stop func()
}

func newSubscription() *Subscription {
	return &Subscription{
		snapshots: make(chan []Message, 1),
		done:      make(chan struct{}),
	}
}

// Snapshots returns the channel of full-set snapshots. It is closed when the
// subscription ends (Close, context cancellation, or a store-side error).
func (s *Subscription) Snapshots() <-chan []Message { return s.snapshots }

// Close releases the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.stop != nil {
			s.stop()
		}
	})
}

// publish delivers snap, replacing any undelivered older snapshot. Returns
// false once the subscription is closed.
func (s *Subscription) publish(snap []Message) bool {
	for {
		select {
		case <-s.done:
			return false
		case s.snapshots <- snap:
			metrics.SnapshotsDelivered.Inc()
			return true
		default:
		}
		// consumer lagging: evict the stale snapshot and retry
		select {
		case <-s.snapshots:
		default:
		}
	}
}
