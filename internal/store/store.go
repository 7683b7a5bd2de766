// Package store holds the in-memory rolling window of signals the
// evaluation loop reads from. The engine itself is stateless; the window is
// pipeline state, rebuilt from the source topic on restart.
package store

import (
	"sync"
	"time"

	"github.com/couchcryptid/water-health-alerting/internal/domain"
)

// Store is a mutex-guarded rolling window of parsed signals in arrival
// order. Retention must cover the engine's longest lookback (72h);
// anything older can never influence a rule and is pruned.
type Store struct {
	retention time.Duration

	mu      sync.Mutex
	signals []domain.Signal
}

// New creates an empty store with the given retention horizon.
func New(retention time.Duration) *Store {
	return &Store{retention: retention}
}

// Add appends one signal to the window.
func (s *Store) Add(sig domain.Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signals = append(s.signals, sig)
}

// AddBatch appends signals preserving their order.
func (s *Store) AddBatch(sigs []domain.Signal) {
	if len(sigs) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signals = append(s.signals, sigs...)
}

// Snapshot returns a copy of the window in arrival order, safe to read
// while the store keeps ingesting.
func (s *Store) Snapshot() []domain.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Signal, len(s.signals))
	copy(out, s.signals)
	return out
}

// Len returns the current window size.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.signals)
}

// Prune drops signals whose timestamp has fallen out of the retention
// horizon relative to ref, returning how many were removed. Arrival order
// of the survivors is preserved.
func (s *Store) Prune(ref time.Time) int {
	horizon := ref.Add(-s.retention)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.signals[:0]
	for _, sig := range s.signals {
		if !sig.Timestamp.Before(horizon) {
			kept = append(kept, sig)
		}
	}
	removed := len(s.signals) - len(kept)
	// Zero the tail so dropped signals do not pin memory.
	for i := len(kept); i < len(s.signals); i++ {
		s.signals[i] = domain.Signal{}
	}
	s.signals = kept
	return removed
}
