package rules

import (
	"github.com/couchcryptid/water-health-alerting/internal/domain"
)

// Snapshot indexes an immutable signal sequence for one evaluation pass.
// Signals are bucketed by village once, shared read-only across all
// detectors, so each rule avoids a full linear scan per aggregation. The
// village list preserves first-appearance order: Go map iteration is
// randomized, and deterministic output requires a stable visit order.
type Snapshot struct {
	signals   []domain.Signal
	villages  []string
	byVillage map[string][]domain.Signal
}

// NewSnapshot builds the per-village index over the given signals.
func NewSnapshot(signals []domain.Signal) *Snapshot {
	s := &Snapshot{
		signals:   signals,
		byVillage: make(map[string][]domain.Signal),
	}
	for _, sig := range signals {
		if _, seen := s.byVillage[sig.Village]; !seen {
			s.villages = append(s.villages, sig.Village)
		}
		s.byVillage[sig.Village] = append(s.byVillage[sig.Village], sig)
	}
	return s
}

// Signals returns the full signal sequence in input order.
func (s *Snapshot) Signals() []domain.Signal { return s.signals }

// Villages returns village names in first-appearance order.
func (s *Snapshot) Villages() []string { return s.villages }

// Village returns the signals for one village in input order.
func (s *Snapshot) Village(name string) []domain.Signal { return s.byVillage[name] }

// Len returns the total signal count.
func (s *Snapshot) Len() int { return len(s.signals) }
