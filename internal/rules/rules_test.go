package rules

import (
	"time"

	"github.com/couchcryptid/water-health-alerting/internal/domain"
)

// ref is the shared reference instant for rule tests. Signal helpers place
// timestamps relative to it.
var ref = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

// sig builds a signal age before the reference instant.
func sig(village string, severity domain.Severity, age time.Duration, symptoms ...string) domain.Signal {
	return domain.Signal{
		Village:   village,
		Severity:  severity,
		Symptoms:  domain.ParseSymptoms(symptoms),
		Timestamp: ref.Add(-age),
	}
}

// repeat builds n signals for one village, the first age old and each
// subsequent one spread further back.
func repeat(n int, village string, severity domain.Severity, age, spread time.Duration, symptoms ...string) []domain.Signal {
	out := make([]domain.Signal, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, sig(village, severity, age+time.Duration(i)*spread, symptoms...))
	}
	return out
}

func snap(signals ...[]domain.Signal) *Snapshot {
	var all []domain.Signal
	for _, s := range signals {
		all = append(all, s...)
	}
	return NewSnapshot(all)
}
