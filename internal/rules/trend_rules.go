package rules

import (
	"time"

	"github.com/couchcryptid/water-health-alerting/internal/domain"
)

// detectRisingTrend (D1) compares a village's report count in the last 12h
// against the 12h before that and fires when the recent half is strictly
// larger and reaches at least three. The recent bucket has no upper bound,
// so a timestamp after ref still lands in it.
func detectRisingTrend(s *Snapshot, ref time.Time) []domain.Alert {
	cutRecent := ref.Add(-12 * time.Hour)
	cutPrior := ref.Add(-24 * time.Hour)

	var alerts []domain.Alert
	for _, village := range s.Villages() {
		var curr, prev int
		for _, sig := range s.Village(village) {
			switch {
			case !sig.Timestamp.Before(cutRecent):
				curr++
			case !sig.Timestamp.Before(cutPrior) && sig.Timestamp.Before(cutRecent):
				prev++
			}
		}
		if curr > prev && curr >= 3 {
			alerts = append(alerts, domain.Alert{
				Rule:    CodeRisingTrend,
				Level:   domain.LevelMedium,
				Village: village,
				Reason:  "Rising report trend",
			})
		}
	}
	return alerts
}

// detectContinuousReporting (D2) fires when a village's reports inside 24h
// span four or more distinct wall-clock hours of day (0-23, UTC). The
// bucket is the timestamp's hour field, not elapsed hours from ref: two
// reports at 09:05 and 09:55 share one bucket, and in a window crossing
// midnight 23:30 and 00:10 count as two. Preserved legacy semantics.
func detectContinuousReporting(s *Snapshot, ref time.Time) []domain.Alert {
	var alerts []domain.Alert
	for _, village := range s.Villages() {
		hours := make(map[int]struct{})
		for _, sig := range s.Village(village) {
			if withinWindow(sig.Timestamp, ref, 24) {
				hours[sig.Timestamp.UTC().Hour()] = struct{}{}
			}
		}
		if len(hours) >= 4 {
			alerts = append(alerts, domain.Alert{
				Rule:    CodeContinuousReporting,
				Level:   domain.LevelMedium,
				Village: village,
				Reason:  "Reports coming continuously",
			})
		}
	}
	return alerts
}

// detectLongTail (D3) fires when a village accumulates ten or more low- or
// medium-severity reports across 72h: a persistent grumble rather than a
// spike.
func detectLongTail(s *Snapshot, ref time.Time) []domain.Alert {
	var alerts []domain.Alert
	for _, village := range s.Villages() {
		n := 0
		for _, sig := range s.Village(village) {
			if !withinWindow(sig.Timestamp, ref, 72) {
				continue
			}
			if sig.Severity == domain.SeverityLow || sig.Severity == domain.SeverityMedium {
				n++
			}
		}
		if n >= 10 {
			alerts = append(alerts, domain.Alert{
				Rule:    CodeLongTail,
				Level:   domain.LevelMedium,
				Village: village,
				Reason:  "Persistent low/medium reports",
			})
		}
	}
	return alerts
}
