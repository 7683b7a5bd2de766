package rules

import (
	"fmt"
	"time"

	"github.com/couchcryptid/water-health-alerting/internal/domain"
)

// detectHighSeverityCluster (A1) fires when a village has three or more
// high-severity reports inside 24h.
func detectHighSeverityCluster(s *Snapshot, ref time.Time) []domain.Alert {
	var alerts []domain.Alert
	for _, village := range s.Villages() {
		n := 0
		for _, sig := range s.Village(village) {
			if sig.Severity == domain.SeverityHigh && withinWindow(sig.Timestamp, ref, 24) {
				n++
			}
		}
		if n >= 3 {
			alerts = append(alerts, domain.Alert{
				Rule:    CodeHighSeverityCluster,
				Level:   domain.LevelHigh,
				Village: village,
				Reason:  fmt.Sprintf("%d high severity reports in 24h", n),
			})
		}
	}
	return alerts
}

// detectMixedSeverity (A2) fires on a spike of mixed high and medium
// reports inside 24h: two highs, or one high alongside two mediums.
func detectMixedSeverity(s *Snapshot, ref time.Time) []domain.Alert {
	var alerts []domain.Alert
	for _, village := range s.Villages() {
		var high, medium int
		for _, sig := range s.Village(village) {
			if !withinWindow(sig.Timestamp, ref, 24) {
				continue
			}
			switch sig.Severity {
			case domain.SeverityHigh:
				high++
			case domain.SeverityMedium:
				medium++
			}
		}
		if high >= 2 || (high >= 1 && medium >= 2) {
			alerts = append(alerts, domain.Alert{
				Rule:    CodeMixedSeverity,
				Level:   domain.LevelHigh,
				Village: village,
				Reason:  "Mixed high and medium severity spike",
			})
		}
	}
	return alerts
}

// detectRepeatedMedium (A3) fires when a village accumulates five or more
// medium-severity reports inside 48h.
func detectRepeatedMedium(s *Snapshot, ref time.Time) []domain.Alert {
	var alerts []domain.Alert
	for _, village := range s.Villages() {
		n := 0
		for _, sig := range s.Village(village) {
			if sig.Severity == domain.SeverityMedium && withinWindow(sig.Timestamp, ref, 48) {
				n++
			}
		}
		if n >= 5 {
			alerts = append(alerts, domain.Alert{
				Rule:    CodeRepeatedMedium,
				Level:   domain.LevelMedium,
				Village: village,
				Reason:  fmt.Sprintf("%d medium severity reports in 48h", n),
			})
		}
	}
	return alerts
}
