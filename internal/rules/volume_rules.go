package rules

import (
	"fmt"
	"time"

	"github.com/couchcryptid/water-health-alerting/internal/domain"
)

// countInWindow counts a village's signals of any severity inside the window.
func countInWindow(signals []domain.Signal, ref time.Time, hours int) int {
	n := 0
	for _, sig := range signals {
		if withinWindow(sig.Timestamp, ref, hours) {
			n++
		}
	}
	return n
}

// detectVolume24h (B1): five or more reports of any severity inside 24h.
func detectVolume24h(s *Snapshot, ref time.Time) []domain.Alert {
	var alerts []domain.Alert
	for _, village := range s.Villages() {
		if n := countInWindow(s.Village(village), ref, 24); n >= 5 {
			alerts = append(alerts, domain.Alert{
				Rule:    CodeVolume24h,
				Level:   domain.LevelMedium,
				Village: village,
				Reason:  fmt.Sprintf("%d reports in 24h", n),
			})
		}
	}
	return alerts
}

// detectVolume48h (B2): five or more reports of any severity inside 48h.
func detectVolume48h(s *Snapshot, ref time.Time) []domain.Alert {
	var alerts []domain.Alert
	for _, village := range s.Villages() {
		if n := countInWindow(s.Village(village), ref, 48); n >= 5 {
			alerts = append(alerts, domain.Alert{
				Rule:    CodeVolume48h,
				Level:   domain.LevelHigh,
				Village: village,
				Reason:  fmt.Sprintf("%d reports in 48h", n),
			})
		}
	}
	return alerts
}

// detectExtremeVolume (B3): ten or more reports inside 48h. Shares B2's
// window, so any village that trips B3 has already tripped B2 at a lower
// level; B3 adds the CRITICAL escalation on top.
func detectExtremeVolume(s *Snapshot, ref time.Time) []domain.Alert {
	var alerts []domain.Alert
	for _, village := range s.Villages() {
		if n := countInWindow(s.Village(village), ref, 48); n >= 10 {
			alerts = append(alerts, domain.Alert{
				Rule:    CodeExtremeVolume,
				Level:   domain.LevelCritical,
				Village: village,
				Reason:  fmt.Sprintf("%d reports in 48h", n),
			})
		}
	}
	return alerts
}
