package rules

import (
	"fmt"
	"time"

	"github.com/couchcryptid/water-health-alerting/internal/domain"
)

// detectWeightedScore (E1) sums severity weights (low 1, medium 2, high 3,
// unrecognized 0) over a village's reports inside 24h and fires at a score
// of ten or more.
func detectWeightedScore(s *Snapshot, ref time.Time) []domain.Alert {
	var alerts []domain.Alert
	for _, village := range s.Villages() {
		score := 0
		for _, sig := range s.Village(village) {
			if withinWindow(sig.Timestamp, ref, 24) {
				score += sig.Severity.Weight()
			}
		}
		if score >= 10 {
			alerts = append(alerts, domain.Alert{
				Rule:    CodeWeightedScore,
				Level:   domain.LevelHigh,
				Village: village,
				Reason:  fmt.Sprintf("Severity score %d in 24h", score),
			})
		}
	}
	return alerts
}

// detectScoreGrowth (E2) compares a village's weighted score over the last
// 24h against the 24h before that and fires when the prior score is
// positive and the current score has grown to at least 1.5x it. The recent
// bucket has no upper bound, matching D1.
func detectScoreGrowth(s *Snapshot, ref time.Time) []domain.Alert {
	cutRecent := ref.Add(-24 * time.Hour)
	cutPrior := ref.Add(-48 * time.Hour)

	var alerts []domain.Alert
	for _, village := range s.Villages() {
		var curr, prev int
		for _, sig := range s.Village(village) {
			w := sig.Severity.Weight()
			switch {
			case !sig.Timestamp.Before(cutRecent):
				curr += w
			case !sig.Timestamp.Before(cutPrior) && sig.Timestamp.Before(cutRecent):
				prev += w
			}
		}
		if prev > 0 && float64(curr) >= 1.5*float64(prev) {
			alerts = append(alerts, domain.Alert{
				Rule:    CodeScoreGrowth,
				Level:   domain.LevelMedium,
				Village: village,
				Reason:  "Severity score rising rapidly",
			})
		}
	}
	return alerts
}
