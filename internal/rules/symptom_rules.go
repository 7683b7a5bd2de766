package rules

import (
	"time"

	"github.com/couchcryptid/water-health-alerting/internal/domain"
)

// detectSymptomDiversity (C1) fires once per signal carrying three or more
// distinct symptoms. Unlike every other rule it is neither windowed nor
// aggregated: each qualifying signal emits its own alert, so a village with
// several diverse reports appears several times in the candidate list.
func detectSymptomDiversity(s *Snapshot, _ time.Time) []domain.Alert {
	var alerts []domain.Alert
	for _, sig := range s.Signals() {
		if sig.Symptoms.Count() >= 3 {
			alerts = append(alerts, domain.Alert{
				Rule:    CodeSymptomDiversity,
				Level:   domain.LevelMedium,
				Village: sig.Village,
				Reason:  "Single report has 3+ symptoms",
			})
		}
	}
	return alerts
}

// detectFeverLooseMotion (C2) fires when three or more signals in a village
// report both fever and loose motion inside 24h, the classic waterborne
// outbreak pairing.
func detectFeverLooseMotion(s *Snapshot, ref time.Time) []domain.Alert {
	var alerts []domain.Alert
	for _, village := range s.Villages() {
		n := 0
		for _, sig := range s.Village(village) {
			if withinWindow(sig.Timestamp, ref, 24) &&
				sig.Symptoms.Has(domain.SymptomFever) && sig.Symptoms.Has(domain.SymptomLooseMotion) {
				n++
			}
		}
		if n >= 3 {
			alerts = append(alerts, domain.Alert{
				Rule:    CodeFeverLooseMotion,
				Level:   domain.LevelHigh,
				Village: village,
				Reason:  "Fever + loose motion cluster",
			})
		}
	}
	return alerts
}

// detectWeaknessDominant (C3) fires when four or more signals in a village
// report weakness inside 24h.
func detectWeaknessDominant(s *Snapshot, ref time.Time) []domain.Alert {
	var alerts []domain.Alert
	for _, village := range s.Villages() {
		n := 0
		for _, sig := range s.Village(village) {
			if withinWindow(sig.Timestamp, ref, 24) && sig.Symptoms.Has(domain.SymptomWeakness) {
				n++
			}
		}
		if n >= 4 {
			alerts = append(alerts, domain.Alert{
				Rule:    CodeWeaknessDominant,
				Level:   domain.LevelMedium,
				Village: village,
				Reason:  "Weakness reported frequently",
			})
		}
	}
	return alerts
}
