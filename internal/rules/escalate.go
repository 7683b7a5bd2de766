package rules

import (
	"github.com/couchcryptid/water-health-alerting/internal/domain"
)

// escalationNote is appended to the reason of every corroborated alert.
const escalationNote = " (multiple rules triggered)"

// Escalate applies the cross-rule corroboration pass (rule F). Candidates
// are grouped by village; a village with two or more candidates has every
// one of them upgraded to HIGH with a corroboration note, preserving the
// original candidate order. A village with exactly one candidate is dropped
// from the output entirely.
//
// Dropping singletons means the final output contains no unescalated
// alerts: a village that trips exactly one rule is invisible downstream.
// Preserved legacy behavior; see DESIGN.md before changing it.
func Escalate(candidates []domain.Alert) []domain.Alert {
	counts := make(map[string]int, len(candidates))
	for _, c := range candidates {
		counts[c.Village]++
	}

	var out []domain.Alert
	for _, c := range candidates {
		if counts[c.Village] < 2 {
			continue
		}
		c.Level = domain.LevelHigh
		c.Reason += escalationNote
		out = append(out, c)
	}
	return out
}
