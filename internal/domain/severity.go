package domain

import "strings"

// Severity classifies how serious a single health report is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ParseSeverity normalizes a raw severity string (trim, lowercase). The
// result may be unrecognized; callers that care use [Severity.Recognized].
func ParseSeverity(s string) Severity {
	return Severity(strings.ToLower(strings.TrimSpace(s)))
}

// Recognized reports whether the severity is one of the three known levels.
func (s Severity) Recognized() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	default:
		return false
	}
}

// Weight returns the numeric score used by the weighted-score rules:
// 1 for low, 2 for medium, 3 for high. Anything else scores 0, which keeps
// unrecognized severities out of severity-specific rules while volume rules
// still count the signal.
func (s Severity) Weight() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	default:
		return 0
	}
}
