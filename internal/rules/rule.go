package rules

import (
	"time"

	"github.com/couchcryptid/water-health-alerting/internal/domain"
)

// Rule codes, one per detector, stable across releases: downstream
// consumers key dashboards and delivery routing on them.
const (
	CodeHighSeverityCluster  = "A1_HIGH_SEVERITY_CLUSTER"
	CodeMixedSeverity        = "A2_MIXED_SEVERITY"
	CodeRepeatedMedium       = "A3_REPEATED_MEDIUM"
	CodeVolume24h            = "B1_VOLUME_24H"
	CodeVolume48h            = "B2_VOLUME_48H"
	CodeExtremeVolume        = "B3_EXTREME_VOLUME"
	CodeSymptomDiversity     = "C1_SYMPTOM_DIVERSITY"
	CodeFeverLooseMotion     = "C2_FEVER_LOOSE_MOTION"
	CodeWeaknessDominant     = "C3_WEAKNESS_DOMINANT"
	CodeRisingTrend          = "D1_RISING_TREND"
	CodeContinuousReporting  = "D2_CONTINUOUS_REPORTING"
	CodeLongTail             = "D3_LONG_TAIL"
	CodeWeightedScore        = "E1_WEIGHTED_SCORE"
	CodeScoreGrowth          = "E2_SCORE_GROWTH"
)

// DetectFunc evaluates one detection rule over a snapshot against a
// reference instant and returns zero or more candidate alerts.
type DetectFunc func(s *Snapshot, ref time.Time) []domain.Alert

// Rule pairs a stable code with its detector.
type Rule struct {
	Code   string
	Detect DetectFunc
}

// DefaultRules returns the full registry in fixed evaluation order. The
// order matters: candidate alerts are concatenated in registry order before
// escalation, and that order survives into the final output.
func DefaultRules() []Rule {
	return []Rule{
		{Code: CodeHighSeverityCluster, Detect: detectHighSeverityCluster},
		{Code: CodeMixedSeverity, Detect: detectMixedSeverity},
		{Code: CodeRepeatedMedium, Detect: detectRepeatedMedium},
		{Code: CodeVolume24h, Detect: detectVolume24h},
		{Code: CodeVolume48h, Detect: detectVolume48h},
		{Code: CodeExtremeVolume, Detect: detectExtremeVolume},
		{Code: CodeSymptomDiversity, Detect: detectSymptomDiversity},
		{Code: CodeFeverLooseMotion, Detect: detectFeverLooseMotion},
		{Code: CodeWeaknessDominant, Detect: detectWeaknessDominant},
		{Code: CodeRisingTrend, Detect: detectRisingTrend},
		{Code: CodeContinuousReporting, Detect: detectContinuousReporting},
		{Code: CodeLongTail, Detect: detectLongTail},
		{Code: CodeWeightedScore, Detect: detectWeightedScore},
		{Code: CodeScoreGrowth, Detect: detectScoreGrowth},
	}
}

// withinWindow reports whether ts falls inside the lookback window ending
// at ref: ts >= ref - hours. Timestamps after ref also qualify.
func withinWindow(ts, ref time.Time, hours int) bool {
	return !ts.Before(ref.Add(-time.Duration(hours) * time.Hour))
}
