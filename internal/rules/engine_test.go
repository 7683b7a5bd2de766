package rules

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/water-health-alerting/internal/domain"
)

func TestEvaluateEmptyInput(t *testing.T) {
	result := NewEngine().Evaluate(nil, ref)

	assert.Empty(t, result.Candidates)
	assert.Empty(t, result.Alerts)
	assert.Empty(t, result.Warnings)
}

func TestEvaluateSingleRuleVillageProducesNoFinalAlerts(t *testing.T) {
	// One diverse-symptom report trips only C1. A village with a single
	// candidate is dropped by escalation, so the final output is empty.
	signals := []domain.Signal{
		sig("Riverside", domain.SeverityLow, time.Hour, "fever", "vomiting", "headache"),
	}

	result := NewEngine().Evaluate(signals, ref)

	require.Len(t, result.Candidates, 1)
	assert.Equal(t, CodeSymptomDiversity, result.Candidates[0].Rule)
	assert.Empty(t, result.Alerts)
}

func TestEvaluateHighSeverityBurst(t *testing.T) {
	// Three high reports in the last hour trip A1, A2 (two or more highs),
	// and D1 (three recent against an empty prior bucket). Three candidates
	// for one village escalate together.
	signals := repeat(3, "Riverside", domain.SeverityHigh, 10*time.Minute, 10*time.Minute)

	result := NewEngine().Evaluate(signals, ref)

	wantCandidates := []domain.Alert{
		{Rule: CodeHighSeverityCluster, Level: domain.LevelHigh, Village: "Riverside", Reason: "3 high severity reports in 24h"},
		{Rule: CodeMixedSeverity, Level: domain.LevelHigh, Village: "Riverside", Reason: "Mixed high and medium severity spike"},
		{Rule: CodeRisingTrend, Level: domain.LevelMedium, Village: "Riverside", Reason: "Rising report trend"},
	}
	if diff := cmp.Diff(wantCandidates, result.Candidates); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}

	wantAlerts := []domain.Alert{
		{Rule: CodeHighSeverityCluster, Level: domain.LevelHigh, Village: "Riverside", Reason: "3 high severity reports in 24h (multiple rules triggered)"},
		{Rule: CodeMixedSeverity, Level: domain.LevelHigh, Village: "Riverside", Reason: "Mixed high and medium severity spike (multiple rules triggered)"},
		{Rule: CodeRisingTrend, Level: domain.LevelHigh, Village: "Riverside", Reason: "Rising report trend (multiple rules triggered)"},
	}
	if diff := cmp.Diff(wantAlerts, result.Alerts); diff != "" {
		t.Errorf("alerts mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateMediumBurst(t *testing.T) {
	// Five medium reports in the last hour. Weighted score is exactly ten,
	// so E1 joins A3, B1, B2, and D1; everything escalates to HIGH.
	signals := repeat(5, "Lakeview", domain.SeverityMedium, 10*time.Minute, 10*time.Minute)

	result := NewEngine().Evaluate(signals, ref)

	wantCandidates := []domain.Alert{
		{Rule: CodeRepeatedMedium, Level: domain.LevelMedium, Village: "Lakeview", Reason: "5 medium severity reports in 48h"},
		{Rule: CodeVolume24h, Level: domain.LevelMedium, Village: "Lakeview", Reason: "5 reports in 24h"},
		{Rule: CodeVolume48h, Level: domain.LevelHigh, Village: "Lakeview", Reason: "5 reports in 48h"},
		{Rule: CodeRisingTrend, Level: domain.LevelMedium, Village: "Lakeview", Reason: "Rising report trend"},
		{Rule: CodeWeightedScore, Level: domain.LevelHigh, Village: "Lakeview", Reason: "Severity score 10 in 24h"},
	}
	if diff := cmp.Diff(wantCandidates, result.Candidates); diff != "" {
		t.Errorf("candidates mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, result.Alerts, 5)
	for i, a := range result.Alerts {
		assert.Equal(t, wantCandidates[i].Rule, a.Rule)
		assert.Equal(t, domain.LevelHigh, a.Level)
		assert.Equal(t, wantCandidates[i].Reason+" (multiple rules triggered)", a.Reason)
	}
}

func TestEvaluateVillagesStayIndependent(t *testing.T) {
	// Each village's counts are aggregated separately; neither reaches any
	// threshold on its own.
	signals := []domain.Signal{
		sig("Riverside", domain.SeverityHigh, time.Hour),
		sig("Lakeview", domain.SeverityHigh, time.Hour),
		sig("Hilltop", domain.SeverityHigh, time.Hour),
	}

	result := NewEngine().Evaluate(signals, ref)

	assert.Empty(t, result.Candidates)
	assert.Empty(t, result.Alerts)
}

func TestEvaluateDeterministic(t *testing.T) {
	// Interleaved villages: output order must be identical across runs
	// despite map-backed aggregation inside the rules.
	var signals []domain.Signal
	for i := 0; i < 3; i++ {
		signals = append(signals,
			sig("Riverside", domain.SeverityHigh, time.Duration(i+1)*time.Hour),
			sig("Lakeview", domain.SeverityMedium, time.Duration(i+1)*time.Hour),
		)
	}
	signals = append(signals,
		sig("Lakeview", domain.SeverityMedium, 4*time.Hour),
		sig("Lakeview", domain.SeverityMedium, 5*time.Hour),
	)

	engine := NewEngine()
	first := engine.Evaluate(signals, ref)
	require.NotEmpty(t, first.Alerts)

	for i := 0; i < 10; i++ {
		again := engine.Evaluate(signals, ref)
		if diff := cmp.Diff(first.Candidates, again.Candidates); diff != "" {
			t.Fatalf("run %d candidates differ (-first +again):\n%s", i, diff)
		}
		if diff := cmp.Diff(first.Alerts, again.Alerts); diff != "" {
			t.Fatalf("run %d alerts differ (-first +again):\n%s", i, diff)
		}
	}
}

func TestEvaluateRecordsSkipsInvalid(t *testing.T) {
	records := []domain.SignalRecord{
		{Village: "Riverside", Severity: "high", Timestamp: "2025-06-10T11:00:00", CommentID: 1},
		{Village: "", Severity: "high", Timestamp: "2025-06-10T11:00:00", CommentID: 2},
		{Village: "Riverside", Severity: "high", Timestamp: "garbage", CommentID: 3},
		{Village: "Riverside", Severity: "high", Timestamp: "2025-06-10T10:00:00", CommentID: 4},
		{Village: "Riverside", Severity: "high", Timestamp: "2025-06-10T09:00:00", CommentID: 5},
	}

	result := NewEngine().EvaluateRecords(records, ref)

	require.Len(t, result.Warnings, 2)
	assert.Equal(t, 1, result.Warnings[0].Index)
	assert.Equal(t, int64(2), result.Warnings[0].CommentID)
	assert.Equal(t, 2, result.Warnings[1].Index)
	assert.Equal(t, int64(3), result.Warnings[1].CommentID)

	// The three valid records still evaluate: A1 fires on them.
	var found bool
	for _, c := range result.Candidates {
		if c.Rule == CodeHighSeverityCluster {
			found = true
			assert.Equal(t, "3 high severity reports in 24h", c.Reason)
		}
	}
	assert.True(t, found, "expected A1 candidate from the surviving records")
}

func TestEvaluateAlertVillagesComeFromInput(t *testing.T) {
	signals := append(
		repeat(5, "Lakeview", domain.SeverityMedium, time.Hour, time.Hour),
		repeat(3, "Riverside", domain.SeverityHigh, time.Hour, time.Hour)...,
	)

	result := NewEngine().Evaluate(signals, ref)

	inputVillages := map[string]bool{"Lakeview": true, "Riverside": true}
	for _, a := range result.Alerts {
		assert.True(t, inputVillages[a.Village], "alert for unknown village %q", a.Village)
	}
}

func TestSnapshotVillageFirstAppearanceOrder(t *testing.T) {
	s := NewSnapshot([]domain.Signal{
		sig("Hilltop", domain.SeverityLow, time.Hour),
		sig("Riverside", domain.SeverityLow, time.Hour),
		sig("Hilltop", domain.SeverityLow, 2*time.Hour),
		sig("Lakeview", domain.SeverityLow, time.Hour),
		sig("Riverside", domain.SeverityLow, 2*time.Hour),
	})

	assert.Equal(t, []string{"Hilltop", "Riverside", "Lakeview"}, s.Villages())
	assert.Len(t, s.Village("Hilltop"), 2)
	assert.Len(t, s.Village("Riverside"), 2)
	assert.Len(t, s.Village("Lakeview"), 1)
	assert.Equal(t, 5, s.Len())
}
