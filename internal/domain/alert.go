package domain

import (
	"time"

	"github.com/google/uuid"
)

// Level is the urgency of an alert.
type Level string

const (
	LevelLow      Level = "LOW"
	LevelMedium   Level = "MEDIUM"
	LevelHigh     Level = "HIGH"
	LevelCritical Level = "CRITICAL"
)

// Alert is one detection-rule finding for a village. Before the escalation
// pass it is a candidate; after, a final alert whose level may have been
// upgraded and whose reason may carry a corroboration note.
type Alert struct {
	Rule    string `json:"rule"`
	Level   Level  `json:"level"`
	Village string `json:"village"`
	Reason  string `json:"reason"`
}

// AlertBatch wraps one evaluation run's output for downstream consumers.
// RunID lets delivery dedupe batches; GeneratedAt is the reference instant
// the run was evaluated against.
type AlertBatch struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	SignalCount int       `json:"signal_count"`
	AlertCount  int       `json:"alert_count"`
	Alerts      []Alert   `json:"alerts"`
}

// NewAlertBatch assembles a batch with a fresh run ID.
func NewAlertBatch(generatedAt time.Time, signalCount int, alerts []Alert) AlertBatch {
	return AlertBatch{
		RunID:       uuid.NewString(),
		GeneratedAt: generatedAt,
		SignalCount: signalCount,
		AlertCount:  len(alerts),
		Alerts:      alerts,
	}
}
