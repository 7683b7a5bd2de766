package domain

import (
	"context"
	"time"
)

// SignalRecord represents the flat JSON structure produced by the extraction
// service. Timestamps arrive as strings because the extractor emits naive
// ISO 8601 values; parsing happens in [ParseSignalRecord].
type SignalRecord struct {
	Village     string   `json:"village"`
	Severity    string   `json:"severity"`
	Symptoms    []string `json:"symptoms,omitempty"`
	WaterSource string   `json:"water_source,omitempty"` // informational, unused by rules
	Timestamp   string   `json:"timestamp"`
	CommentID   int64    `json:"comment_id,omitempty"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// Signal is the domain-rich representation after parsing: one structured
// health observation tied to a village, severity, and symptom set.
type Signal struct {
	Village     string     `json:"village"`
	Severity    Severity   `json:"severity"`
	Symptoms    SymptomSet `json:"symptoms,omitempty"`
	WaterSource string     `json:"water_source,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
	CommentID   int64      `json:"comment_id,omitempty"`
}
