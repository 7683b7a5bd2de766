package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Structural failures that cause a record to be skipped with a warning.
var (
	ErrMissingVillage  = errors.New("signal village is empty")
	ErrMissingSeverity = errors.New("signal severity is empty")
	ErrBadTimestamp    = errors.New("signal timestamp cannot be parsed")
)

// signalTimestampFormats lists the layouts we attempt, most common first.
// The extractor emits Python-style naive ISO 8601 with microseconds; naive
// values are interpreted as UTC.
var signalTimestampFormats = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses a signal timestamp string into a UTC instant.
func ParseTimestamp(ts string) (time.Time, error) {
	ts = strings.TrimSpace(ts)
	if ts == "" {
		return time.Time{}, ErrBadTimestamp
	}
	for _, layout := range signalTimestampFormats {
		if t, err := time.Parse(layout, ts); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrBadTimestamp
}

// ParseSignalRecord validates and converts a raw record into a Signal.
// Village, severity, and a parseable timestamp are required; symptoms,
// water_source, and comment_id are optional.
func ParseSignalRecord(rec SignalRecord) (Signal, error) {
	village := strings.TrimSpace(rec.Village)
	if village == "" {
		return Signal{}, ErrMissingVillage
	}
	if strings.TrimSpace(rec.Severity) == "" {
		return Signal{}, ErrMissingSeverity
	}

	ts, err := ParseTimestamp(rec.Timestamp)
	if err != nil {
		return Signal{}, fmt.Errorf("timestamp %q: %w", rec.Timestamp, err)
	}

	return Signal{
		Village:     village,
		Severity:    ParseSeverity(rec.Severity),
		Symptoms:    ParseSymptoms(rec.Symptoms),
		WaterSource: strings.TrimSpace(rec.WaterSource),
		Timestamp:   ts,
		CommentID:   rec.CommentID,
	}, nil
}

// ParseRawEvent deserializes a RawEvent's value into a Signal. It expects
// the flat JSON produced by the extraction service.
func ParseRawEvent(raw RawEvent) (Signal, error) {
	var rec SignalRecord
	if err := json.Unmarshal(raw.Value, &rec); err != nil {
		return Signal{}, fmt.Errorf("parse raw signal: %w", err)
	}
	signal, err := ParseSignalRecord(rec)
	if err != nil {
		return Signal{}, fmt.Errorf("parse raw signal: %w", err)
	}
	return signal, nil
}
