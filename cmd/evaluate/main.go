// Command evaluate runs the detection rules over a JSON file of signal
// records at a fixed reference instant and prints the resulting alerts.
// It uses the actual engine package, so its output matches what the
// service would publish for the same window.
//
// Usage:
//
//	go run ./cmd/evaluate \
//	  -signals data/mock/signals_outbreak.json \
//	  -at 2025-06-10T12:00:00Z \
//	  -json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/water-health-alerting/internal/domain"
	"github.com/couchcryptid/water-health-alerting/internal/rules"
)

func main() {
	if code := run(); code != 0 {
		os.Exit(code)
	}
}

func run() int {
	signalsPath := flag.String("signals", "", "path to JSON array of signal records")
	at := flag.String("at", "", "reference instant, RFC 3339 (default: now)")
	asJSON := flag.Bool("json", false, "emit the alert batch as JSON instead of a report")
	flag.Parse()

	if *signalsPath == "" {
		flag.Usage()
		return 1
	}

	ref := time.Now().UTC()
	if *at != "" {
		parsed, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: invalid -at value %q: %v\n", *at, err)
			return 1
		}
		ref = parsed.UTC()
	}

	records, err := loadRecords(*signalsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load signals: %v\n", err)
		return 1
	}

	result := rules.NewEngine().EvaluateRecords(records, ref)

	if *asJSON {
		batch := domain.NewAlertBatch(ref, len(records)-len(result.Warnings), result.Alerts)
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(batch); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: encode output: %v\n", err)
			return 1
		}
		return 0
	}

	printReport(ref, len(records), result)
	return 0
}

func loadRecords(path string) ([]domain.SignalRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []domain.SignalRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func printReport(ref time.Time, total int, result rules.Result) {
	fmt.Println("=== Water Health Rule Evaluation ===")
	fmt.Println()
	fmt.Printf("Reference instant: %s\n", ref.Format(time.RFC3339))
	fmt.Printf("Signals: %d total, %d skipped\n", total, len(result.Warnings))

	if len(result.Warnings) > 0 {
		fmt.Println("\nSkipped records:")
		for _, w := range result.Warnings {
			fmt.Printf("  [%d] comment_id=%d: %s\n", w.Index, w.CommentID, w.Error)
		}
	}

	fmt.Printf("\nCandidates (%d, before escalation):\n", len(result.Candidates))
	for _, c := range result.Candidates {
		fmt.Printf("  %-28s %-8s %-16s %s\n", c.Rule, c.Level, c.Village, c.Reason)
	}

	fmt.Printf("\nAlerts (%d, after escalation):\n", len(result.Alerts))
	if len(result.Alerts) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, a := range result.Alerts {
		fmt.Printf("  %-28s %-8s %-16s %s\n", a.Rule, a.Level, a.Village, a.Reason)
	}
}
