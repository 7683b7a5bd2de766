// Command genmock reads a YAML scenario describing per-village signal
// activity and generates mock data fixtures: a signals JSON file suitable
// for cmd/evaluate or Kafka replay, and an expected-alerts JSON file. It
// uses the actual rules engine so the expected output matches real service
// behavior.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -scenario data/scenarios/outbreak.yaml \
//	  -signals-out data/mock/signals_outbreak.json \
//	  -alerts-out data/mock/alerts_outbreak.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/water-health-alerting/internal/domain"
	"github.com/couchcryptid/water-health-alerting/internal/rules"
)

// scenario is the YAML root: a reference instant plus per-village bursts.
type scenario struct {
	Reference time.Time      `yaml:"reference"`
	Villages  []villageBlock `yaml:"villages"`
}

type villageBlock struct {
	Name    string        `yaml:"name"`
	Signals []signalBurst `yaml:"signals"`
}

// signalBurst expands into Count records, the first Age before the
// reference instant and each subsequent one Spread further back. Durations
// are Go duration strings ("2h", "30m").
type signalBurst struct {
	Severity    string   `yaml:"severity"`
	Symptoms    []string `yaml:"symptoms"`
	WaterSource string   `yaml:"water_source"`
	Age         string   `yaml:"age"`
	Count       int      `yaml:"count"`
	Spread      string   `yaml:"spread"`
}

// expectedAlerts is the second fixture: what the engine produces for the
// generated signals at the scenario's reference instant.
type expectedAlerts struct {
	Reference   time.Time      `json:"reference"`
	SignalCount int            `json:"signal_count"`
	Candidates  []domain.Alert `json:"candidates"`
	Alerts      []domain.Alert `json:"alerts"`
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	scenarioPath := flag.String("scenario", "", "path to YAML scenario file")
	signalsOut := flag.String("signals-out", "", "output path for signals JSON fixture")
	alertsOut := flag.String("alerts-out", "", "output path for expected alerts JSON fixture")
	flag.Parse()

	if *scenarioPath == "" || *signalsOut == "" || *alertsOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -scenario, -signals-out, -alerts-out")
	}

	sc, err := loadScenario(*scenarioPath)
	if err != nil {
		return fmt.Errorf("loading scenario: %w", err)
	}

	records, err := expandScenario(sc)
	if err != nil {
		return fmt.Errorf("expanding scenario: %w", err)
	}
	log.Printf("scenario %s: %d villages, %d signals",
		filepath.Base(*scenarioPath), len(sc.Villages), len(records))

	result := rules.NewEngine().EvaluateRecords(records, sc.Reference)
	if len(result.Warnings) > 0 {
		w := result.Warnings[0]
		return fmt.Errorf("generated record %d is invalid: %s", w.Index, w.Error)
	}

	if err := writeJSON(*signalsOut, records); err != nil {
		return fmt.Errorf("writing signals fixture: %w", err)
	}
	log.Printf("wrote signals fixture: %s", *signalsOut)

	expected := expectedAlerts{
		Reference:   sc.Reference,
		SignalCount: len(records),
		Candidates:  result.Candidates,
		Alerts:      result.Alerts,
	}
	if err := writeJSON(*alertsOut, expected); err != nil {
		return fmt.Errorf("writing alerts fixture: %w", err)
	}
	log.Printf("wrote alerts fixture: %s", *alertsOut)

	printStats(records, result)
	return nil
}

func loadScenario(path string) (*scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if sc.Reference.IsZero() {
		return nil, fmt.Errorf("scenario is missing a reference instant")
	}
	if len(sc.Villages) == 0 {
		return nil, fmt.Errorf("scenario has no villages")
	}
	return &sc, nil
}

// expandScenario turns bursts into flat signal records with naive ISO 8601
// timestamps, the format the extraction service emits.
func expandScenario(sc *scenario) ([]domain.SignalRecord, error) {
	var records []domain.SignalRecord
	commentID := int64(0)

	for _, v := range sc.Villages {
		for _, b := range v.Signals {
			age, err := parseDuration(b.Age, 0)
			if err != nil {
				return nil, fmt.Errorf("village %s: bad age %q: %w", v.Name, b.Age, err)
			}
			spread, err := parseDuration(b.Spread, time.Minute)
			if err != nil {
				return nil, fmt.Errorf("village %s: bad spread %q: %w", v.Name, b.Spread, err)
			}

			count := b.Count
			if count <= 0 {
				count = 1
			}
			for i := 0; i < count; i++ {
				commentID++
				ts := sc.Reference.Add(-age - time.Duration(i)*spread)
				records = append(records, domain.SignalRecord{
					Village:     v.Name,
					Severity:    b.Severity,
					Symptoms:    b.Symptoms,
					WaterSource: b.WaterSource,
					Timestamp:   ts.UTC().Format("2006-01-02T15:04:05"),
					CommentID:   commentID,
				})
			}
		}
	}
	return records, nil
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func printStats(records []domain.SignalRecord, result rules.Result) {
	severityCounts := map[string]int{}
	villageCounts := map[string]int{}
	for i := range records {
		severityCounts[records[i].Severity]++
		villageCounts[records[i].Village]++
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Total signals: %d\n", len(records))
	fmt.Printf("By severity: low=%d, medium=%d, high=%d\n",
		severityCounts["low"], severityCounts["medium"], severityCounts["high"])
	fmt.Printf("Villages (%d): ", len(villageCounts))
	for v, c := range villageCounts {
		fmt.Printf("%s=%d ", v, c)
	}
	fmt.Println()

	fmt.Printf("\nCandidates: %d\n", len(result.Candidates))
	ruleCounts := map[string]int{}
	for _, c := range result.Candidates {
		ruleCounts[c.Rule]++
	}
	for rule, c := range ruleCounts {
		fmt.Printf("  %s: %d\n", rule, c)
	}
	fmt.Printf("Alerts after escalation: %d\n", len(result.Alerts))
}
