package rules

import (
	"time"

	"github.com/couchcryptid/water-health-alerting/internal/domain"
)

// Engine runs every registered rule in fixed order against one signal
// snapshot and reference instant, then applies the escalation pass over the
// concatenated candidates. Engines are stateless and safe for concurrent
// use.
type Engine struct {
	rules []Rule
}

// NewEngine creates an engine with the default rule registry.
func NewEngine() *Engine {
	return &Engine{rules: DefaultRules()}
}

// NewEngineWithRules creates an engine with a custom registry, evaluated in
// the given order.
func NewEngineWithRules(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// Rules returns the registry in evaluation order.
func (e *Engine) Rules() []Rule { return e.rules }

// Warning records a structurally invalid record that was skipped during an
// evaluation instead of aborting it.
type Warning struct {
	Index     int    `json:"index"`
	CommentID int64  `json:"comment_id,omitempty"`
	Error     string `json:"error"`
}

// Result holds one evaluation pass's full output. Alerts is the
// post-escalation sequence handed to consumers; Candidates is the
// pre-escalation list in rule order, kept for observability.
type Result struct {
	Alerts     []domain.Alert
	Candidates []domain.Alert
	Warnings   []Warning
}

// Evaluate runs the full detection pass over pre-parsed signals. The
// reference instant must be captured once by the caller and is threaded
// through every rule, so all lookback windows share one consistent "now".
func (e *Engine) Evaluate(signals []domain.Signal, ref time.Time) Result {
	return e.run(signals, ref, nil)
}

// EvaluateRecords parses raw records and evaluates the valid ones. A record
// with a missing village, missing severity, or unparseable timestamp is
// skipped and reported as a warning; evaluation degrades gracefully rather
// than aborting on one bad record.
func (e *Engine) EvaluateRecords(records []domain.SignalRecord, ref time.Time) Result {
	signals := make([]domain.Signal, 0, len(records))
	var warnings []Warning
	for i, rec := range records {
		sig, err := domain.ParseSignalRecord(rec)
		if err != nil {
			warnings = append(warnings, Warning{Index: i, CommentID: rec.CommentID, Error: err.Error()})
			continue
		}
		signals = append(signals, sig)
	}
	return e.run(signals, ref, warnings)
}

func (e *Engine) run(signals []domain.Signal, ref time.Time, warnings []Warning) Result {
	snap := NewSnapshot(signals)

	var candidates []domain.Alert
	for _, r := range e.rules {
		candidates = append(candidates, r.Detect(snap, ref)...)
	}

	return Result{
		Alerts:     Escalate(candidates),
		Candidates: candidates,
		Warnings:   warnings,
	}
}
