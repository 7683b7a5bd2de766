// Package pipeline wires the Kafka adapters, the rolling signal window, and
// the rule engine into the service's two loops: ingest (source topic →
// window) and evaluation (window → engine → sink topic).
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/water-health-alerting/internal/domain"
	"github.com/couchcryptid/water-health-alerting/internal/observability"
	"github.com/couchcryptid/water-health-alerting/internal/rules"
	"github.com/couchcryptid/water-health-alerting/internal/store"
)

// BatchExtractor reads up to batchSize raw events from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// AlertPublisher writes one evaluation run's alert batch to the destination.
type AlertPublisher interface {
	PublishBatch(ctx context.Context, batch domain.AlertBatch) error
}

// Settings carries the pipeline tunables out of config.
type Settings struct {
	BatchSize    int
	EvalInterval time.Duration
	AlertLimit   int // 0 = unlimited
}

// Pipeline runs the ingest and evaluation loops against a shared window.
type Pipeline struct {
	extractor BatchExtractor
	publisher AlertPublisher
	engine    *rules.Engine
	window    *store.Store
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics
	settings  Settings
	ready     atomic.Bool
}

// New creates a Pipeline. The clock governs the evaluation ticker and every
// reference instant; tests inject a fake clock to freeze "now".
func New(
	extractor BatchExtractor,
	publisher AlertPublisher,
	engine *rules.Engine,
	window *store.Store,
	clock clockwork.Clock,
	logger *slog.Logger,
	metrics *observability.Metrics,
	settings Settings,
) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		publisher: publisher,
		engine:    engine,
		window:    window,
		clock:     clock,
		logger:    logger,
		metrics:   metrics,
		settings:  settings,
	}
}

// CheckReadiness returns nil once the pipeline has completed at least one
// evaluation pass, or an error describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not completed an evaluation pass yet")
	}
	return nil
}

// Run executes both loops until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started",
		"batch_size", p.settings.BatchSize,
		"eval_interval", p.settings.EvalInterval,
	)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		p.ingestLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		p.evalLoop(ctx)
	}()
	wg.Wait()

	p.logger.Info("pipeline stopped", "reason", ctx.Err())
	return nil
}

// ingestLoop pulls raw signal batches from the source topic into the window.
func (p *Pipeline) ingestLoop(ctx context.Context) {
	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		rawBatch, err := p.extractor.ExtractBatch(ctx, p.settings.BatchSize)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("extract batch failed", "error", err)
			if !sleepWithContext(ctx, backoff) {
				return
			}
			backoff = nextBackoff(backoff, maxBackoff)
			continue
		}
		backoff = 200 * time.Millisecond

		if len(rawBatch) == 0 {
			continue
		}
		p.ingestBatch(ctx, rawBatch)
	}
}

// ingestBatch parses each raw event, stores the valid signals, and commits
// offsets. Invalid records are skipped with a warning: offsets are committed
// for them too, so a poison record is never redelivered.
func (p *Pipeline) ingestBatch(ctx context.Context, rawBatch []domain.RawEvent) {
	signals := make([]domain.Signal, 0, len(rawBatch))
	for _, raw := range rawBatch {
		sig, err := domain.ParseRawEvent(raw)
		if err != nil {
			p.logger.Warn("signal rejected, skipping message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.SignalsRejected.Inc()
			p.commitOffset(ctx, raw)
			continue
		}
		signals = append(signals, sig)
	}

	p.window.AddBatch(signals)
	p.metrics.SignalsConsumed.Add(float64(len(signals)))
	p.metrics.SignalsInWindow.Set(float64(p.window.Len()))

	for _, raw := range rawBatch {
		if raw.Commit != nil {
			p.commitOffset(ctx, raw)
		}
	}
}

// evalLoop runs the rule engine on the configured interval.
func (p *Pipeline) evalLoop(ctx context.Context) {
	ticker := p.clock.NewTicker(p.settings.EvalInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			p.evaluateOnce(ctx)
		}
	}
}

// evaluateOnce captures a single reference instant, prunes the window, runs
// the engine over a snapshot, and publishes the resulting batch. Empty runs
// are counted but not published.
func (p *Pipeline) evaluateOnce(ctx context.Context) {
	ref := p.clock.Now()

	if pruned := p.window.Prune(ref); pruned > 0 {
		p.logger.Debug("pruned expired signals", "count", pruned)
	}
	signals := p.window.Snapshot()
	p.metrics.SignalsInWindow.Set(float64(len(signals)))

	start := time.Now()
	result := p.engine.Evaluate(signals, ref)
	p.metrics.EvaluationsTotal.Inc()
	p.metrics.EvaluationDuration.Observe(time.Since(start).Seconds())
	for _, c := range result.Candidates {
		p.metrics.CandidateAlerts.WithLabelValues(c.Rule).Inc()
	}
	p.ready.Store(true)

	alerts := result.Alerts
	if p.settings.AlertLimit > 0 && len(alerts) > p.settings.AlertLimit {
		alerts = alerts[:p.settings.AlertLimit]
	}
	if len(alerts) == 0 {
		p.logger.Debug("evaluation produced no alerts", "signal_count", len(signals))
		return
	}

	batch := domain.NewAlertBatch(ref, len(signals), alerts)
	if err := p.publisher.PublishBatch(ctx, batch); err != nil {
		if ctx.Err() == nil {
			p.logger.Error("publish alerts failed", "error", err, "run_id", batch.RunID)
		}
		return
	}

	p.metrics.AlertsPublished.Add(float64(len(alerts)))
	p.logger.Info("alerts published",
		"run_id", batch.RunID,
		"alert_count", len(alerts),
		"signal_count", len(signals),
	)
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
