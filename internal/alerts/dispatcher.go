package alerts

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pscheid92/marketpulse/internal/domain"
	"github.com/pscheid92/marketpulse/internal/metrics"
)

const (
	// suppressionWindow stops the dispatcher from re-emitting the same
	// ticker/type alert every sweep while a condition persists.
	suppressionWindow = time.Hour

	// sweepTickers bounds how many active tickers one sweep examines.
	sweepTickers = 50
)

// Detector is the engine surface the dispatcher polls.
type Detector interface {
	TrendingTickers(limit int) []domain.TrendingTicker
	DetectUnusualActivity(symbol string) (domain.Alert, bool)
}

// Notifier delivers high-severity alerts to an external channel.
type Notifier interface {
	Notify(ctx context.Context, alert domain.Alert) error
}

// LogNotifier is the default delivery channel: a structured log line.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, alert domain.Alert) error {
	slog.Warn("Unusual activity detected",
		"ticker", alert.Ticker,
		"alert_type", alert.Type,
		"severity", alert.Severity,
		"details", alert.Details)
	return nil
}

// AlertStream is the part of the websocket hub the dispatcher pushes to.
type AlertStream interface {
	PublishAlert(alert domain.Alert)
}

// StreamNotifier forwards alerts onto the live websocket stream.
type StreamNotifier struct {
	Stream AlertStream
}

func (n StreamNotifier) Notify(_ context.Context, alert domain.Alert) error {
	n.Stream.PublishAlert(alert)
	return nil
}

// MultiNotifier delivers to every channel and reports the first failure.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, alert domain.Alert) error {
	var firstErr error
	for _, n := range m {
		if err := n.Notify(ctx, alert); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Dispatcher periodically sweeps the most active tickers for unusual
// activity, persists emitted alerts and pushes high-severity ones to the
// notifier. Failed deliveries stay unnotified and are retried next sweep.
type Dispatcher struct {
	clock    clockwork.Clock
	detector Detector
	repo     Repository
	notifier Notifier
	interval time.Duration

	lastEmitted map[string]time.Time
}

func NewDispatcher(clock clockwork.Clock, detector Detector, repo Repository, notifier Notifier, interval time.Duration) *Dispatcher {
	return &Dispatcher{
		clock:       clock,
		detector:    detector,
		repo:        repo,
		notifier:    notifier,
		interval:    interval,
		lastEmitted: make(map[string]time.Time),
	}
}

// Run sweeps on every tick until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := d.clock.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			d.Sweep(ctx)
		}
	}
}

// Sweep runs one detection pass and then delivers pending high-severity
// alerts. Exported so callers can trigger a pass outside the periodic
// schedule.
func (d *Dispatcher) Sweep(ctx context.Context) {
	now := d.clock.Now()

	for _, trending := range d.detector.TrendingTickers(sweepTickers) {
		alert, ok := d.detector.DetectUnusualActivity(trending.Ticker)
		if !ok {
			continue
		}

		key := trending.Ticker + "/" + string(alert.Type)
		if last, seen := d.lastEmitted[key]; seen && now.Sub(last) < suppressionWindow {
			continue
		}

		if err := d.repo.Save(ctx, alert); err != nil {
			metrics.AlertDispatchErrors.Inc()
			slog.Error("Failed to persist alert", "ticker", alert.Ticker, "error", err)
			continue
		}
		d.lastEmitted[key] = now
	}

	d.deliver(ctx)
}

// deliver pushes every pending high-severity alert to the notifier. Alerts
// whose delivery fails stay unnotified and are picked up again next sweep.
func (d *Dispatcher) deliver(ctx context.Context) {
	pending, err := d.repo.ListUnnotified(ctx)
	if err != nil {
		metrics.AlertDispatchErrors.Inc()
		slog.Error("Failed to load pending alerts", "error", err)
		return
	}

	for _, alert := range pending {
		if alert.Severity != domain.SeverityHigh {
			continue
		}
		if err := d.notifier.Notify(ctx, alert); err != nil {
			metrics.AlertDispatchErrors.Inc()
			slog.Error("Failed to deliver alert", "ticker", alert.Ticker, "error", err)
			continue
		}
		if err := d.repo.MarkNotified(ctx, alert.ID); err != nil {
			metrics.AlertDispatchErrors.Inc()
			slog.Error("Failed to mark alert notified", "ticker", alert.Ticker, "error", err)
			continue
		}
		metrics.AlertsNotifiedTotal.Inc()
	}
}
