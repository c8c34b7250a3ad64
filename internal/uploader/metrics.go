package uploader

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the uploader's instruments. With no meter provider
// installed these are no-ops.
type Metrics struct {
	DrainsStarted    metric.Int64Counter
	CommandsExecuted metric.Int64Counter
	CommandsFailed   metric.Int64Counter
	CommandsSkipped  metric.Int64Counter
	DrainDuration    metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.DrainsStarted, err = meter.Int64Counter(
		"uploader.drains.started",
		metric.WithDescription("Drain cycles started on reconnect"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating drains.started: %w", err)
	}

	m.CommandsExecuted, err = meter.Int64Counter(
		"uploader.commands.executed",
		metric.WithDescription("Queued commands confirmed by the server"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating commands.executed: %w", err)
	}

	m.CommandsFailed, err = meter.Int64Counter(
		"uploader.commands.failed",
		metric.WithDescription("Queued commands that failed and stayed queued"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating commands.failed: %w", err)
	}

	m.CommandsSkipped, err = meter.Int64Counter(
		"uploader.commands.skipped",
		metric.WithDescription("Queued commands with no request shape"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating commands.skipped: %w", err)
	}

	m.DrainDuration, err = meter.Float64Histogram(
		"uploader.drain.duration",
		metric.WithDescription("Drain cycle duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating drain.duration: %w", err)
	}

	return m, nil
}
