package summarize

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Pipeline stage labels attached to model call metrics.
const (
	stageStuff  = "stuff"
	stageMap    = "map"
	stageReduce = "reduce"
	stageFinal  = "final"
)

// Metrics records pipeline telemetry through an OpenTelemetry meter.
type Metrics struct {
	modelCalls     metric.Int64Counter
	collapseRounds metric.Int64Histogram
}

// NewMetrics registers the pipeline instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	modelCalls, err := meter.Int64Counter(
		"summarize_model_calls_total",
		metric.WithDescription("Model invocations by pipeline stage"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create model calls counter: %w", err)
	}
	collapseRounds, err := meter.Int64Histogram(
		"summarize_collapse_rounds",
		metric.WithDescription("Collapse rounds per map-reduce run"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create collapse rounds histogram: %w", err)
	}
	return &Metrics{modelCalls: modelCalls, collapseRounds: collapseRounds}, nil
}

// NopMetrics returns metrics backed by a no-op meter, for tests and callers
// that run without monitoring.
func NopMetrics() *Metrics {
	m, err := NewMetrics(noop.NewMeterProvider().Meter("standup-digest"))
	if err != nil {
		// The no-op meter never fails instrument creation.
		panic(err)
	}
	return m
}

func (m *Metrics) recordCall(ctx context.Context, stage string) {
	if m == nil {
		return
	}
	m.modelCalls.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
}

func (m *Metrics) recordCollapseRounds(ctx context.Context, rounds int) {
	if m == nil {
		return
	}
	m.collapseRounds.Record(ctx, int64(rounds))
}
