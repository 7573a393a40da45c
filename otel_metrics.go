package workqueue

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name for workqueue metrics.
const meterName = "github.com/Andrej220/go-utils/workqueue"

// OTelMetrics is a MetricsPolicy that records to OpenTelemetry instruments.
//
// Instruments:
//   - workqueue.items.queued (Int64UpDownCounter): items currently queued
//   - workqueue.items.completed (Int64Counter): finished submissions,
//     with attribute status ("ok", "error", "cancelled" or "rejected")
//   - workqueue.item.wait (Float64Histogram): queueing time in seconds
type OTelMetrics struct {
	queued    metric.Int64UpDownCounter
	completed metric.Int64Counter
	wait      metric.Float64Histogram

	ok, failed, cancelled, rejected metric.AddOption
}

// NewOTelMetrics creates instruments on the global MeterProvider.
// If none is configured, noop instruments are used.
func NewOTelMetrics() *OTelMetrics {
	return NewOTelMetricsWithMeter(otel.Meter(meterName))
}

// NewOTelMetricsWithMeter creates instruments on the given meter.
func NewOTelMetricsWithMeter(meter metric.Meter) *OTelMetrics {
	// On error the API hands back noop instruments, so the errors are dropped.
	queued, _ := meter.Int64UpDownCounter(
		"workqueue.items.queued",
		metric.WithDescription("Number of items waiting in the queue"),
		metric.WithUnit("{item}"),
	)
	completed, _ := meter.Int64Counter(
		"workqueue.items.completed",
		metric.WithDescription("Number of submissions that reached a final outcome"),
		metric.WithUnit("{item}"),
	)
	wait, _ := meter.Float64Histogram(
		"workqueue.item.wait",
		metric.WithDescription("Time an item spent queued before execution"),
		metric.WithUnit("s"),
	)

	status := func(v string) metric.AddOption {
		return metric.WithAttributeSet(attribute.NewSet(attribute.String("status", v)))
	}

	return &OTelMetrics{
		queued:    queued,
		completed: completed,
		wait:      wait,
		ok:        status("ok"),
		failed:    status("error"),
		cancelled: status("cancelled"),
		rejected:  status("rejected"),
	}
}

func (m *OTelMetrics) IncQueued() {
	m.queued.Add(context.Background(), 1)
}

func (m *OTelMetrics) BatchDecQueued(n int64) {
	m.queued.Add(context.Background(), -n)
}

func (m *OTelMetrics) IncExecuted() {
	m.completed.Add(context.Background(), 1, m.ok)
}

func (m *OTelMetrics) IncFailed() {
	m.completed.Add(context.Background(), 1, m.failed)
}

func (m *OTelMetrics) IncCancelled() {
	m.completed.Add(context.Background(), 1, m.cancelled)
}

func (m *OTelMetrics) IncRejected() {
	m.completed.Add(context.Background(), 1, m.rejected)
}

func (m *OTelMetrics) ObserveWait(d time.Duration) {
	m.wait.Record(context.Background(), d.Seconds())
}
