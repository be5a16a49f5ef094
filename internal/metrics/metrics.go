// Package metrics exports otel instruments through a Prometheus endpoint
// served on the diag listener.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/global"
	export "go.opentelemetry.io/otel/sdk/export/metric"
	"go.opentelemetry.io/otel/sdk/metric/aggregator/histogram"
	controller "go.opentelemetry.io/otel/sdk/metric/controller/basic"
	processor "go.opentelemetry.io/otel/sdk/metric/processor/basic"
	selector "go.opentelemetry.io/otel/sdk/metric/selector/simple"
	"go.opentelemetry.io/otel/unit"
)

const ServiceName = "writerhub"

var (
	methodKey     = attribute.Key("http.method")
	routeKey      = attribute.Key("http.route")
	statusKey     = attribute.Key("http.status_code")
	transitionKey = attribute.Key("transition")
)

// NewExporter builds the pull pipeline and installs its provider as the
// global one. The exporter is itself the /metrics handler.
func NewExporter(opts ...controller.Option) (*prometheus.Exporter, error) {
	config := prometheus.Config{}
	c := controller.New(
		processor.New(
			selector.NewWithHistogramDistribution(
				histogram.WithExplicitBoundaries(config.DefaultHistogramBoundaries),
			),
			export.CumulativeExportKindSelector(),
			processor.WithMemory(true),
		),
		opts...,
	)

	exporter, err := prometheus.New(config, c)
	if err != nil {
		return nil, errors.Wrap(err, "initialize prometheus exporter")
	}
	global.SetMeterProvider(exporter.MeterProvider())

	return exporter, nil
}

// Metrics holds the service instruments.
type Metrics struct {
	completed   metric.Int64Counter
	duration    metric.Float64ValueRecorder
	transitions metric.Int64Counter
}

// New registers the instruments on meter, typically
// global.Meter(ServiceName).
func New(meter metric.Meter) *Metrics {
	must := metric.Must(meter)

	return &Metrics{
		completed: must.NewInt64Counter(
			"http/server/completed_count",
			metric.WithDescription("Count of completed requests, by HTTP method, route and response status"),
		),
		duration: must.NewFloat64ValueRecorder(
			"http/server/duration",
			metric.WithDescription("Request latency, by HTTP method and route"),
			metric.WithUnit(unit.Milliseconds),
		),
		transitions: must.NewInt64Counter(
			"writerhub/article/transitions",
			metric.WithDescription("Count of article lifecycle transitions"),
		),
	}
}

// Middleware records every request once the handler returns. Routes are
// labelled by pattern, not by path, to keep cardinality bounded.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		labels := []attribute.KeyValue{methodKey.String(r.Method), routeKey.String(route)}
		m.duration.Record(r.Context(), float64(time.Since(start))/float64(time.Millisecond), labels...)
		m.completed.Add(r.Context(), 1, append(labels, statusKey.String(strconv.Itoa(status)))...)
	})
}

// Transition counts one article lifecycle transition.
func (m *Metrics) Transition(ctx context.Context, transition string) {
	m.transitions.Add(ctx, 1, transitionKey.String(transition))
}
