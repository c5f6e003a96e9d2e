package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// Metrics groups the collectors of one process. A nil *Metrics records nothing.
type Metrics struct {
	Checkouts       *prometheus.CounterVec
	PrintAttempts   *prometheus.CounterVec
	MigratedRows    *prometheus.CounterVec
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Checkouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gudang_checkouts_total",
				Help: "Checkout attempts by outcome",
			},
			[]string{"result"},
		),
		PrintAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gudang_print_attempts_total",
				Help: "Receipt print attempts by outcome",
			},
			[]string{"result"},
		),
		MigratedRows: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gudang_migrated_rows_total",
				Help: "CSV rows processed by the migration",
			},
			[]string{"outcome"},
		),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "grpc_requests_total",
				Help: "Total gRPC requests",
			},
			[]string{"method", "code"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "grpc_request_duration_seconds",
				Help:    "Duration of gRPC requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
	reg.MustRegister(m.Checkouts, m.PrintAttempts, m.MigratedRows, m.RequestsTotal, m.RequestDuration)
	return m
}

func (m *Metrics) ObserveCheckout(result string) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(result).Inc()
}

func (m *Metrics) ObservePrint(ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.PrintAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveMigration(inserted, skipped int) {
	if m == nil {
		return
	}
	m.MigratedRows.WithLabelValues("inserted").Add(float64(inserted))
	m.MigratedRows.WithLabelValues("skipped").Add(float64(skipped))
}

func (m *Metrics) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if m == nil {
			return handler(ctx, req)
		}
		start := time.Now()
		resp, err := handler(ctx, req)

		m.RequestsTotal.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
		m.RequestDuration.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
		return resp, err
	}
}
