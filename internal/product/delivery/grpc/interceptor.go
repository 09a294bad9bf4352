package grpc

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/tair/reclaimed-storefront/pkg/logger"
)

// Interceptors records prometheus metrics and structured logs for unary calls
type Interceptors struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	errorsTotal     *prometheus.CounterVec
}

func NewInterceptors(reg prometheus.Registerer) *Interceptors {
	i := &Interceptors{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_grpc_requests_total",
				Help: "Total number of gRPC requests",
			},
			[]string{"method", "status_code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_grpc_request_duration_seconds",
				Help:    "Duration of gRPC requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_grpc_errors_total",
				Help: "Total number of gRPC errors",
			},
			[]string{"method", "error_code"},
		),
	}
	reg.MustRegister(i.requestsTotal, i.requestDuration, i.errorsTotal)
	return i
}

// Metrics collects Prometheus metrics for gRPC calls
func (i *Interceptors) Metrics(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	duration := time.Since(start).Seconds()

	statusCode := status.Code(err).String()
	if err != nil {
		i.errorsTotal.WithLabelValues(info.FullMethod, statusCode).Inc()
	}

	i.requestsTotal.WithLabelValues(info.FullMethod, statusCode).Inc()
	i.requestDuration.WithLabelValues(info.FullMethod).Observe(duration)

	return resp, err
}

// Logging logs gRPC requests with structured logging. Trace ids come from the
// otelgrpc stats handler through the context.
func (i *Interceptors) Logging(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	duration := time.Since(start)

	if err != nil {
		logger.Error(ctx).
			Str("method", info.FullMethod).
			Str("protocol", "grpc").
			Dur("duration", duration).
			Str("grpc_status", status.Code(err).String()).
			Err(err).
			Msg("gRPC request failed")
	} else {
		logger.Debug(ctx).
			Str("method", info.FullMethod).
			Str("protocol", "grpc").
			Dur("duration", duration).
			Msg("gRPC request completed")
	}

	return resp, err
}
