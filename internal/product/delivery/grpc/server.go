package grpc

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/tair/reclaimed-storefront/pkg/logger"
)

// ServiceName is reported by the health service next to the overall "" status
const ServiceName = "storefront"

// Pinger reports whether a backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// NewServer builds the gRPC server exposing the standard health service and reflection
func NewServer(reg prometheus.Registerer) (*grpc.Server, *health.Server) {
	interceptors := NewInterceptors(reg)

	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptors.Logging,
			interceptors.Metrics,
		),
	)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	reflection.Register(server)

	return server, healthServer
}

// WatchDatabase flips the health status with the database reachability until ctx is done
func WatchDatabase(ctx context.Context, healthServer *health.Server, db Pinger, interval time.Duration) {
	check := func() {
		status := healthpb.HealthCheckResponse_SERVING
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			logger.Warn(ctx).Err(err).Msg("Database health check failed")
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
		healthServer.SetServingStatus("", status)
		healthServer.SetServingStatus(ServiceName, status)
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			healthServer.Shutdown()
			return
		case <-ticker.C:
			check()
		}
	}
}
