package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"

	_ "github.com/tair/reclaimed-storefront/docs"
	"github.com/tair/reclaimed-storefront/internal/product"
	"github.com/tair/reclaimed-storefront/internal/product/activity"
	grpcDelivery "github.com/tair/reclaimed-storefront/internal/product/delivery/grpc"
	httpDelivery "github.com/tair/reclaimed-storefront/internal/product/delivery/http"
	"github.com/tair/reclaimed-storefront/internal/product/repository"
	"github.com/tair/reclaimed-storefront/internal/storage"
	"github.com/tair/reclaimed-storefront/kafka"
	"github.com/tair/reclaimed-storefront/pkg/config"
	"github.com/tair/reclaimed-storefront/pkg/database"
	"github.com/tair/reclaimed-storefront/pkg/logger"
	"github.com/tair/reclaimed-storefront/pkg/middleware"
	"github.com/tair/reclaimed-storefront/pkg/tracing"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the yaml config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Init("storefront", logger.Options{})
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		logger.Init("storefront", logger.Options{})
		logger.Logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Initialize logger
	logger.Init(cfg.Tracing.ServiceName, logger.Options{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})

	logger.Logger.Info().
		Str("environment", cfg.Tracing.Environment).
		Str("log_level", cfg.Log.Level).
		Msg("Starting storefront")

	// Initialize tracer
	tp, err := tracing.InitTracer(tracing.Config{
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: "1.0.0",
		JaegerEndpoint: cfg.Tracing.JaegerEndpoint,
		Environment:    cfg.Tracing.Environment,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(ctx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
		}
	}()

	// Connect to database
	db, err := database.NewGormConnection(cfg.Database.GormConfig())
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to get database instance")
	}
	defer sqlDB.Close()

	// Run migrations
	if err := repository.Migrate(db); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	images, err := storage.NewImageResolver(cfg.Storage.PublicURL, cfg.Storage.Bucket)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Invalid storage configuration")
	}

	store, err := storage.NewMinioStore(storage.Config{
		Endpoint:  cfg.Storage.Endpoint,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		UseSSL:    cfg.Storage.UseSSL,
		Bucket:    cfg.Storage.Bucket,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize object store")
	}

	redisClient, err := database.NewRedisClient(cfg.Redis.ClientConfig())
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Redis unavailable, caching and rate limiting disabled")
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.DefaultRegisterer
	publisher := startEvents(ctx, cfg.Kafka, reg)
	if publisher != nil {
		defer publisher.Close()
	}

	handlers, err := product.InitializeHandlers(db, product.Infrastructure{
		Redis:      redisClient,
		Publisher:  publisher,
		Store:      store,
		Images:     images,
		Registerer: reg,
		Catalog:    cfg.Catalog,
		Auth:       cfg.Auth,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handlers")
	}
	handlers.Products.RefreshProductsMetric(ctx)

	grpcServer, healthServer := grpcDelivery.NewServer(reg)
	go grpcDelivery.WatchDatabase(ctx, healthServer, sqlDB, 10*time.Second)
	go startGRPCServer(grpcServer, cfg.Server.GRPCPort)

	server := newHTTPServer(cfg.Server, handlers, sqlDB, redisClient)
	go func() {
		logger.Logger.Info().
			Str("port", cfg.Server.Port).
			Str("metrics_endpoint", "/metrics").
			Str("swagger_endpoint", "/swagger/").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down servers...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server forced to shutdown")
	}
	grpcServer.GracefulStop()

	logger.Logger.Info().Msg("Storefront stopped")
}

// startEvents connects the favorite event publisher and the activity consumer.
// Without brokers both stay off and the returned publisher is nil.
func startEvents(ctx context.Context, cfg config.KafkaConfig, reg prometheus.Registerer) *kafka.Publisher {
	if len(cfg.Brokers) == 0 {
		logger.Logger.Info().Msg("Kafka brokers not configured, favorite events disabled")
		return nil
	}

	publisher, err := kafka.NewPublisher(cfg.Brokers, cfg.Topic)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka publisher unavailable, favorite events disabled")
		return nil
	}

	recorder, err := activity.NewRecorder(reg)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to register activity metrics")
	}

	consumer, err := kafka.NewConsumer(cfg.Brokers, cfg.GroupID, []string{cfg.Topic})
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka consumer unavailable, favorite activity not recorded")
		return publisher
	}
	consumer.RegisterHandler(kafka.EventTypeFavoriteToggled, recorder.Handle)
	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to start Kafka consumer")
	}
	go func() {
		<-ctx.Done()
		if err := consumer.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Kafka consumer")
		}
	}()

	return publisher
}

func newHTTPServer(cfg config.ServerConfig, handlers *product.Handlers, sqlDB httpDelivery.Pinger, redisClient *redis.Client) *http.Server {
	router := mux.NewRouter()

	handlers.Products.RegisterRoutes(router)
	handlers.Reviews.RegisterRoutes(router)
	handlers.Cart.RegisterRoutes(router)
	handlers.Products.RegisterHealthCheck(router, sqlDB, redisClient)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// Swagger UI
	httpDelivery.RegisterSwaggerDocs(router, httpSwagger.WrapHandler)

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	handler := otelhttp.NewHandler(middleware.Logging(router), "storefront-http")

	return &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      c.Handler(handler),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func startGRPCServer(server *grpc.Server, port string) {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("port", port).Msg("Failed to listen")
	}

	logger.Logger.Info().Str("port", port).Msg("gRPC server started, health and reflection enabled")

	if err := server.Serve(lis); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start gRPC server")
	}
}
