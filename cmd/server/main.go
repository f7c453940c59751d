package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/umar-b/BSMS-2/internal/adapters/esp"
	grpcAdapter "github.com/umar-b/BSMS-2/internal/adapters/grpc"
	"github.com/umar-b/BSMS-2/internal/adapters/httpapi"
	"github.com/umar-b/BSMS-2/internal/adapters/influx"
	"github.com/umar-b/BSMS-2/internal/adapters/kafka"
	"github.com/umar-b/BSMS-2/internal/adapters/memory"
	"github.com/umar-b/BSMS-2/internal/adapters/mock"
	"github.com/umar-b/BSMS-2/internal/adapters/sqlite"
	"github.com/umar-b/BSMS-2/internal/domain"
	"github.com/umar-b/BSMS-2/internal/ports"
	"github.com/umar-b/BSMS-2/pkg/pb"
	"github.com/umar-b/BSMS-2/pkg/tlsconfig"
)

func main() {
	// Initialize logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using process environment")
	}

	config := loadConfig()
	if level, err := zerolog.ParseLevel(config.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	log.Info().Msg("starting iris service")

	// Initialize repository
	var repo domain.ReadingRepository
	switch config.RepoType {
	case "sqlite":
		r, err := sqlite.NewReadingRepository(config.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("db_path", config.DBPath).Msg("failed to open SQLite database")
		}
		defer r.Close()
		repo = r
		log.Info().Str("db_path", config.DBPath).Msg("initialized SQLite repository")
	default:
		repo = memory.NewReadingRepository()
		log.Info().Msg("initialized in-memory repository")
	}

	// Initialize fetcher
	var fetcher ports.Fetcher
	switch config.FetcherType {
	case "esp":
		fetcher = esp.NewFetcher(config.DeviceURL, &http.Client{Timeout: config.FetchTimeout})
		log.Info().Str("url", config.DeviceURL).Dur("timeout", config.FetchTimeout).Msg("initialized ESP fetcher")
	case "mock":
		fetcher = mock.NewFakeFetcher(config.MockDelay)
		log.Info().Dur("delay", config.MockDelay).Msg("initialized mock fetcher")
	default:
		log.Fatal().Str("fetcher_type", config.FetcherType).Msg("unknown FETCHER_TYPE; use esp or mock")
	}

	// Initialize sinks
	var sinks []ports.Sink
	if config.InfluxURL != "" {
		s := influx.NewSink(config.InfluxURL, config.InfluxToken, config.InfluxOrg, config.InfluxBucket, config.DeviceName)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.Health(ctx); err != nil {
			log.Warn().Err(err).Msg("InfluxDB not ready, writes may fail")
		}
		cancel()
		sinks = append(sinks, s)
		log.Info().Str("url", config.InfluxURL).Str("bucket", config.InfluxBucket).Msg("initialized InfluxDB sink")
	}
	if len(config.KafkaBrokers) > 0 {
		sinks = append(sinks, kafka.NewSink(config.KafkaBrokers, config.KafkaTopic, config.DeviceName))
		log.Info().Strs("brokers", config.KafkaBrokers).Str("topic", config.KafkaTopic).Msg("initialized Kafka sink")
	}
	defer func() {
		for _, s := range sinks {
			if err := s.Close(); err != nil {
				log.Error().Err(err).Str("sink", s.Name()).Msg("failed to close sink")
			}
		}
	}()

	recorder := ports.NewRecorder(fetcher, repo, config.RecordInterval, sinks...)

	// Initialize gRPC handler
	handler := grpcAdapter.NewIrisServiceHandler(repo, recorder)

	// Configure TLS if certificates are provided
	var serverOpts []grpc.ServerOption
	if config.TLSCert != "" {
		tlsCfg, err := tlsconfig.LoadServerTLS(config.TLSCert, config.TLSKey, config.TLSCA)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load TLS config")
		}
		serverOpts = append(serverOpts, grpc.Creds(credentials.NewTLS(tlsCfg)))
		log.Info().Msg("mTLS enabled")
	} else {
		log.Warn().Msg("TLS_CERT not set, starting without TLS (dev mode only)")
	}

	grpcServer := grpc.NewServer(serverOpts...)
	pb.RegisterIrisServiceServer(grpcServer, handler)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)

	// Enable gRPC reflection for grpcurl testing
	reflection.Register(grpcServer)

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", config.Port))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to listen")
	}

	log.Info().Str("port", config.Port).Msg("gRPC server listening")

	go func() {
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatal().Err(err).Msg("failed to serve")
		}
	}()

	// Start dashboard HTTP API
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", config.HTTPPort),
		Handler:           handlers.LoggingHandler(log.Logger, httpapi.NewRouter(repo, config.CORSOrigins)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("port", config.HTTPPort).Msg("HTTP API listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to serve HTTP")
		}
	}()

	// Start background recorder
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go recorder.Start(ctx)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	cancel() // Stop recorder
	healthServer.Shutdown()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP shutdown failed")
	}
	grpcServer.GracefulStop()

	log.Info().Msg("server stopped")
}
