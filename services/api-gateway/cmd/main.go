package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/mbobakov/grpc-consul-resolver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/vasapolrittideah/blob-api/services/api-gateway/internal/config"
	"github.com/vasapolrittideah/blob-api/services/api-gateway/internal/handler"
	"github.com/vasapolrittideah/blob-api/services/api-gateway/internal/metrics"
	"github.com/vasapolrittideah/blob-api/services/api-gateway/internal/router"
	"github.com/vasapolrittideah/blob-api/services/api-gateway/internal/validation"
	"github.com/vasapolrittideah/blob-api/services/auth-service/pkg/authrpc"
	"github.com/vasapolrittideah/blob-api/shared/discovery"
	"github.com/vasapolrittideah/blob-api/shared/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootLogger := logger.New("api-gateway", os.Getenv("LOG_LEVEL"), os.Getenv("APP_ENV"))
	cfg := config.NewAPIGatewayConfig(bootLogger)
	log := logger.New(cfg.ServiceName, cfg.LogLevel, cfg.Environment)

	target := discovery.Target(cfg.ConsulAddr, cfg.Auth.Name, cfg.Auth.Addr)
	conn, err := grpc.NewClient(
		target,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
		grpc.WithDefaultServiceConfig(`{"loadBalancingPolicy":"round_robin"}`),
	)
	if err != nil {
		log.Fatal().Err(err).Str("target", target).Msg("failed to create auth service client")
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close auth service connection")
		}
	}()

	v, err := validation.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create request validator")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: router.New(router.Deps{
			Auth:           handler.NewAuthHandler(authrpc.NewClient(conn), v, collector, log),
			Metrics:        collector,
			Gatherer:       reg,
			Logger:         log,
			RequestTimeout: cfg.RequestTimeout,
		}),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down api gateway")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shut down http server")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("auth_target", target).Msg("api gateway listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("api gateway stopped with error")
	}
}
