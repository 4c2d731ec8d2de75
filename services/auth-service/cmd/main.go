package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/vasapolrittideah/blob-api/services/auth-service/internal/config"
	"github.com/vasapolrittideah/blob-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/blob-api/services/auth-service/internal/server"
	"github.com/vasapolrittideah/blob-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/blob-api/shared/auth"
	"github.com/vasapolrittideah/blob-api/shared/discovery"
	"github.com/vasapolrittideah/blob-api/shared/logger"
	"github.com/vasapolrittideah/blob-api/shared/provider"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootLogger := logger.New("auth-service", os.Getenv("LOG_LEVEL"), os.Getenv("APP_ENV"))
	cfg := config.NewAuthServiceConfig(bootLogger)
	log := logger.New(cfg.ServiceName, cfg.LogLevel, cfg.Environment)

	codec, err := auth.NewSessionCodec(cfg.Token.Secret, auth.WithIssuer(cfg.Token.Issuer))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session codec")
	}

	verifier, err := provider.NewGoogleVerifier(
		ctx,
		cfg.Google.Audiences(),
		provider.WithVerifyTimeout(cfg.Google.VerifyTimeout),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create google verifier")
	}

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		log.Fatal().Err(err).Msg("failed to ping mongodb")
	}

	db := client.Database(cfg.Mongo.Database)
	userRepo := repository.NewUserMongoRepository(ctx, log, db)
	accountRepo := repository.NewOAuthAccountMongoRepository(ctx, log, db)

	authUsecase := usecase.NewAuthUsecase(
		verifier,
		usecase.NewAccountResolver(userRepo, accountRepo),
		codec,
		userRepo,
	)

	listener, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.GRPCAddr).Msg("failed to listen")
	}

	srv := server.New(authUsecase, codec, log)

	if cfg.ConsulAddr != "" {
		registry, err := discovery.NewRegistry(cfg.ConsulAddr)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create consul registry")
		}

		reg := discovery.Registration{
			Name: cfg.ServiceName,
			Host: cfg.AdvertiseHost,
			Port: listener.Addr().(*net.TCPAddr).Port,
		}
		if err := registry.Register(reg); err != nil {
			log.Fatal().Err(err).Msg("failed to register service in consul")
		}
		defer func() {
			if err := registry.Deregister(reg); err != nil {
				log.Error().Err(err).Msg("failed to deregister service from consul")
			}
		}()
		log.Info().Str("id", reg.ID()).Str("port", strconv.Itoa(reg.Port)).Msg("registered in consul")
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down auth service")
		srv.Stop()
	}()

	if err := srv.Serve(listener); err != nil {
		log.Error().Err(err).Msg("auth service stopped with error")
	}
}
