package server

import (
	"net"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"github.com/vasapolrittideah/blob-api/services/auth-service/internal/handler"
	"github.com/vasapolrittideah/blob-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/blob-api/services/auth-service/pkg/authrpc"
	"github.com/vasapolrittideah/blob-api/shared/interceptor"
	"github.com/vasapolrittideah/blob-api/shared/utilities"
)

// publicMethods may be called without a session. A valid session is still
// attached when present.
var publicMethods = []string{
	authrpc.GoogleSignInMethod,
	authrpc.MeMethod,
}

// Server hosts the auth gRPC service.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	logger     *zerolog.Logger
}

// New creates a gRPC server exposing AuthService and the health service.
func New(
	authUsecase usecase.AuthUsecase,
	sessions interceptor.SessionVerifier,
	logger *zerolog.Logger,
) *Server {
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptor.NewSessionInterceptor(sessions, publicMethods),
			interceptor.NewLoggingInterceptor(logger),
		),
	)

	handler.NewAuthGRPCHandler(grpcServer, authUsecase, logger)

	healthServer := utilities.RegisterHealthServer(grpcServer, authrpc.ServiceName)

	return &Server{
		grpcServer: grpcServer,
		health:     healthServer,
		logger:     logger,
	}
}

// Serve accepts connections on lis until Stop is called.
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info().Str("addr", lis.Addr().String()).Msg("auth service listening")
	return s.grpcServer.Serve(lis)
}

// Stop marks the service as not serving and drains in-flight calls.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
