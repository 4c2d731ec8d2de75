package utilities

import (
	"context"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
)

const AuthorizationHeader = "Authorization"

var defaultHeadersToForward = []string{
	AuthorizationHeader,
	"User-Agent",
	"X-Request-ID",
	"X-Forwarded-For",
	"X-Real-IP",
}

// RegisterHealthServer registers the gRPC health service and marks the server
// and each named service as serving.
func RegisterHealthServer(grpcServer *grpc.Server, services ...string) *health.Server {
	healthServer := health.NewServer()
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	for _, service := range services {
		healthServer.SetServingStatus(service, grpc_health_v1.HealthCheckResponse_SERVING)
	}
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	return healthServer
}

// ForwardHTTPHeadersToGRPC returns a context whose outgoing gRPC metadata carries
// the default headers plus headersToForward, when present on the request.
func ForwardHTTPHeadersToGRPC(ctx context.Context, r *http.Request, headersToForward ...string) context.Context {
	md := metadata.New(nil)

	seen := make(map[string]bool)
	for _, header := range append(append([]string{}, defaultHeadersToForward...), headersToForward...) {
		key := http.CanonicalHeaderKey(header)
		if seen[key] {
			continue
		}
		seen[key] = true

		if values := r.Header.Values(key); len(values) > 0 {
			md.Set(key, values...)
		}
	}

	return metadata.NewOutgoingContext(ctx, md)
}

// AuthorizationFromIncoming returns the first authorization value of the
// incoming gRPC metadata, or an empty string.
func AuthorizationFromIncoming(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}

	values := md.Get(AuthorizationHeader)
	if len(values) == 0 {
		return ""
	}

	return values[0]
}
