// Package grpcapi exposes a gRPC health and reflection server only.
// Nothing in the retrieved corpus ships a generated .proto stub this
// service could reuse (confirmed by searching the full example pack),
// so there is no custom gRPC plan API here — just the same
// health/reflection wiring driver-service/cmd/main.go sets up for its
// own domain RPCs, kept standing on its own for operational parity.
package grpcapi

import (
	"context"

	grpclogging "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/draymaster/hos-planner/shared/pkg/logger"
)

// NewServer builds a gRPC server with health checking, reflection, and
// a unary logging interceptor, and marks serviceName as SERVING.
func NewServer(serviceName string, log *logger.Logger) *grpc.Server {
	server := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpclogging.UnaryServerInterceptor(interceptorLogger(log)),
		),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_SERVING)

	reflection.Register(server)

	return server
}

// interceptorLogger adapts the zap-backed Logger to go-grpc-middleware's
// leveled Logger interface.
func interceptorLogger(log *logger.Logger) grpclogging.Logger {
	return grpclogging.LoggerFunc(func(ctx context.Context, lvl grpclogging.Level, msg string, fields ...interface{}) {
		switch lvl {
		case grpclogging.LevelDebug:
			log.Debugw(msg, fields...)
		case grpclogging.LevelWarn:
			log.Warnw(msg, fields...)
		case grpclogging.LevelError:
			log.Errorw(msg, fields...)
		default:
			log.Infow(msg, fields...)
		}
	})
}
