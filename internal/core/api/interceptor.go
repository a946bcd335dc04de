package api

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/solatis/chancekeeper/internal/core/metrics"
	"github.com/solatis/chancekeeper/internal/logger"
)

// RequestIDHeader is the metadata key carrying a caller supplied request ID.
const RequestIDHeader = "x-request-id"

// RequestLoggerInterceptor injects a request-scoped logger into the context
// and logs the outcome of each call. A request ID is taken from the
// x-request-id metadata or generated.
func RequestLoggerInterceptor(base zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()

		reqID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get(RequestIDHeader); len(ids) > 0 {
				reqID = ids[0]
			}
		}
		if reqID == "" {
			reqID = uuid.NewString()
		}

		rpcLogger := base.With().
			Str("request_id", reqID).
			Str("rpc_method", info.FullMethod).
			Logger()
		ctx = logger.WithContext(ctx, rpcLogger)

		resp, err := handler(ctx, req)

		code := status.Code(err)

		// OK, NotFound and argument errors are expected; infrastructure codes are not
		level := zerolog.InfoLevel
		switch code {
		case codes.Internal, codes.Unavailable, codes.DataLoss, codes.Unknown:
			level = zerolog.ErrorLevel
		case codes.DeadlineExceeded, codes.Unimplemented:
			level = zerolog.WarnLevel
		}

		rpcLogger.WithLevel(level).
			Str("code", code.String()).
			Dur("duration", time.Since(start)).
			Str("peer_addr", peerAddr(ctx)).
			Msg("grpc request completed")

		return resp, err
	}
}

// MetricsInterceptor records request counts and latency per method.
func MetricsInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		metrics.GRPCRequestDuration.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
		metrics.GRPCRequestsTotal.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
		return resp, err
	}
}

// TimeoutInterceptor bounds each call by d unless the caller set an earlier
// deadline.
func TimeoutInterceptor(d time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return handler(ctx, req)
	}
}

func peerAddr(ctx context.Context) string {
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return p.Addr.String()
	}
	return "unknown"
}
