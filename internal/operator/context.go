package operator

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// MetadataKey carries the operator name on incoming gRPC calls.
const MetadataKey = "x-operator"

type ctxKey struct{}

func WithOperator(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ctxKey{}, name)
}

// GetOperator returns the operator set by WithOperator, falling back to the
// request metadata.
func GetOperator(ctx context.Context) string {
	if val, ok := ctx.Value(ctxKey{}).(string); ok {
		return val
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(MetadataKey); len(val) > 0 {
			return strings.TrimSpace(val[0])
		}
	}
	return ""
}

// ContextInterceptor resolves the operator once per call.
func ContextInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		return handler(WithOperator(ctx, GetOperator(ctx)), req)
	}
}
