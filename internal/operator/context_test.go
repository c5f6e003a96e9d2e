package operator

import (
	"context"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

func TestGetOperator(t *testing.T) {
	if got := GetOperator(context.Background()); got != "" {
		t.Errorf("empty context = %q", got)
	}

	md := metadata.Pairs(MetadataKey, " kasir-1 ")
	ctx := metadata.NewIncomingContext(context.Background(), md)
	if got := GetOperator(ctx); got != "kasir-1" {
		t.Errorf("metadata = %q", got)
	}

	if got := GetOperator(WithOperator(ctx, "override")); got != "override" {
		t.Errorf("context value = %q", got)
	}
}

func TestContextInterceptor(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(MetadataKey, "budi"))

	var seen string
	_, err := ContextInterceptor()(ctx, nil, &grpc.UnaryServerInfo{}, func(ctx context.Context, req interface{}) (interface{}, error) {
		seen, _ = ctx.Value(ctxKey{}).(string)
		return nil, nil
	})
	if err != nil || seen != "budi" {
		t.Errorf("seen = %q, err = %v", seen, err)
	}
}
