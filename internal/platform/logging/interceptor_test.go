package logging

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestUnaryServerInterceptor_GeneratesRequestID(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	interceptor := UnaryServerInterceptor(zap.New(core))

	var seen string
	handler := func(ctx context.Context, req any) (any, error) {
		id, ok := RequestIDFromContext(ctx)
		if !ok {
			t.Fatalf("request id missing from context")
		}
		seen = id
		return "ok", nil
	}

	resp, err := interceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: "/acid.v1.AcidService/SayHello"}, handler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("unexpected response %v", resp)
	}

	if _, err := uuid.Parse(seen); err != nil {
		t.Fatalf("expected uuid request id, got %q", seen)
	}

	entries := logs.FilterMessage("grpc.request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["method"] != "/acid.v1.AcidService/SayHello" || fields["code"] != "OK" {
		t.Fatalf("unexpected log fields: %v", fields)
	}
}

func TestUnaryServerInterceptor_PropagatesIncomingID(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	interceptor := UnaryServerInterceptor(zap.New(core))

	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "req-123"))
	handlerErr := status.Error(codes.Internal, "boom")

	_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/x/y"}, func(ctx context.Context, req any) (any, error) {
		if id, _ := RequestIDFromContext(ctx); id != "req-123" {
			t.Fatalf("expected propagated id, got %q", id)
		}
		return nil, handlerErr
	})
	if !errors.Is(err, handlerErr) {
		t.Fatalf("expected handler error, got %v", err)
	}

	entries := logs.All()
	if len(entries) != 1 || entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("expected one error-level entry, got %+v", entries)
	}
}

func TestUnaryServerInterceptor_ReplacesUnsafeIncomingID(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"too long":  strings.Repeat("a", maxRequestIDLen+1),
		"newline":   "req-1\nforged=entry",
		"space":     "req 1",
		"non-ascii": "req-ü",
	}

	for name, incoming := range cases {
		core, logs := observer.New(zapcore.DebugLevel)
		interceptor := UnaryServerInterceptor(zap.New(core))
		ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, incoming))

		var seen string
		_, err := interceptor(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/x/y"}, func(ctx context.Context, req any) (any, error) {
			seen, _ = RequestIDFromContext(ctx)
			return nil, nil
		})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if _, err := uuid.Parse(seen); err != nil {
			t.Fatalf("%s: expected generated uuid, got %q", name, seen)
		}
		if got := logs.All()[0].ContextMap()["request_id"]; got != seen {
			t.Fatalf("%s: expected logged id %q, got %v", name, seen, got)
		}
	}
}

func TestUnaryServerInterceptor_KeepsIncomingIDAtLimit(t *testing.T) {
	t.Parallel()

	incoming := strings.Repeat("A", maxRequestIDLen-4) + "._-9"
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, incoming))

	_, err := UnaryServerInterceptor(nil)(ctx, nil, &grpc.UnaryServerInfo{FullMethod: "/x/y"}, func(ctx context.Context, req any) (any, error) {
		if id, _ := RequestIDFromContext(ctx); id != incoming {
			t.Fatalf("expected incoming id to be kept, got %q", id)
		}
		return nil, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	if _, err := New(configWithLevel("loud")); err == nil {
		t.Fatal("expected error for unknown level")
	}

	logger, err := New(configWithLevel("warn"))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger.Core().Enabled(zapcore.InfoLevel) {
		t.Fatal("info should be disabled at warn level")
	}
}
