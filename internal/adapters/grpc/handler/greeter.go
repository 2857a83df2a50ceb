package handler

import (
	"context"

	"github.com/ogurasousui/acid-suite/internal/core/hello"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// GreeterHandler は挨拶ユースケースを gRPC から呼び出すアダプタです。
type GreeterHandler struct {
	greeter hello.Greeter
}

// NewGreeterHandler は GreeterHandler を生成します。
func NewGreeterHandler(g hello.Greeter) *GreeterHandler {
	return &GreeterHandler{greeter: g}
}

// SayHello はユースケースを呼び出し、挨拶文をそのまま返します。
func (h *GreeterHandler) SayHello(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	message, err := h.greeter.SayHello(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}
	return wrapperspb.String(message), nil
}
