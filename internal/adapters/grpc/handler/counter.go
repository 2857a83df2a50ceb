package handler

import (
	"context"
	"time"

	"github.com/ogurasousui/acid-suite/internal/adapters/grpc/acidv1"
	"github.com/ogurasousui/acid-suite/internal/core/counter"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// CounterHandler はカウンターユースケースの gRPC 実装です。
type CounterHandler struct {
	svc counter.UseCase
}

// NewCounterHandler は CounterHandler を生成します。
func NewCounterHandler(svc counter.UseCase) *CounterHandler {
	return &CounterHandler{svc: svc}
}

// GetCounter はカウンターの現在値を返します。
func (h *CounterHandler) GetCounter(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return h.call(ctx, req, h.svc.GetCounter)
}

// IncreaseCounter はカウンターを 1 増やします。
func (h *CounterHandler) IncreaseCounter(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return h.call(ctx, req, h.svc.IncreaseCounter)
}

// DecreaseCounter はカウンターを 1 減らします。
func (h *CounterHandler) DecreaseCounter(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return h.call(ctx, req, h.svc.DecreaseCounter)
}

// ResetCounter はカウンターを 0 に戻します。
func (h *CounterHandler) ResetCounter(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	return h.call(ctx, req, h.svc.ResetCounter)
}

func (h *CounterHandler) call(ctx context.Context, req *wrapperspb.StringValue, fn func(context.Context, counter.CounterInput) (*counter.Counter, error)) (*structpb.Struct, error) {
	c, err := fn(ctx, counter.CounterInput{Name: req.GetValue()})
	if err != nil {
		return nil, toStatusError(err)
	}
	return toProtoCounter(c)
}

func toProtoCounter(c *counter.Counter) (*structpb.Struct, error) {
	fields := map[string]any{
		"name":  c.Name,
		"value": acidv1.FormatCounterValue(c.Value),
	}
	if !c.UpdatedAt.IsZero() {
		fields["updated_at"] = c.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}

	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, toStatusError(err)
	}
	return s, nil
}
