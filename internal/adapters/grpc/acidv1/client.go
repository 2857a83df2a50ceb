package acidv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client は acid.v1.AcidService のクライアントです。
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient は cc を用いる Client を生成します。
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// SayHello は挨拶文を取得します。
func (c *Client) SayHello(ctx context.Context, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, FullMethod(MethodSayHello), &emptypb.Empty{}, out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

// GetCounter はカウンターの現在値を取得します。
func (c *Client) GetCounter(ctx context.Context, name string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.counterCall(ctx, MethodGetCounter, name, opts...)
}

// IncreaseCounter はカウンターを 1 増やします。
func (c *Client) IncreaseCounter(ctx context.Context, name string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.counterCall(ctx, MethodIncreaseCounter, name, opts...)
}

// DecreaseCounter はカウンターを 1 減らします。
func (c *Client) DecreaseCounter(ctx context.Context, name string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.counterCall(ctx, MethodDecreaseCounter, name, opts...)
}

// ResetCounter はカウンターを 0 に戻します。
func (c *Client) ResetCounter(ctx context.Context, name string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.counterCall(ctx, MethodResetCounter, name, opts...)
}

// GetBuildInfo はビルド情報を取得します。
func (c *Client) GetBuildInfo(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(MethodGetBuildInfo), &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// GetSystemStatus はコンポーネントごとの稼働状態を取得します。
func (c *Client) GetSystemStatus(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(MethodGetSystemStatus), &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) counterCall(ctx context.Context, method, name string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), wrapperspb.String(name), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
