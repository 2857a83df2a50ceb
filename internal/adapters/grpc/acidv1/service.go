// Package acidv1 は acid.v1.AcidService の gRPC サービス定義です。
//
// メッセージには protobuf の well-known types (Empty / StringValue / Struct) のみを使うため、
// .proto からのコード生成を必要としません。
package acidv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName は完全修飾サービス名です。
const ServiceName = "acid.v1.AcidService"

const (
	MethodSayHello        = "SayHello"
	MethodGetCounter      = "GetCounter"
	MethodIncreaseCounter = "IncreaseCounter"
	MethodDecreaseCounter = "DecreaseCounter"
	MethodResetCounter    = "ResetCounter"
	MethodGetBuildInfo    = "GetBuildInfo"
	MethodGetSystemStatus = "GetSystemStatus"
)

// FullMethod は "/acid.v1.AcidService/<method>" 形式のメソッド名を返します。
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// AcidServiceServer はサーバー側で実装するインターフェースです。
type AcidServiceServer interface {
	SayHello(ctx context.Context, req *emptypb.Empty) (*wrapperspb.StringValue, error)
	GetCounter(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	IncreaseCounter(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	DecreaseCounter(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	ResetCounter(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error)
	GetBuildInfo(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	GetSystemStatus(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterAcidServiceServer は srv を gRPC サーバーへ登録します。
func RegisterAcidServiceServer(s grpc.ServiceRegistrar, srv AcidServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc は acid.v1.AcidService の grpc.ServiceDesc です。
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AcidServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodSayHello, Handler: emptyHandler(MethodSayHello, func(s AcidServiceServer) func(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error) {
			return s.SayHello
		})},
		{MethodName: MethodGetCounter, Handler: nameHandler(MethodGetCounter, func(s AcidServiceServer) nameMethod { return s.GetCounter })},
		{MethodName: MethodIncreaseCounter, Handler: nameHandler(MethodIncreaseCounter, func(s AcidServiceServer) nameMethod { return s.IncreaseCounter })},
		{MethodName: MethodDecreaseCounter, Handler: nameHandler(MethodDecreaseCounter, func(s AcidServiceServer) nameMethod { return s.DecreaseCounter })},
		{MethodName: MethodResetCounter, Handler: nameHandler(MethodResetCounter, func(s AcidServiceServer) nameMethod { return s.ResetCounter })},
		{MethodName: MethodGetBuildInfo, Handler: emptyHandler(MethodGetBuildInfo, func(s AcidServiceServer) func(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
			return s.GetBuildInfo
		})},
		{MethodName: MethodGetSystemStatus, Handler: emptyHandler(MethodGetSystemStatus, func(s AcidServiceServer) func(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
			return s.GetSystemStatus
		})},
	},
	Streams: []grpc.StreamDesc{},
}

type nameMethod func(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)

type methodHandler = func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error)

func emptyHandler[Resp any](method string, pick func(AcidServiceServer) func(context.Context, *emptypb.Empty) (Resp, error)) methodHandler {
	return unaryHandler(method, func() *emptypb.Empty { return new(emptypb.Empty) }, pick)
}

func nameHandler(method string, pick func(AcidServiceServer) nameMethod) methodHandler {
	return unaryHandler(method, func() *wrapperspb.StringValue { return new(wrapperspb.StringValue) },
		func(s AcidServiceServer) func(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error) {
			return pick(s)
		})
}

func unaryHandler[Req any, Resp any](method string, newReq func() Req, pick func(AcidServiceServer) func(context.Context, Req) (Resp, error)) methodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		call := pick(srv.(AcidServiceServer))
		if interceptor == nil {
			return call(ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
