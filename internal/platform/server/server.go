package server

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/ogurasousui/acid-suite/internal/adapters/grpc/acidv1"
	"github.com/ogurasousui/acid-suite/internal/adapters/grpc/handler"
	"github.com/ogurasousui/acid-suite/internal/core/buildinfo"
	"github.com/ogurasousui/acid-suite/internal/core/counter"
	"github.com/ogurasousui/acid-suite/internal/core/hello"
	"github.com/ogurasousui/acid-suite/internal/platform/logging"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Deps はサーバーが公開するユースケース群です。
type Deps struct {
	Greeter   hello.Greeter
	Counters  counter.UseCase
	BuildInfo buildinfo.Info
	Status    handler.StatusReporter
	Logger    *zap.Logger
}

// Server は gRPC サーバーのライフサイクルを管理します。
type Server struct {
	listenAddr string
	grpcServer *grpc.Server
	health     *grpchealth.Server
	logger     *zap.Logger
}

// New は指定されたアドレスで待ち受ける gRPC サーバーを構築します。
func New(listenAddr string, deps Deps, opts ...grpc.ServerOption) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(logging.UnaryServerInterceptor(logger))}, opts...)
	srv := grpc.NewServer(opts...)

	acidHandler := handler.NewAcidHandler(
		handler.NewGreeterHandler(deps.Greeter),
		handler.NewCounterHandler(deps.Counters),
		handler.NewSystemHandler(deps.BuildInfo, deps.Status),
	)
	acidv1.RegisterAcidServiceServer(srv, acidHandler)

	healthServer := grpchealth.NewServer()
	healthpb.RegisterHealthServer(srv, healthServer)

	return &Server{
		listenAddr: listenAddr,
		grpcServer: srv,
		health:     healthServer,
		logger:     logger,
	}
}

// HealthPublisher はヘルスチェック結果を gRPC ヘルスサービスへ反映する Publisher を返します。
func (s *Server) HealthPublisher() *handler.HealthPublisher {
	return handler.NewHealthPublisher(s.health)
}

// Run はサーバーを起動し、コンテキストがキャンセルされると GracefulStop します。
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.listenAddr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.listenAddr, err)
	}
	return s.Serve(ctx, lis)
}

// Serve は既存のリスナーでサーバーを起動します。
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			s.GracefulStop()
		case <-done:
		}
	}()

	s.logger.Info("grpc.serving", zap.String("addr", lis.Addr().String()))

	if err := s.grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serve gRPC: %w", err)
	}

	return nil
}

// GracefulStop はヘルス状態を NOT_SERVING にしてからサーバーを安全に停止します。
func (s *Server) GracefulStop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
