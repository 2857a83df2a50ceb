package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/ogurasousui/acid-suite/internal/adapters/grpc/acidv1"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

const defaultAddr = "localhost:50051"

// api は CLI が利用する acid.v1.AcidService の操作です。
type api interface {
	SayHello(ctx context.Context, opts ...grpc.CallOption) (string, error)
	GetCounter(ctx context.Context, name string, opts ...grpc.CallOption) (*structpb.Struct, error)
	IncreaseCounter(ctx context.Context, name string, opts ...grpc.CallOption) (*structpb.Struct, error)
	DecreaseCounter(ctx context.Context, name string, opts ...grpc.CallOption) (*structpb.Struct, error)
	ResetCounter(ctx context.Context, name string, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetBuildInfo(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetSystemStatus(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type connectFunc func(addr string) (api, io.Closer, error)

type options struct {
	addr    string
	timeout time.Duration
	connect connectFunc
}

func dialGRPC(addr string) (api, io.Closer, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, err
	}
	return acidv1.NewClient(conn), conn, nil
}

// Execute は CLI を実行します。
func Execute() {
	if err := newRootCmd(dialGRPC).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(connect connectFunc) *cobra.Command {
	opts := &options{connect: connect}

	addr := os.Getenv("ACID_ADDR")
	if addr == "" {
		addr = defaultAddr
	}

	cmd := &cobra.Command{
		Use:          "acid",
		Short:        "ACiD Suite client for greetings, counters and status",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.addr, "addr", addr, "gRPC server address (env ACID_ADDR)")
	cmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 5*time.Second, "per-call timeout")

	cmd.AddCommand(
		helloCmd(opts),
		versionCmd(),
		infoCmd(opts),
		statusCmd(opts),
		counterCmd(opts),
	)
	return cmd
}

// withClient は接続を確立し、タイムアウト付きコンテキストで fn を実行します。
func (o *options) withClient(parent context.Context, fn func(ctx context.Context, c api) error) error {
	client, closer, err := o.connect(o.addr)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	ctx, cancel := context.WithTimeout(parent, o.timeout)
	defer cancel()
	return fn(ctx, client)
}
