package handler

import (
	"github.com/ogurasousui/acid-suite/internal/core/health"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// HealthPublisher はヘルスチェック結果を grpc.health.v1.Health へ反映します。
// 各コンポーネント名をサービス名として、空文字列を全体状態として公開します。
type HealthPublisher struct {
	server *grpchealth.Server
}

// NewHealthPublisher は HealthPublisher を生成します。
func NewHealthPublisher(server *grpchealth.Server) *HealthPublisher {
	return &HealthPublisher{server: server}
}

// Publish は report を gRPC ヘルスサーバーへ反映します。
func (p *HealthPublisher) Publish(report health.Report) {
	for _, c := range report.Components {
		p.server.SetServingStatus(c.Name, servingStatus(c.State))
	}
	p.server.SetServingStatus("", servingStatus(report.Overall))
}

func servingStatus(state health.State) healthpb.HealthCheckResponse_ServingStatus {
	switch state {
	case health.StateHealthy:
		return healthpb.HealthCheckResponse_SERVING
	case health.StateError:
		return healthpb.HealthCheckResponse_NOT_SERVING
	default:
		return healthpb.HealthCheckResponse_UNKNOWN
	}
}
