package handler

import (
	"context"
	"time"

	"github.com/ogurasousui/acid-suite/internal/core/buildinfo"
	"github.com/ogurasousui/acid-suite/internal/core/health"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// StatusReporter は直近のヘルスチェック結果を提供します。
type StatusReporter interface {
	Snapshot() health.Report
}

// SystemHandler はビルド情報と稼働状態を返す gRPC 実装です。
type SystemHandler struct {
	info   buildinfo.Info
	status StatusReporter
}

// NewSystemHandler は SystemHandler を生成します。
func NewSystemHandler(info buildinfo.Info, status StatusReporter) *SystemHandler {
	return &SystemHandler{info: info, status: status}
}

// GetBuildInfo はビルド情報を返します。
func (h *SystemHandler) GetBuildInfo(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	stages := make([]any, len(h.info.Stages))
	for i, s := range h.info.Stages {
		stages[i] = s
	}

	s, err := structpb.NewStruct(map[string]any{
		"version":      h.info.Version,
		"build_number": h.info.BuildNumber,
		"environment":  h.info.Environment,
		"build_date":   h.info.BuildDate.UTC().Format(time.RFC3339),
		"title":        h.info.Title(),
		"stages":       stages,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return s, nil
}

// GetSystemStatus は直近のヘルスチェック結果を返します。チェックは実行しません。
func (h *SystemHandler) GetSystemStatus(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	report := h.status.Snapshot()

	components := make([]any, len(report.Components))
	for i, c := range report.Components {
		component := map[string]any{
			"name":   c.Name,
			"state":  string(c.State),
			"icon":   c.State.Icon(),
			"detail": c.Detail,
		}
		if !c.CheckedAt.IsZero() {
			component["checked_at"] = c.CheckedAt.UTC().Format(time.RFC3339Nano)
		}
		components[i] = component
	}

	s, err := structpb.NewStruct(map[string]any{
		"overall":    string(report.Overall),
		"components": components,
	})
	if err != nil {
		return nil, toStatusError(err)
	}
	return s, nil
}
