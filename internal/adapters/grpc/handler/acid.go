package handler

import (
	"github.com/ogurasousui/acid-suite/internal/adapters/grpc/acidv1"
)

// AcidHandler は acid.v1.AcidService の各 RPC を担当ハンドラへ振り分けます。
type AcidHandler struct {
	*GreeterHandler
	*CounterHandler
	*SystemHandler
}

var _ acidv1.AcidServiceServer = (*AcidHandler)(nil)

// NewAcidHandler は AcidHandler を生成します。
func NewAcidHandler(greeter *GreeterHandler, counters *CounterHandler, system *SystemHandler) *AcidHandler {
	return &AcidHandler{
		GreeterHandler: greeter,
		CounterHandler: counters,
		SystemHandler:  system,
	}
}
