package postgres

import (
	"context"
	"fmt"
)

// Pinger は pgxpool.Pool と互換性のある疎通確認インターフェースです。
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker はデータベースへの ping をヘルスチェックとして公開します。
type PingChecker struct {
	pool Pinger
}

// NewPingChecker は PingChecker を生成します。
func NewPingChecker(pool Pinger) *PingChecker {
	return &PingChecker{pool: pool}
}

// Name はヘルスチェック上のコンポーネント名です。
func (c *PingChecker) Name() string {
	return "database"
}

// Check はデータベースへ ping を送ります。
func (c *PingChecker) Check(ctx context.Context) error {
	if c.pool == nil {
		return fmt.Errorf("postgres: pool is not configured")
	}
	if err := c.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}
