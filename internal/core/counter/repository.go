package counter

import (
	"context"
	"time"
)

// Repository はカウンターの永続化を行うインターフェースです。
type Repository interface {
	// Find は名前でカウンターを取得します。存在しない場合は ErrCounterNotFound を返します。
	Find(ctx context.Context, name string) (*Counter, error)
	// Add は delta を加算し、存在しなければ delta を初期値として作成します。
	Add(ctx context.Context, name string, delta int64, at time.Time) (*Counter, error)
	// Set は値を上書きし、存在しなければ作成します。
	Set(ctx context.Context, name string, value int64, at time.Time) (*Counter, error)
}
