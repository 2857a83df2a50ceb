package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ogurasousui/acid-suite/internal/core/counter"
)

// ErrClosed は Close 後のキャッシュに対する操作で返却されます。
var ErrClosed = errors.New("cache: closed")

type entry struct {
	counter   counter.Counter
	expiresAt time.Time
}

// CounterRepository は counter.Repository の読み取りをメモリ上にキャッシュするデコレーターです。
// 書き込みは下位リポジトリへ委譲し、キャッシュは無効化のみ行います。
// 読み取り中に書き込みが挟まった場合、その読み取り結果は保存しません。
type CounterRepository struct {
	next    counter.Repository
	ttl     time.Duration
	now     func() time.Time
	afterTx AfterTxFunc

	mu      sync.RWMutex
	entries map[string]entry
	gens    map[string]uint64
	closed  bool
}

// AfterTxFunc は ctx のトランザクション終了後に fn を実行します。トランザクション外なら即座に実行します。
type AfterTxFunc func(ctx context.Context, fn func())

func runNow(_ context.Context, fn func()) { fn() }

// Option は CounterRepository の任意設定です。
type Option func(*CounterRepository)

// WithAfterTx はトランザクション終了時の無効化に使うフックを設定します。
func WithAfterTx(fn AfterTxFunc) Option {
	return func(r *CounterRepository) {
		if fn != nil {
			r.afterTx = fn
		}
	}
}

// NewCounterRepository は TTL 付きのキャッシュを生成します。
func NewCounterRepository(next counter.Repository, ttl time.Duration, opts ...Option) *CounterRepository {
	r := &CounterRepository{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		afterTx: runNow,
		entries: make(map[string]entry),
		gens:    make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Find はキャッシュを優先し、期限切れや未登録の場合のみ下位リポジトリを参照します。
func (r *CounterRepository) Find(ctx context.Context, name string) (*counter.Counter, error) {
	c, gen, ok := r.lookup(name)
	if ok {
		return c, nil
	}

	found, err := r.next.Find(ctx, name)
	if err != nil {
		return nil, err
	}
	r.store(name, found, gen)
	return found, nil
}

// Add は下位リポジトリで加算し、キャッシュを無効化します。
func (r *CounterRepository) Add(ctx context.Context, name string, delta int64, at time.Time) (*counter.Counter, error) {
	r.invalidate(name)
	defer r.invalidateAfterTx(ctx, name)
	return r.next.Add(ctx, name, delta, at)
}

// Set は下位リポジトリで値を上書きし、キャッシュを無効化します。
func (r *CounterRepository) Set(ctx context.Context, name string, value int64, at time.Time) (*counter.Counter, error) {
	r.invalidate(name)
	defer r.invalidateAfterTx(ctx, name)
	return r.next.Set(ctx, name, value, at)
}

// Len は有効なエントリ数を返します。
func (r *CounterRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	n := 0
	for _, e := range r.entries {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}

// Close はキャッシュを無効化します。以降のヘルスチェックは失敗します。
func (r *CounterRepository) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.entries = make(map[string]entry)
}

// Name はヘルスチェック上のコンポーネント名です。
func (r *CounterRepository) Name() string {
	return "cache"
}

// Check はキャッシュが利用可能であることを確認します。
func (r *CounterRepository) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrClosed
	}
	return nil
}

// lookup はキャッシュ済みの値と、現時点の書き込み世代を返します。
func (r *CounterRepository) lookup(name string) (*counter.Counter, uint64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gen := r.gens[name]
	e, ok := r.entries[name]
	if !ok || r.closed || !r.now().Before(e.expiresAt) {
		return nil, gen, false
	}
	c := e.counter
	return &c, gen, true
}

// store は読み取り開始時から書き込みがなかった場合のみ c を保存します。
func (r *CounterRepository) store(name string, c *counter.Counter, gen uint64) {
	if c == nil || r.ttl <= 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.gens[name] != gen {
		return
	}
	r.entries[name] = entry{counter: *c, expiresAt: r.now().Add(r.ttl)}
}

// invalidateAfterTx は書き込み直後と、トランザクションがあればその終了後にも無効化します。
// コミット前の古い値を並行読み取りがキャッシュしても、終了時に破棄されます。
func (r *CounterRepository) invalidateAfterTx(ctx context.Context, name string) {
	r.invalidate(name)
	r.afterTx(ctx, func() { r.invalidate(name) })
}

func (r *CounterRepository) invalidate(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, name)
	r.gens[name]++
}
