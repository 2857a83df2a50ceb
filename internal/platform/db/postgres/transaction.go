package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// ErrReadOnlyTransaction は読み取り専用トランザクションの内側で書き込みを開始しようとした場合に返却されます。
var ErrReadOnlyTransaction = errors.New("postgres: read-write work inside read-only transaction")

type txContextKey struct{}

type txState struct {
	tx    pgx.Tx
	mode  pgx.TxAccessMode
	hooks *[]func()
}

type txStarter interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TransactionManager は pgx を用いたトランザクション制御を提供します。
type TransactionManager struct {
	pool   txStarter
	logger *zap.Logger
}

// NewTransactionManager は TransactionManager を生成します。pool が nil の場合は nil を返し、
// その場合の WithinReadOnly / WithinReadWrite は fn をそのまま実行します。
func NewTransactionManager(pool txStarter, logger *zap.Logger) *TransactionManager {
	if pool == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionManager{pool: pool, logger: logger}
}

// WithinReadOnly は読み取り専用トランザクションを開始し、fn を実行します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, pgx.ReadOnly, fn)
}

// WithinReadWrite は読み書きトランザクションを開始し、fn を実行します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.within(ctx, pgx.ReadWrite, fn)
}

func (m *TransactionManager) within(ctx context.Context, mode pgx.TxAccessMode, fn func(context.Context) error) error {
	if fn == nil {
		return fmt.Errorf("postgres: transaction function is required")
	}

	// 既存トランザクションがあれば再利用する。
	if state, ok := stateFromContext(ctx); ok {
		if state.mode == pgx.ReadOnly && mode == pgx.ReadWrite {
			return ErrReadOnlyTransaction
		}
		return fn(ctx)
	}

	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: mode})
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}

	var hooks []func()
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
		for _, h := range hooks {
			h()
		}
	}()

	if err := fn(context.WithValue(ctx, txContextKey{}, txState{tx: tx, mode: mode, hooks: &hooks})); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			m.logger.Warn("postgres.rollback_failed", zap.Error(rbErr))
			return errors.Join(err, fmt.Errorf("postgres: rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if !errors.Is(err, pgx.ErrTxClosed) {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				m.logger.Warn("postgres.rollback_failed", zap.Error(rbErr))
				return errors.Join(fmt.Errorf("postgres: commit: %w", err), fmt.Errorf("postgres: rollback after commit failure: %w", rbErr))
			}
		}
		return fmt.Errorf("postgres: commit: %w", err)
	}

	committed = true
	return nil
}

// AfterTx は ctx のトランザクションが終了 (コミットまたはロールバック) した後に fn を実行します。
// トランザクション外であれば fn を即座に実行します。
func (m *TransactionManager) AfterTx(ctx context.Context, fn func()) {
	state, ok := stateFromContext(ctx)
	if !ok || state.hooks == nil {
		fn()
		return
	}
	*state.hooks = append(*state.hooks, fn)
}

func stateFromContext(ctx context.Context) (txState, bool) {
	if ctx == nil {
		return txState{}, false
	}
	state, ok := ctx.Value(txContextKey{}).(txState)
	return state, ok
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	state, ok := stateFromContext(ctx)
	return state.tx, ok
}

// QueryerFromContext はコンテキスト内にトランザクションが存在すればそれを返し、存在しなければ fallback を返します。
func QueryerFromContext(ctx context.Context, fallback Queryer) Queryer {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return fallback
}

// Queryer は pgx.Tx および pgxpool.Pool と互換性のあるクエリ実行インターフェースです。
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
