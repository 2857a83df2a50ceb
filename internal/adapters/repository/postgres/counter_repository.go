package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ogurasousui/acid-suite/internal/core/counter"
	pgdb "github.com/ogurasousui/acid-suite/internal/platform/db/postgres"
)

// CounterRepository は PostgreSQL を利用したカウンター永続化の実装です。
type CounterRepository struct {
	pool pgdb.Queryer
}

// NewCounterRepository は CounterRepository を生成します。
func NewCounterRepository(pool pgdb.Queryer) *CounterRepository {
	return &CounterRepository{pool: pool}
}

// Find は名前でカウンターを取得します。
func (r *CounterRepository) Find(ctx context.Context, name string) (*counter.Counter, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT name, value, updated_at
          FROM counters
         WHERE name = $1
    `, name)

	return scanCounter(row)
}

// Add は delta を加算します。行が存在しなければ delta を初期値として作成します。
func (r *CounterRepository) Add(ctx context.Context, name string, delta int64, at time.Time) (*counter.Counter, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO counters (name, value, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (name) DO UPDATE
           SET value = counters.value + EXCLUDED.value,
               updated_at = EXCLUDED.updated_at
        RETURNING name, value, updated_at
    `, name, delta, at)

	return scanCounter(row)
}

// Set は値を上書きします。行が存在しなければ作成します。
func (r *CounterRepository) Set(ctx context.Context, name string, value int64, at time.Time) (*counter.Counter, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO counters (name, value, updated_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (name) DO UPDATE
           SET value = EXCLUDED.value,
               updated_at = EXCLUDED.updated_at
        RETURNING name, value, updated_at
    `, name, value, at)

	return scanCounter(row)
}

func scanCounter(row pgx.Row) (*counter.Counter, error) {
	var (
		name      string
		value     int64
		updatedAt time.Time
	)

	if err := row.Scan(&name, &value, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, counter.ErrCounterNotFound
		}
		return nil, err
	}

	return &counter.Counter{
		Name:      name,
		Value:     value,
		UpdatedAt: updatedAt,
	}, nil
}
