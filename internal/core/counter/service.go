package counter

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

const maxNameLength = 64

var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// UseCase はカウンターユースケースの公開インターフェースです。
type UseCase interface {
	GetCounter(ctx context.Context, in CounterInput) (*Counter, error)
	IncreaseCounter(ctx context.Context, in CounterInput) (*Counter, error)
	DecreaseCounter(ctx context.Context, in CounterInput) (*Counter, error)
	ResetCounter(ctx context.Context, in CounterInput) (*Counter, error)
}

// CounterInput は操作対象のカウンターを指定します。Name が空なら DefaultName を使います。
type CounterInput struct {
	Name string
}

// Service はカウンターに関するユースケースをまとめます。
type Service struct {
	repo  Repository
	clock Clock
	tx    TransactionManager
}

// NewService は Service を生成します。
func NewService(repo Repository, clock Clock, tx TransactionManager) *Service {
	if clock == nil {
		clock = realClock{}
	}
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, clock: clock, tx: tx}
}

// GetCounter は現在値を返します。未作成のカウンターは 0 として扱います。
func (s *Service) GetCounter(ctx context.Context, in CounterInput) (*Counter, error) {
	name, err := NormalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	var found *Counter
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Find(txCtx, name)
		if errors.Is(err, ErrCounterNotFound) {
			found = &Counter{Name: name}
			return nil
		}
		if err != nil {
			return err
		}
		found = result
		return nil
	}); err != nil {
		return nil, err
	}

	return found, nil
}

// IncreaseCounter はカウンターを 1 増やします。
func (s *Service) IncreaseCounter(ctx context.Context, in CounterInput) (*Counter, error) {
	return s.add(ctx, in.Name, 1)
}

// DecreaseCounter はカウンターを 1 減らします。負の値も許容します。
func (s *Service) DecreaseCounter(ctx context.Context, in CounterInput) (*Counter, error) {
	return s.add(ctx, in.Name, -1)
}

// ResetCounter はカウンターを 0 に戻します。
func (s *Service) ResetCounter(ctx context.Context, in CounterInput) (*Counter, error) {
	name, err := NormalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	var updated *Counter
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Set(txCtx, name, 0, s.clock.Now())
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Service) add(ctx context.Context, rawName string, delta int64) (*Counter, error) {
	name, err := NormalizeName(rawName)
	if err != nil {
		return nil, err
	}

	var updated *Counter
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Add(txCtx, name, delta, s.clock.Now())
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// NormalizeName はカウンター名を正規化します。空文字列は DefaultName になります。
func NormalizeName(raw string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return DefaultName, nil
	}
	if len(trimmed) > maxNameLength || !namePattern.MatchString(trimmed) {
		return "", ErrInvalidName
	}
	return trimmed, nil
}
