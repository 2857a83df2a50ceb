package health

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// State はコンポーネントの稼働状態を表します。
type State string

const (
	StateChecking State = "checking"
	StateHealthy  State = "healthy"
	StateError    State = "error"
	StateWarning  State = "warning"
)

// Icon は状態に対応する表示用アイコンを返します。未知の状態は警告扱いです。
func (s State) Icon() string {
	switch s {
	case StateHealthy:
		return "✅"
	case StateChecking:
		return "🔄"
	case StateError:
		return "❌"
	default:
		return "⚠️"
	}
}

// Checker は単一コンポーネントの疎通確認を行います。
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckerFunc は関数を Checker として扱うためのアダプタです。
type CheckerFunc struct {
	ComponentName string
	Fn            func(ctx context.Context) error
}

func (c CheckerFunc) Name() string { return c.ComponentName }

func (c CheckerFunc) Check(ctx context.Context) error { return c.Fn(ctx) }

// ComponentStatus は 1 コンポーネントの確認結果です。
type ComponentStatus struct {
	Name      string
	State     State
	Detail    string
	CheckedAt time.Time
}

// Report はすべてのコンポーネントの確認結果をまとめたものです。
type Report struct {
	Overall    State
	Components []ComponentStatus
}

// Clock は現在時刻を提供します。
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

const defaultCheckTimeout = 2 * time.Second

// ErrInvalidInterval は Watch の間隔が不正な場合に返却されます。
var ErrInvalidInterval = errors.New("invalid watch interval")

// Service は登録された Checker を並行実行し、最新の結果を保持します。
type Service struct {
	checkers []Checker
	timeout  time.Duration
	clock    Clock

	mu   sync.RWMutex
	last Report
}

// NewService は Service を生成します。timeout が 0 以下なら既定値を使います。
func NewService(timeout time.Duration, clock Clock, checkers ...Checker) *Service {
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	if clock == nil {
		clock = realClock{}
	}

	initial := make([]ComponentStatus, len(checkers))
	for i, c := range checkers {
		initial[i] = ComponentStatus{Name: c.Name(), State: StateChecking}
	}

	return &Service{
		checkers: checkers,
		timeout:  timeout,
		clock:    clock,
		last:     Report{Overall: StateChecking, Components: initial},
	}
}

// Check はすべての Checker を実行し、結果を保存して返します。
func (s *Service) Check(ctx context.Context) Report {
	statuses := make([]ComponentStatus, len(s.checkers))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range s.checkers {
		g.Go(func() error {
			statuses[i] = s.checkOne(gctx, c)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Overall: overallState(statuses), Components: statuses}

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()

	return report
}

// Snapshot は直近の結果を返します。初回確認前はすべて checking です。
func (s *Service) Snapshot() Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	components := make([]ComponentStatus, len(s.last.Components))
	copy(components, s.last.Components)
	return Report{Overall: s.last.Overall, Components: components}
}

// Watch は即座に確認を行い、以降 interval ごとに繰り返します。ctx がキャンセルされるまでブロックします。
func (s *Service) Watch(ctx context.Context, interval time.Duration, fn func(Report)) error {
	if interval <= 0 {
		return fmt.Errorf("health: %w: %v", ErrInvalidInterval, interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		report := s.Check(ctx)
		if fn != nil {
			fn(report)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Service) checkOne(ctx context.Context, c Checker) ComponentStatus {
	checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	status := ComponentStatus{Name: c.Name(), State: StateHealthy}
	if err := c.Check(checkCtx); err != nil {
		status.State = StateError
		status.Detail = err.Error()
	}
	status.CheckedAt = s.clock.Now()
	return status
}

func overallState(statuses []ComponentStatus) State {
	overall := StateHealthy
	for _, st := range statuses {
		switch st.State {
		case StateError:
			return StateError
		case StateChecking:
			overall = StateChecking
		}
	}
	return overall
}
