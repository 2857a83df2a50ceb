package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"
)

type stubClock struct {
	now time.Time
}

func (s stubClock) Now() time.Time {
	return s.now
}

func okChecker(name string) Checker {
	return CheckerFunc{ComponentName: name, Fn: func(context.Context) error { return nil }}
}

func TestService_SnapshotBeforeCheck(t *testing.T) {
	t.Parallel()

	svc := NewService(0, nil, okChecker("api"), okChecker("database"))

	report := svc.Snapshot()
	if report.Overall != StateChecking {
		t.Fatalf("expected overall checking, got %s", report.Overall)
	}
	for _, c := range report.Components {
		if c.State != StateChecking {
			t.Fatalf("component %s: expected checking, got %s", c.Name, c.State)
		}
	}
}

func TestService_CheckAllHealthy(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	svc := NewService(time.Second, stubClock{now: now}, okChecker("api"), okChecker("database"), okChecker("cache"))

	report := svc.Check(context.Background())
	if report.Overall != StateHealthy {
		t.Fatalf("expected healthy, got %s", report.Overall)
	}

	if len(report.Components) != 3 || report.Components[2].Name != "cache" {
		t.Fatalf("unexpected components: %+v", report.Components)
	}

	if !report.Components[0].CheckedAt.Equal(now) {
		t.Fatalf("expected CheckedAt %v, got %v", now, report.Components[0].CheckedAt)
	}

	if svc.Snapshot().Overall != StateHealthy {
		t.Fatalf("snapshot was not updated")
	}
}

func TestService_CheckReportsError(t *testing.T) {
	t.Parallel()

	failing := CheckerFunc{ComponentName: "database", Fn: func(context.Context) error {
		return errors.New("connection refused")
	}}
	svc := NewService(time.Second, nil, okChecker("api"), failing)

	report := svc.Check(context.Background())
	if report.Overall != StateError {
		t.Fatalf("expected error, got %s", report.Overall)
	}

	db := report.Components[1]
	if db.State != StateError || db.Detail != "connection refused" {
		t.Fatalf("unexpected database status: %+v", db)
	}
}

func TestService_CheckAppliesTimeout(t *testing.T) {
	t.Parallel()

	slow := CheckerFunc{ComponentName: "cache", Fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	svc := NewService(10*time.Millisecond, nil, slow)

	report := svc.Check(context.Background())
	if report.Components[0].State != StateError {
		t.Fatalf("expected timed out check to be error, got %s", report.Components[0].State)
	}
}

func TestService_WatchStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc := NewService(time.Second, nil, okChecker("api"))

	ctx, cancel := context.WithCancel(context.Background())
	reports := make(chan Report, 8)
	done := make(chan error, 1)

	go func() {
		done <- svc.Watch(ctx, 5*time.Millisecond, func(r Report) {
			select {
			case reports <- r:
			default:
			}
		})
	}()

	select {
	case r := <-reports:
		if r.Overall != StateHealthy {
			t.Fatalf("expected healthy report, got %s", r.Overall)
		}
	case <-time.After(time.Second):
		t.Fatal("no report received")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
}

func TestService_WatchRejectsInvalidInterval(t *testing.T) {
	t.Parallel()

	svc := NewService(0, nil)
	if err := svc.Watch(context.Background(), 0, nil); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestState_Icon(t *testing.T) {
	t.Parallel()

	cases := map[State]string{
		StateHealthy:   "✅",
		StateChecking:  "🔄",
		StateError:     "❌",
		State("other"): "⚠️",
	}
	for state, want := range cases {
		if got := state.Icon(); got != want {
			t.Errorf("%s: expected %s, got %s", state, want, got)
		}
	}
}
