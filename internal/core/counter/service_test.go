package counter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (s *stubClock) Now() time.Time {
	return s.now
}

type fakeRepo struct {
	counters map[string]*Counter
	findErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{counters: make(map[string]*Counter)}
}

func (r *fakeRepo) Find(_ context.Context, name string) (*Counter, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	c, ok := r.counters[name]
	if !ok {
		return nil, ErrCounterNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *fakeRepo) Add(_ context.Context, name string, delta int64, at time.Time) (*Counter, error) {
	c, ok := r.counters[name]
	if !ok {
		c = &Counter{Name: name}
		r.counters[name] = c
	}
	c.Value += delta
	c.UpdatedAt = at
	clone := *c
	return &clone, nil
}

func (r *fakeRepo) Set(_ context.Context, name string, value int64, at time.Time) (*Counter, error) {
	r.counters[name] = &Counter{Name: name, Value: value, UpdatedAt: at}
	clone := *r.counters[name]
	return &clone, nil
}

type recordingTx struct {
	readOnly  int
	readWrite int
}

func (r *recordingTx) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	r.readOnly++
	return fn(ctx)
}

func (r *recordingTx) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	r.readWrite++
	return fn(ctx)
}

func TestService_GetCounter_DefaultsToZero(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), nil, nil)

	c, err := svc.GetCounter(context.Background(), CounterInput{})
	if err != nil {
		t.Fatalf("GetCounter returned error: %v", err)
	}

	if c.Name != DefaultName || c.Value != 0 {
		t.Fatalf("expected default counter at 0, got %+v", c)
	}
}

func TestService_IncreaseDecreaseReset(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := newFakeRepo()
	tx := &recordingTx{}
	svc := NewService(repo, &stubClock{now: now}, tx)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.IncreaseCounter(ctx, CounterInput{Name: "clicks"}); err != nil {
			t.Fatalf("IncreaseCounter returned error: %v", err)
		}
	}

	c, err := svc.GetCounter(ctx, CounterInput{Name: "clicks"})
	if err != nil {
		t.Fatalf("GetCounter returned error: %v", err)
	}
	if c.Value != 2 {
		t.Fatalf("expected 2, got %d", c.Value)
	}
	if !c.UpdatedAt.Equal(now) {
		t.Fatalf("expected UpdatedAt %v, got %v", now, c.UpdatedAt)
	}

	reset, err := svc.ResetCounter(ctx, CounterInput{Name: "clicks"})
	if err != nil {
		t.Fatalf("ResetCounter returned error: %v", err)
	}
	if reset.Value != 0 {
		t.Fatalf("expected 0 after reset, got %d", reset.Value)
	}

	if tx.readWrite != 3 || tx.readOnly != 1 {
		t.Fatalf("unexpected transaction usage: rw=%d ro=%d", tx.readWrite, tx.readOnly)
	}
}

func TestService_DecreaseBelowZero(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), nil, nil)

	c, err := svc.DecreaseCounter(context.Background(), CounterInput{})
	if err != nil {
		t.Fatalf("DecreaseCounter returned error: %v", err)
	}

	if c.Value != -1 {
		t.Fatalf("expected -1, got %d", c.Value)
	}
}

func TestService_InvalidName(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), nil, nil)

	for _, name := range []string{"-leading", "has space", "UPPER!", strings.Repeat("a", 65)} {
		if _, err := svc.IncreaseCounter(context.Background(), CounterInput{Name: name}); !errors.Is(err, ErrInvalidName) {
			t.Fatalf("name %q: expected ErrInvalidName, got %v", name, err)
		}
	}
}

func TestService_GetCounter_RepositoryError(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	repo.findErr = errors.New("boom")
	svc := NewService(repo, nil, nil)

	if _, err := svc.GetCounter(context.Background(), CounterInput{}); !errors.Is(err, repo.findErr) {
		t.Fatalf("expected repository error, got %v", err)
	}
}

func TestNormalizeName(t *testing.T) {
	t.Parallel()

	got, err := NormalizeName("  Page-Views ")
	if err != nil {
		t.Fatalf("NormalizeName returned error: %v", err)
	}
	if got != "page-views" {
		t.Fatalf("expected page-views, got %s", got)
	}
}
