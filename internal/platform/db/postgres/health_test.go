package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestPingChecker_Check(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("down"))

	checker := NewPingChecker(mock)
	if checker.Name() != "database" {
		t.Fatalf("unexpected name %s", checker.Name())
	}

	if err := checker.Check(context.Background()); err != nil {
		t.Fatalf("first ping should succeed: %v", err)
	}

	if err := checker.Check(context.Background()); err == nil {
		t.Fatal("second ping should fail")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPingChecker_NilPool(t *testing.T) {
	t.Parallel()

	if err := NewPingChecker(nil).Check(context.Background()); err == nil {
		t.Fatal("expected error for nil pool")
	}
}
