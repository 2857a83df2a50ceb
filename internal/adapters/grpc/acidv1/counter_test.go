package acidv1

import (
	"math"
	"testing"

	"google.golang.org/protobuf/types/known/structpb"
)

func TestCounterValue_KeepsInt64Range(t *testing.T) {
	t.Parallel()

	for _, want := range []int64{0, -1, 1<<53 + 1, math.MaxInt64, math.MinInt64} {
		s, err := structpb.NewStruct(map[string]any{"value": FormatCounterValue(want)})
		if err != nil {
			t.Fatalf("NewStruct returned error: %v", err)
		}
		got, err := CounterValue(s)
		if err != nil {
			t.Fatalf("CounterValue(%d) returned error: %v", want, err)
		}
		if got != want {
			t.Fatalf("expected %d, got %d", want, got)
		}
	}
}

func TestCounterValue_RejectsNonString(t *testing.T) {
	t.Parallel()

	for _, fields := range []map[string]any{
		{"value": float64(3)},
		{"value": "3.5"},
		{},
	} {
		s, err := structpb.NewStruct(fields)
		if err != nil {
			t.Fatalf("NewStruct returned error: %v", err)
		}
		if _, err := CounterValue(s); err == nil {
			t.Fatalf("expected error for %v", fields)
		}
	}
}
