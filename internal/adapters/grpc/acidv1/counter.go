package acidv1

import (
	"fmt"
	"strconv"

	"google.golang.org/protobuf/types/known/structpb"
)

// カウンター値は int64 全域を保つため、Struct の number (float64) ではなく 10 進文字列で運びます。

// FormatCounterValue はカウンター値を応答用の文字列へ変換します。
func FormatCounterValue(v int64) string {
	return strconv.FormatInt(v, 10)
}

// CounterValue はカウンター応答の "value" フィールドを読み取ります。
func CounterValue(s *structpb.Struct) (int64, error) {
	raw, ok := s.GetFields()["value"].GetKind().(*structpb.Value_StringValue)
	if !ok {
		return 0, fmt.Errorf("acidv1: counter value must be a decimal string")
	}
	v, err := strconv.ParseInt(raw.StringValue, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("acidv1: parse counter value: %w", err)
	}
	return v, nil
}
