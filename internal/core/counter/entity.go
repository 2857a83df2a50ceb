package counter

import "time"

// DefaultName は名前が指定されなかった場合に使用するカウンター名です。
const DefaultName = "default"

// Counter は名前付きの整数カウンターです。
type Counter struct {
	Name      string
	Value     int64
	UpdatedAt time.Time
}
