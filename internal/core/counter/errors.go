package counter

import "errors"

var (
	// ErrCounterNotFound はカウンターが存在しない場合に返却されます。
	ErrCounterNotFound = errors.New("counter not found")
	// ErrInvalidName はカウンター名が不正な場合に返却されます。
	ErrInvalidName = errors.New("invalid counter name")
)
