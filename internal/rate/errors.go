package rate

import "errors"

var (
	// ErrRateLimited is returned once a login budget is exhausted.
	ErrRateLimited = errors.New("rate limited")
	// ErrStoreUnavailable wraps counter backend failures.
	ErrStoreUnavailable = errors.New("rate store unavailable")
)
