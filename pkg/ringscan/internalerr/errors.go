package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrFragmentTooLarge = errors.New("fragment exceeds size cap")
	ErrTruncatedDump    = errors.New("dump ended with incomplete record")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
