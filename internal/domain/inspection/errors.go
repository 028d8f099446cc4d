package inspection

import (
	"fmt"

	"mrcfield/internal/errs"
)

var (
	ErrInvalidInput         = errs.Sentinel(errs.KindInvalidInput, "invalid input")
	ErrUnknownChild         = errs.Sentinel(errs.KindUnknownChild, "unknown child")
	ErrConflict             = errs.Sentinel(errs.KindConflict, "inspection version conflict")
	ErrLimitExceeded        = errs.Sentinel(errs.KindLimitExceeded, "limit exceeded")
	ErrNotFound             = errs.Sentinel(errs.KindNotFound, "inspection not found")
	ErrInspectionLocked     = errs.Sentinel(errs.KindInvalidState, "inspection is completed and read-only")
	ErrInspectionNotStarted = errs.Sentinel(errs.KindInvalidState, "inspection has not been started")
)

// VersionConflictError reports a stale write. It matches ErrConflict.
type VersionConflictError struct {
	Expected int64
	Current  int64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("%s: expected version %d, current version %d", ErrConflict.Error(), e.Expected, e.Current)
}

func (e *VersionConflictError) Unwrap() error { return ErrConflict }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidInput}, args...)...)
}

func unknownChildf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUnknownChild}, args...)...)
}
