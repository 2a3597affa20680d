package repository

import (
	"context"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
)

// criticalError wraps a non-lock error that must not be retried
type criticalError struct {
	err error
}

func (e *criticalError) Error() string {
	return e.err.Error()
}

func (e *criticalError) Unwrap() error {
	return e.err
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}

// withLockRetry runs fn with backoff while it fails with lock errors. Any other error stops
// retrying immediately and is returned as is.
func withLockRetry(ctx context.Context, fn func() error) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))

	var critical *criticalError
	err := retrier.Do(ctx, func() error {
		err := fn()
		if err == nil || isLockError(err) {
			return err
		}
		critical = &criticalError{err: err}
		return nil
	})
	if critical != nil {
		return critical.err
	}
	return err
}
