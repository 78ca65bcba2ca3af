package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
)

// criticalError wraps an error to signal repeater to stop retrying
type criticalError struct {
	err error
}

func (e *criticalError) Error() string {
	return e.err.Error()
}

func (e *criticalError) Unwrap() error {
	return e.err
}

// Is matches any criticalError, so a zero value can be passed to repeater as the stop error
func (e *criticalError) Is(target error) bool {
	_, ok := target.(*criticalError)
	return ok
}

// lockMarkers are substrings of SQLite busy and lock errors
var lockMarkers = []string{"SQLITE_BUSY", "database is locked", "database table is locked"}

// isLockError reports whether err is worth retrying after the lock is released
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, marker := range lockMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// withRetry runs fn with backoff while it fails on lock errors. Other errors are returned
// after the first attempt, unwrapped from criticalError.
func withRetry(ctx context.Context, fn func() error) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		if err := fn(); err != nil {
			if isLockError(err) {
				return err // repeater will retry this
			}
			return &criticalError{err: err}
		}
		return nil
	}, &criticalError{})

	var ce *criticalError
	if errors.As(err, &ce) {
		return ce.err
	}
	return err
}
