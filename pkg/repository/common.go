package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-pkgz/repeater/v2"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("not found")

// errCritical is passed to repeater as a terminating error, criticalError matches it
var errCritical = errors.New("critical database error")

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

// Is makes any criticalError match errCritical, so repeater stops on it
func (e *criticalError) Is(target error) bool {
	return target == errCritical //nolint:errorlint // sentinel identity
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

// retryOnLock runs fn with backoff while it fails with sqlite lock errors.
// fn returns lock errors as is, everything else is wrapped as critical and returned right away.
func retryOnLock(ctx context.Context, fn func() error) error {
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		err := fn()
		if err == nil || isLockError(err) {
			return err
		}
		return &criticalError{err: err}
	}, errCritical)

	var ce *criticalError
	if errors.As(err, &ce) {
		return ce.err
	}
	return err
}

// now returns current time in UTC, all stored timestamps use it
func now() time.Time {
	return time.Now().UTC()
}
