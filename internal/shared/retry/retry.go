// Package retry implements the single-retry policy applied at storage
// transaction boundaries. A transient failure is retried once after a short
// backoff; if it persists the caller receives ErrUnavailable so transports
// can answer with a service-unavailable status instead of leaking driver
// errors.
package retry

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// ErrUnavailable reports that a dependency kept failing after the retry.
var ErrUnavailable = errors.New("dependency temporarily unavailable")

// DefaultBackoff is the pause between the first attempt and the retry.
const DefaultBackoff = 100 * time.Millisecond

// Classifier decides whether an error is worth retrying.
type Classifier func(error) bool

// Do runs fn and, when it fails with a transient error, retries exactly once
// after the backoff. A transient error surviving the retry is wrapped in
// ErrUnavailable; other errors pass through untouched.
func Do(ctx context.Context, backoff time.Duration, transient Classifier, fn func() error) error {
	err := fn()
	if err == nil || !transient(err) {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(backoff):
	}
	if err = fn(); err == nil {
		return nil
	}
	if transient(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

// Transient classifies infrastructure-level failures: network errors, dropped
// connections, and database deadlock or serialization aborts. Domain errors
// never match.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, needle := range []string{
		"deadlock",
		"serialization failure",
		"connection reset",
		"connection refused",
		"broken pipe",
		"bad connection",
	} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
