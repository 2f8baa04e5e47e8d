// Package retries wraps cenkalti/backoff for the readiness probes. The
// upload pipeline itself stays retry-free; callers wanting resilience add
// it outside the core.
package retries

import (
	"context"
	"errors"
	"time"

	"github.com/aws/smithy-go"
	"github.com/cenkalti/backoff/v5"
)

const (
	HealthAttempts  = 3
	HealthBaseDelay = 100 * time.Millisecond
)

// Retry runs fn up to attempts times with exponential backoff starting at
// baseDelay. A non-retriable error stops the loop immediately.
func Retry(
	ctx context.Context,
	attempts uint,
	baseDelay time.Duration,
	fn func() error,
	retriable func(error) bool,
) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = baseDelay

	_, err := backoff.Retry(
		ctx,
		func() (struct{}, error) {
			if err := fn(); err != nil {
				if retriable != nil && !retriable(err) {
					return struct{}{}, backoff.Permanent(err)
				}
				return struct{}{}, err
			}
			return struct{}{}, nil
		},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(attempts),
	)
	return err
}

// IsRetriableStoreError reports whether a store call is worth retrying.
// Client-side faults (4xx) are permanent, everything else is assumed
// transient.
func IsRetriableStoreError(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorFault() {
		case smithy.FaultClient:
			return false
		default:
			return true
		}
	}

	return true
}
