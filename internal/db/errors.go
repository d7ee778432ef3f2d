package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/jborjas31/my-scheduler/internal/task"
)

// Storage failures surfaced to the user.
var (
	ErrPermissionDenied = errors.New("access denied, check your connection and credentials and try again")
	ErrQuotaExceeded    = errors.New("storage quota exceeded, delete some old tasks")
	ErrUnavailable      = errors.New("service temporarily unavailable, try again later")
)

// translate maps a remote status error onto the package's sentinel errors.
// op names the failed operation for wrapping.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%s: %w", op, task.ErrTaskNotFound)
	case codes.PermissionDenied, codes.Unauthenticated:
		return fmt.Errorf("%s: %w: %v", op, ErrPermissionDenied, err)
	case codes.ResourceExhausted:
		return fmt.Errorf("%s: %w: %v", op, ErrQuotaExceeded, err)
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// retryable reports whether a read may succeed if attempted again.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	switch status.Code(err) {
	case codes.NotFound, codes.PermissionDenied, codes.Unauthenticated,
		codes.InvalidArgument, codes.FailedPrecondition, codes.ResourceExhausted:
		return false
	}
	return true
}

// RetryPolicy bounds how reads are retried.
type RetryPolicy struct {
	MaxRetries int
	Interval   time.Duration // first wait, doubled on each retry
}

// DefaultRetryPolicy retries a failed read twice, starting at 500ms.
var DefaultRetryPolicy = RetryPolicy{MaxRetries: 2, Interval: 500 * time.Millisecond}

// do runs op until it succeeds, fails permanently or runs out of retries.
func (p RetryPolicy) do(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Interval
	b.Multiplier = 2
	b.RandomizationFactor = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(p.MaxRetries)), ctx)
	return backoff.Retry(func() error {
		err := op()
		if err != nil && !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}
