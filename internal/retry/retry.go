// Package retry wraps retry-go for read-only chain and indexer calls. Transactions are never
// routed through this package.
package retry

import (
	"context"
	"time"

	"github.com/avast/retry-go/v4"
)

// Config controls how read calls are retried.
type Config struct {
	// Attempts is the total number of attempts, including the first. Zero means one attempt.
	Attempts uint
	// Delay is the base delay between attempts; it grows exponentially.
	Delay time.Duration
	// AttemptTimeout bounds a single attempt. Zero means no per-attempt timeout.
	AttemptTimeout time.Duration
}

// DefaultConfig is used when a client is not configured explicitly.
var DefaultConfig = Config{
	Attempts:       3,
	Delay:          200 * time.Millisecond,
	AttemptTimeout: 30 * time.Second,
}

func (c Config) options(ctx context.Context) []retry.Option {
	attempts := c.Attempts
	if attempts == 0 {
		attempts = 1
	}

	return []retry.Option{
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(c.Delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	}
}

// Do runs callback until it succeeds, returns an unrecoverable error, or attempts run out.
func Do[T any](ctx context.Context, cfg Config, callback func(ctx context.Context) (T, error), opts ...retry.Option) (T, error) {
	var out T

	err := retry.Do(func() error {
		actx := ctx
		if cfg.AttemptTimeout > 0 {
			var cancel context.CancelFunc
			actx, cancel = context.WithTimeout(ctx, cfg.AttemptTimeout)
			defer cancel()
		}

		v, err := callback(actx)
		if err != nil {
			return err
		}
		out = v

		return nil
	}, append(cfg.options(ctx), opts...)...)

	return out, err
}

// Unrecoverable marks err so that Do stops retrying immediately.
func Unrecoverable(err error) error {
	return retry.Unrecoverable(err)
}
