package providers

import (
	"context"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
)

// Retryer wraps a single provider call with bounded retries. Transient
// failures are retried with a linearly growing delay; terminal failures
// pass through immediately.
type Retryer struct {
	MaxRetries  int
	BaseBackoff time.Duration
}

// linearBackOff waits base*1 before the first retry, base*2 before the
// second, and so on.
type linearBackOff struct {
	base    time.Duration
	attempt int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.attempt++
	return b.base * time.Duration(b.attempt)
}

func (b *linearBackOff) Reset() { b.attempt = 0 }

// LinearBackOff returns the retry delay policy used by Retryer.
func LinearBackOff(base time.Duration) backoff.BackOff {
	return &linearBackOff{base: base}
}

// Call invokes the client, retrying transient failures up to MaxRetries
// times. Terminal errors are returned unchanged after a single attempt;
// transient errors surface as *RetryExhaustedError once the budget is
// spent.
func (r Retryer) Call(ctx context.Context, client Client, req GenerateRequest) (string, error) {
	var out string
	attempts := 0

	op := func() error {
		attempts++
		text, err := client.Generate(ctx, req)
		if err != nil {
			if IsTerminal(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		out = text
		return nil
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(LinearBackOff(r.BaseBackoff), uint64(r.MaxRetries)),
		ctx,
	)
	if err := backoff.Retry(op, bo); err != nil {
		if IsTerminal(err) {
			return "", err
		}
		return "", &RetryExhaustedError{Provider: client.Name(), Attempts: attempts, Last: err}
	}
	return out, nil
}
