// Package retry holds the backoff policy used for transient upstream
// failures.
package retry

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// BackoffMode selects how delays grow between attempts.
type BackoffMode string

const (
	BackoffFixed       BackoffMode = "fixed"
	BackoffLinear      BackoffMode = "linear"
	BackoffExponential BackoffMode = "exponential"
)

// NormalizeBackoffMode case-folds raw and returns "" when it is not a known
// mode.
func NormalizeBackoffMode(raw string) BackoffMode {
	switch m := BackoffMode(strings.ToLower(strings.TrimSpace(raw))); m {
	case BackoffFixed, BackoffLinear, BackoffExponential:
		return m
	default:
		return ""
	}
}

// Policy encapsulates retry/backoff settings for transient failures.
// It is immutable after construction.
type Policy struct {
	Mode       BackoffMode   // fixed|linear|exponential
	Initial    time.Duration // base delay
	Max        time.Duration // cap for growth
	MaxRetries int           // maximum retry attempts after the first failure
}

// DefaultPolicy never retries; it is what a client gets unless configured
// otherwise.
func DefaultPolicy() Policy {
	return Policy{Mode: BackoffLinear, Initial: 200 * time.Millisecond, Max: 2 * time.Second, MaxRetries: 0}
}

// Delay returns the backoff delay for the given retry attempt number (1-based: first retry => 1).
func (p Policy) Delay(retryCount int) time.Duration {
	if retryCount <= 0 {
		return 0
	}
	switch p.Mode {
	case BackoffFixed:
		return p.Initial
	case BackoffExponential:
		d := p.Initial * (1 << (retryCount - 1))
		if d > p.Max || d <= 0 {
			return p.Max
		}
		return d
	default: // linear
		d := time.Duration(retryCount) * p.Initial
		if d > p.Max {
			return p.Max
		}
		return d
	}
}

// Validate ensures invariants; returns error if policy impossible to apply.
func (p Policy) Validate() error {
	if p.Initial <= 0 {
		return fmt.Errorf("initial must be >0")
	}
	if p.Max <= 0 {
		return fmt.Errorf("max must be >0")
	}
	if p.Initial > p.Max {
		return fmt.Errorf("initial %s exceeds max %s", p.Initial, p.Max)
	}
	if p.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if NormalizeBackoffMode(string(p.Mode)) != p.Mode || p.Mode == "" {
		return fmt.Errorf("unknown backoff mode %q", p.Mode)
	}
	return nil
}

// Do runs fn until it succeeds, returns an error retryable rejects, or the
// policy runs out of retries. Waiting between attempts honours ctx. attempt
// is 0 for the first call.
func (p Policy) Do(ctx context.Context, retryable func(error) bool, fn func(attempt int) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn(attempt)
		if err == nil || attempt >= p.MaxRetries || (retryable != nil && !retryable(err)) {
			return err
		}

		timer := time.NewTimer(p.Delay(attempt + 1))
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}
