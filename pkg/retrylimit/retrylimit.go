// Package retrylimit paces outgoing requests with an adaptive rate limit and
// retries failed ones with backoff. Transports use it for replies so a burst
// of fan-out responses cannot trip the remote API's rate limits.
//
//	lim := retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5)
//	err := retrylimit.Do(ctx, lim, retrylimit.DefaultConfig(), func() error {
//	    return send(reply)
//	})
package retrylimit

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// AdaptiveLimiter raises its rate after successes and cuts it after
// rate-limit or server errors. Safe for concurrent use.
type AdaptiveLimiter struct {
	mu        sync.Mutex
	limiter   *rate.Limiter
	minLimit  rate.Limit
	maxLimit  rate.Limit
	stepUp    rate.Limit
	stepDown  float64
	lastError time.Time
	cooldown  time.Duration
}

// NewAdaptiveLimiter starts at initial requests per second, stays within
// [min, max], adds stepUp on success and multiplies by stepDown on failure.
func NewAdaptiveLimiter(initial, min, max, stepUp rate.Limit, stepDown float64) *AdaptiveLimiter {
	if initial < 1 {
		initial = 1
	}
	if min < 1 {
		min = 1
	}
	if max < initial {
		max = initial
	}
	return &AdaptiveLimiter{
		limiter:  rate.NewLimiter(initial, burstFor(initial)),
		minLimit: min,
		maxLimit: max,
		stepUp:   stepUp,
		stepDown: stepDown,
		cooldown: 10 * time.Second,
	}
}

// Wait blocks until a request may be made.
func (a *AdaptiveLimiter) Wait(ctx context.Context) error {
	return a.limiter.Wait(ctx)
}

// Success raises the rate unless a failure happened within the cooldown.
func (a *AdaptiveLimiter) Success() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if time.Since(a.lastError) > a.cooldown {
		a.setLimit(a.limiter.Limit() + a.stepUp)
	}
}

// Throttled cuts the rate after the remote side pushed back.
func (a *AdaptiveLimiter) Throttled() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lastError = time.Now()
	a.setLimit(rate.Limit(float64(a.limiter.Limit()) * a.stepDown))
}

// Limit returns the current requests per second.
func (a *AdaptiveLimiter) Limit() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return float64(a.limiter.Limit())
}

func (a *AdaptiveLimiter) setLimit(l rate.Limit) {
	l = min(max(l, a.minLimit), a.maxLimit)
	if l != a.limiter.Limit() {
		a.limiter.SetLimit(l)
		a.limiter.SetBurst(burstFor(l))
	}
}

func burstFor(l rate.Limit) int { return max(1, int(l)) }

// StatusError is implemented by errors that carry an HTTP status code.
type StatusError interface {
	error
	StatusCode() int
}

// Permanent marks an error that must not be retried.
type Permanent struct {
	Err error
}

func (p *Permanent) Error() string { return p.Err.Error() }
func (p *Permanent) Unwrap() error { return p.Err }

// Config controls Do.
type Config struct {
	MaxAttempts    int
	InitialDelay   time.Duration
	MaxDelay       time.Duration
	ThrottledDelay time.Duration
	Multiplier     float64
	Jitter         bool
	// StatusOf extracts a status code from transport errors that do not
	// implement StatusError. Zero means unknown.
	StatusOf func(error) int
	Logger   zerolog.Logger
}

// DefaultConfig suits chat replies: a handful of attempts, short delays.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    5,
		InitialDelay:   250 * time.Millisecond,
		MaxDelay:       5 * time.Second,
		ThrottledDelay: time.Second,
		Multiplier:     2,
		Jitter:         true,
		Logger:         zerolog.Nop(),
	}
}

// ErrExhausted wraps the last error once MaxAttempts is reached.
var ErrExhausted = errors.New("retrylimit: attempts exhausted")

// Do calls fn until it succeeds, returns a Permanent error, the context ends
// or the attempts run out. lim may be nil.
func Do(ctx context.Context, lim *AdaptiveLimiter, cfg Config, fn func() error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	delay := cfg.InitialDelay

	var err error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if lim != nil {
			if werr := lim.Wait(ctx); werr != nil {
				return werr
			}
		}

		if err = fn(); err == nil {
			if lim != nil {
				lim.Success()
			}
			if attempt > 1 {
				cfg.Logger.Debug().Int("attempt", attempt).Msg("Succeeded after retry")
			}
			return nil
		}

		var perm *Permanent
		if errors.As(err, &perm) {
			return err
		}

		wait := delay
		switch code := statusOf(err, cfg.StatusOf); {
		case code == http.StatusTooManyRequests:
			if lim != nil {
				lim.Throttled()
			}
			wait = cfg.ThrottledDelay
			cfg.Logger.Warn().Int("attempt", attempt).Msg("Throttled by remote")
		case code >= 500 && code < 600:
			if lim != nil {
				lim.Throttled()
			}
			cfg.Logger.Warn().Err(err).Int("attempt", attempt).Dur("delay", wait).Msg("Server error")
		default:
			cfg.Logger.Warn().Err(err).Int("attempt", attempt).Dur("delay", wait).Msg("Request failed")
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		if cfg.Jitter && wait > 0 {
			wait += rand.N(wait/4 + 1)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		delay = min(time.Duration(float64(delay)*cfg.Multiplier), cfg.MaxDelay)
	}
	return fmt.Errorf("%w after %d attempt(s): %w", ErrExhausted, cfg.MaxAttempts, err)
}

func statusOf(err error, extract func(error) int) int {
	var se StatusError
	if errors.As(err, &se) {
		return se.StatusCode()
	}
	if extract != nil {
		return extract(err)
	}
	return 0
}
