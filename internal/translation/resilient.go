package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// RetryConfig bounds the retries of a Resilient translator
type RetryConfig struct {
	Attempts       int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Consecutive failed calls that open the breaker, and how long it stays open
	BreakerThreshold uint32
	BreakerTimeout   time.Duration

	Logger *slog.Logger
}

// DefaultRetryConfig returns default retry settings
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Attempts:         3,
		InitialBackoff:   500 * time.Millisecond,
		MaxBackoff:       8 * time.Second,
		BreakerThreshold: 5,
		BreakerTimeout:   30 * time.Second,
	}
}

// Resilient retries transient failures of the wrapped translator with
// exponential backoff. Calls that keep failing open a circuit breaker so a
// dead backend fails fast instead of stalling every remaining bubble.
type Resilient struct {
	next    Translator
	config  RetryConfig
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger

	// sleep waits for d or until ctx is done; replaced in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewResilient wraps next with retries and a circuit breaker
func NewResilient(next Translator, config RetryConfig) *Resilient {
	if config.Attempts < 1 {
		config.Attempts = 1
	}
	if config.BreakerThreshold == 0 {
		config.BreakerThreshold = 5
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := &Resilient{
		next:   next,
		config: config,
		logger: logger,
		sleep:  sleepContext,
	}
	r.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    next.Name(),
		Timeout: config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.BreakerThreshold
		},
		IsSuccessful: func(err error) bool {
			// Rejected and cancelled requests say nothing about the backend's health
			return err == nil || errors.Is(err, context.Canceled) || !IsRetryable(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("translation.breaker", "provider", name, "from", from.String(), "to", to.String())
		},
	})
	return r
}

// Translate translates text, retrying transient failures
func (r *Resilient) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.translateWithRetry(ctx, text, sourceLang, targetLang)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (r *Resilient) translateWithRetry(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	backoff := r.config.InitialBackoff
	var lastErr error

	for attempt := 1; attempt <= r.config.Attempts; attempt++ {
		translation, err := r.next.Translate(ctx, text, sourceLang, targetLang)
		if err == nil {
			return translation, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if !IsRetryable(err) || attempt == r.config.Attempts {
			break
		}

		r.logger.Warn("translation.retry", "provider", r.next.Name(), "attempt", attempt,
			"backoff_ms", backoff.Milliseconds(), "error", err)

		if err := r.sleep(ctx, backoff); err != nil {
			return "", err
		}
		backoff *= 2
		if r.config.MaxBackoff > 0 && backoff > r.config.MaxBackoff {
			backoff = r.config.MaxBackoff
		}
	}

	return "", fmt.Errorf("translation failed: %w", lastErr)
}

// Name returns the wrapped provider name
func (r *Resilient) Name() string {
	return r.next.Name()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
