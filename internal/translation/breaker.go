package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerTranslator stops calling a failing provider for a while
type BreakerTranslator struct {
	next Translator
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerTranslator wraps next in a circuit breaker that opens after
// failures consecutive errors and half-opens again after openTimeout
func NewBreakerTranslator(next Translator, failures uint32, openTimeout time.Duration) *BreakerTranslator {
	if failures == 0 {
		failures = 5
	}

	settings := gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// The caller going away says nothing about the provider's health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}

	return &BreakerTranslator{
		next: next,
		cb:   gobreaker.NewCircuitBreaker(settings),
	}
}

// Translate forwards to the wrapped provider unless the breaker is open
func (b *BreakerTranslator) Translate(ctx context.Context, text string) (string, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Translate(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: %s circuit open", ErrUnavailable, b.next.Name())
		}
		return "", err
	}
	return result.(string), nil
}

// Name returns the wrapped provider name
func (b *BreakerTranslator) Name() string {
	return b.next.Name()
}

// State reports the breaker state: closed, half-open or open
func (b *BreakerTranslator) State() string {
	return b.cb.State().String()
}
