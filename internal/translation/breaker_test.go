package translation

import (
	"context"
	"errors"
	"testing"
	"time"

	"codeberg.org/snonux/kannadify/internal/testutil"
)

func TestBreakerTranslator_OpensAfterFailures(t *testing.T) {
	upstream := &testutil.MockTranslator{
		Errors: map[string]error{"Hello": errors.New("upstream down")},
	}
	breaker := NewBreakerTranslator(upstream, 2, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := breaker.Translate(context.Background(), "Hello"); err == nil {
			t.Fatalf("call %d: expected upstream error", i)
		}
	}

	if breaker.State() != "open" {
		t.Fatalf("Expected open breaker, got %s", breaker.State())
	}

	_, err := breaker.Translate(context.Background(), "Hello")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable from open breaker, got %v", err)
	}
	if len(upstream.Calls) != 2 {
		t.Errorf("Open breaker must not call upstream, calls=%d", len(upstream.Calls))
	}
}

func TestBreakerTranslator_PassesThrough(t *testing.T) {
	upstream := &testutil.MockTranslator{
		Translations: map[string]string{"Hello": "ಹಲೋ"},
	}
	breaker := NewBreakerTranslator(upstream, 0, time.Minute)

	got, err := breaker.Translate(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != "ಹಲೋ" {
		t.Errorf("Expected 'ಹಲೋ', got %q", got)
	}
	if breaker.Name() != "mock" {
		t.Errorf("Expected wrapped name, got %q", breaker.Name())
	}
	if breaker.State() != "closed" {
		t.Errorf("Expected closed breaker, got %s", breaker.State())
	}
}

func TestBreakerTranslator_CancelDoesNotTrip(t *testing.T) {
	upstream := &testutil.MockTranslator{
		Errors: map[string]error{"Hello": context.Canceled},
	}
	breaker := NewBreakerTranslator(upstream, 1, time.Minute)

	for i := 0; i < 3; i++ {
		breaker.Translate(context.Background(), "Hello")
	}

	if breaker.State() != "closed" {
		t.Errorf("Cancellations must not open the breaker, state=%s", breaker.State())
	}
}
