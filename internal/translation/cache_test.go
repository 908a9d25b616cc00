package translation

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"codeberg.org/snonux/kannadify/internal/testutil"
)

func TestTranslationCache(t *testing.T) {
	cache := NewTranslationCache()

	// Test empty cache
	_, found := cache.Get("Hello")
	if found {
		t.Error("Expected not found in empty cache")
	}

	// Test adding and retrieving
	cache.Add("Hello", "ಹಲೋ")
	cache.Add("Water", "ನೀರು")

	translation, found := cache.Get("Hello")
	if !found {
		t.Error("Expected to find 'Hello' in cache")
	}
	if translation != "ಹಲೋ" {
		t.Errorf("Expected 'ಹಲೋ', got '%s'", translation)
	}

	// Test overwriting
	cache.Add("Hello", "ನಮಸ್ಕಾರ")
	translation, found = cache.Get("Hello")
	if !found || translation != "ನಮಸ್ಕಾರ" {
		t.Errorf("Expected 'ನಮಸ್ಕಾರ', got '%s'", translation)
	}

	if cache.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", cache.Len())
	}
}

func TestTranslationCache_GetAll(t *testing.T) {
	cache := NewTranslationCache()
	cache.Add("Hello", "ಹಲೋ")
	cache.Add("Water", "ನೀರು")

	all := cache.GetAll()

	expected := map[string]string{
		"Hello": "ಹಲೋ",
		"Water": "ನೀರು",
	}
	if !reflect.DeepEqual(all, expected) {
		t.Errorf("GetAll() = %v, want %v", all, expected)
	}

	// Test that modifying returned map doesn't affect cache
	all["Hello"] = "modified"

	translation, _ := cache.Get("Hello")
	if translation != "ಹಲೋ" {
		t.Error("Cache was modified through returned map")
	}
}

type mapLookup map[string]string

func (m mapLookup) LookupTranslation(ctx context.Context, english string) (string, error) {
	if v, ok := m[english]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func TestCachedTranslator(t *testing.T) {
	upstream := &testutil.MockTranslator{
		Translations: map[string]string{"Hello": "ಹಲೋ"},
	}
	cached := NewCachedTranslator(upstream, nil, mapLookup{"Water": "ನೀರು"})
	ctx := context.Background()

	// Miss goes upstream once, then comes from memory
	for i := 0; i < 2; i++ {
		got, err := cached.Translate(ctx, " Hello ")
		if err != nil || got != "ಹಲೋ" {
			t.Fatalf("Translate = %q, %v", got, err)
		}
	}
	if len(upstream.Calls) != 1 {
		t.Errorf("Expected a single upstream call, got %d", len(upstream.Calls))
	}

	// Persistent lookup is consulted before upstream
	got, err := cached.Translate(ctx, "Water")
	if err != nil || got != "ನೀರು" {
		t.Fatalf("Translate = %q, %v", got, err)
	}
	if len(upstream.Calls) != 1 {
		t.Errorf("Lookup hit must not call upstream, calls=%v", upstream.Calls)
	}
	if _, ok := cached.Cache().Get("Water"); !ok {
		t.Error("Lookup hit should be cached in memory")
	}
}

func TestCachedTranslator_ErrorNotCached(t *testing.T) {
	upstream := &testutil.MockTranslator{
		Errors: map[string]error{"Hello": ErrUnavailable},
	}
	cached := NewCachedTranslator(upstream, nil, nil)

	if _, err := cached.Translate(context.Background(), "Hello"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Expected ErrUnavailable, got %v", err)
	}
	if cached.Cache().Len() != 0 {
		t.Error("Failures must not be cached")
	}
}

// echoFirst echoes the input on its first call and translates afterwards
type echoFirst struct {
	calls int
}

func (e *echoFirst) Translate(ctx context.Context, text string) (string, error) {
	e.calls++
	if e.calls == 1 {
		return text, nil
	}
	return "ಹಲೋ", nil
}

func (e *echoFirst) Name() string { return "echo-first" }

func TestCachedTranslator_EchoNotCached(t *testing.T) {
	upstream := &echoFirst{}
	cached := NewCachedTranslator(upstream, nil, nil)
	ctx := context.Background()

	got, err := cached.Translate(ctx, "Hello")
	if err != nil || got != "Hello" {
		t.Fatalf("first Translate() = %q, %v; want the echo", got, err)
	}
	if _, ok := cached.Cache().Get("Hello"); ok {
		t.Error("An echoed result must not be cached")
	}

	got, err = cached.Translate(ctx, "Hello")
	if err != nil || got != "ಹಲೋ" {
		t.Fatalf("retry Translate() = %q, %v; want ಹಲೋ", got, err)
	}
	if upstream.calls != 2 {
		t.Errorf("upstream calls = %d, want 2", upstream.calls)
	}
	if v, ok := cached.Cache().Get("Hello"); !ok || v != "ಹಲೋ" {
		t.Error("A real translation should be cached")
	}
}

func TestCachedTranslator_EmptyNotCached(t *testing.T) {
	upstream := &testutil.MockTranslator{Translations: map[string]string{"Hello": ""}}
	cached := NewCachedTranslator(upstream, nil, nil)

	cached.Translate(context.Background(), "Hello")
	cached.Translate(context.Background(), "Hello")

	if cached.Cache().Len() != 0 {
		t.Error("An empty result must not be cached")
	}
	if upstream.CallCount() != 2 {
		t.Errorf("upstream calls = %d, want 2", upstream.CallCount())
	}
}
