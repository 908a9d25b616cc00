package translation

import (
	"context"
	"strings"
	"sync"
)

// Lookup finds a previously stored translation. A miss returns an error.
type Lookup interface {
	LookupTranslation(ctx context.Context, english string) (string, error)
}

// TranslationCache stores translations in memory
type TranslationCache struct {
	mu           sync.RWMutex
	translations map[string]string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[string]string),
	}
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(text, translation string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.translations[text] = translation
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(text string) (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	translation, ok := tc.translations[text]
	return translation, ok
}

// GetAll returns all cached translations
func (tc *TranslationCache) GetAll() map[string]string {
	tc.mu.RLock()
	defer tc.mu.RUnlock()

	// Return a copy to prevent external modification
	result := make(map[string]string, len(tc.translations))
	for k, v := range tc.translations {
		result[k] = v
	}
	return result
}

// Len returns the number of cached translations
func (tc *TranslationCache) Len() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.translations)
}

// CachedTranslator answers from memory, then from lookup, then from next
type CachedTranslator struct {
	next   Translator
	cache  *TranslationCache
	lookup Lookup
}

// NewCachedTranslator creates a caching translator. lookup may be nil.
func NewCachedTranslator(next Translator, cache *TranslationCache, lookup Lookup) *CachedTranslator {
	if cache == nil {
		cache = NewTranslationCache()
	}
	return &CachedTranslator{next: next, cache: cache, lookup: lookup}
}

// Translate returns a cached translation or asks the wrapped translator
func (c *CachedTranslator) Translate(ctx context.Context, text string) (string, error) {
	key := strings.TrimSpace(text)

	if translation, ok := c.cache.Get(key); ok {
		return translation, nil
	}

	if c.lookup != nil {
		if translation, err := c.lookup.LookupTranslation(ctx, key); err == nil && translation != "" {
			c.cache.Add(key, translation)
			return translation, nil
		}
	}

	translation, err := c.next.Translate(ctx, key)
	if err != nil {
		return "", err
	}

	// An empty or echoed result is a failed translation; the next request
	// must reach the provider again
	if translation != "" && translation != key {
		c.cache.Add(key, translation)
	}
	return translation, nil
}

// Name returns the wrapped provider name
func (c *CachedTranslator) Name() string {
	return c.next.Name()
}

// Cache exposes the in-memory cache
func (c *CachedTranslator) Cache() *TranslationCache {
	return c.cache
}
