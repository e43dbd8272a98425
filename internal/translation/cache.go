package translation

import (
	"context"
	"strings"
	"sync"
)

type cacheKey struct {
	source, target, text string
}

// TranslationCache stores translations in memory for the length of a run
type TranslationCache struct {
	mu           sync.RWMutex
	translations map[cacheKey]string
}

// NewTranslationCache creates a new translation cache
func NewTranslationCache() *TranslationCache {
	return &TranslationCache{
		translations: make(map[cacheKey]string),
	}
}

// Add adds a translation to the cache
func (tc *TranslationCache) Add(sourceLang, targetLang, text, translation string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.translations[key(sourceLang, targetLang, text)] = translation
}

// Get retrieves a translation from the cache
func (tc *TranslationCache) Get(sourceLang, targetLang, text string) (string, bool) {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	translation, ok := tc.translations[key(sourceLang, targetLang, text)]
	return translation, ok
}

// Len returns the number of cached translations
func (tc *TranslationCache) Len() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.translations)
}

func key(sourceLang, targetLang, text string) cacheKey {
	return cacheKey{
		source: strings.ToUpper(sourceLang),
		target: strings.ToUpper(targetLang),
		text:   text,
	}
}

// Cached answers repeated texts from a TranslationCache. Short bubbles
// such as "…" or "!?" recur on most pages.
type Cached struct {
	next  Translator
	cache *TranslationCache
}

// NewCached wraps next with an empty cache
func NewCached(next Translator) *Cached {
	return &Cached{next: next, cache: NewTranslationCache()}
}

// Translate returns the cached translation or asks the wrapped translator.
// Failures are not cached.
func (c *Cached) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	if translation, ok := c.cache.Get(sourceLang, targetLang, text); ok {
		return translation, nil
	}

	translation, err := c.next.Translate(ctx, text, sourceLang, targetLang)
	if err != nil {
		return "", err
	}
	c.cache.Add(sourceLang, targetLang, text, translation)
	return translation, nil
}

// Name returns the wrapped provider name
func (c *Cached) Name() string {
	return c.next.Name()
}
