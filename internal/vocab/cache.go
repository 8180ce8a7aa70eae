package vocab

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// DefaultCacheSize is used when NewCache is given a non-positive size.
const DefaultCacheSize = 64

// Loader discovers the vocabulary of one database, usually by running
// a schema query through an executor.
type Loader func(ctx context.Context) (Vocabulary, error)

// Persister stores discovered vocabularies across process restarts.
type Persister interface {
	LoadVocabulary(ctx context.Context, baseURL string) (Vocabulary, bool, error)
	SaveVocabulary(ctx context.Context, baseURL string, v Vocabulary) error
}

// Cache holds discovered vocabularies keyed by database base URL.
//
// Lookups go memory, then the persister, then the loader. Concurrent
// misses for the same base URL share one load. Cache is safe for
// concurrent use; callers always receive a private copy.
type Cache struct {
	entries   *lru.Cache[string, Vocabulary]
	flight    singleflight.Group
	persister Persister
}

// NewCache creates a cache holding up to size vocabularies.
// persister may be nil.
func NewCache(size int, persister Persister) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, Vocabulary](size)
	if err != nil {
		return nil, fmt.Errorf("create vocabulary cache: %w", err)
	}
	return &Cache{entries: entries, persister: persister}, nil
}

// Get returns the vocabulary for baseURL, loading it at most once across
// concurrent callers.
func (c *Cache) Get(ctx context.Context, baseURL string, load Loader) (Vocabulary, error) {
	if v, ok := c.entries.Get(baseURL); ok {
		slog.Debug("vocabulary cache hit", "base_url", baseURL, "terms", len(v))
		return v.Clone(), nil
	}

	result, err, shared := c.flight.Do(baseURL, func() (any, error) {
		return c.fill(ctx, baseURL, load)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		slog.Debug("vocabulary load shared", "base_url", baseURL)
	}
	return result.(Vocabulary).Clone(), nil
}

func (c *Cache) fill(ctx context.Context, baseURL string, load Loader) (Vocabulary, error) {
	if c.persister != nil {
		v, ok, err := c.persister.LoadVocabulary(ctx, baseURL)
		if err != nil {
			return nil, fmt.Errorf("read persisted vocabulary: %w", err)
		}
		if ok {
			slog.Debug("vocabulary restored", "base_url", baseURL, "terms", len(v))
			c.entries.Add(baseURL, v)
			return v, nil
		}
	}

	v, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load vocabulary for %s: %w", baseURL, err)
	}
	if v == nil {
		v = Vocabulary{}
	}
	slog.Info("vocabulary discovered", "base_url", baseURL, "terms", len(v))

	if c.persister != nil {
		if err := c.persister.SaveVocabulary(ctx, baseURL, v); err != nil {
			return nil, fmt.Errorf("persist vocabulary: %w", err)
		}
	}
	c.entries.Add(baseURL, v)
	return v, nil
}

// Invalidate drops baseURL from memory. Persisted entries are untouched.
func (c *Cache) Invalidate(baseURL string) {
	c.entries.Remove(baseURL)
}

// Len returns the number of vocabularies held in memory.
func (c *Cache) Len() int {
	return c.entries.Len()
}
