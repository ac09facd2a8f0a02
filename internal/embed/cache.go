package embed

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is used by NewCached when size <= 0.
const DefaultCacheSize = 1024

// Cached memoizes an Embedder by input text. Vectors are copied on the way in
// and out so callers can never mutate a cached entry.
type Cached struct {
	next  Embedder
	cache *lru.Cache[string, []float32]
}

// NewCached wraps next with an LRU cache holding up to size vectors.
func NewCached(next Embedder, size int) (*Cached, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, []float32](size)
	if err != nil {
		return nil, err
	}
	return &Cached{next: next, cache: c}, nil
}

func (c *Cached) Dim() int { return c.next.Dim() }

func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		return clone(v), nil
	}
	v, err := c.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Add(text, clone(v))
	return v, nil
}

// Len reports the number of cached vectors.
func (c *Cached) Len() int { return c.cache.Len() }

// Purge drops every cached vector.
func (c *Cached) Purge() { c.cache.Purge() }

func clone(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
