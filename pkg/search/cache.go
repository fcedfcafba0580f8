package search

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// CachedWebSearcher memoizes successful searches so repeated runs on the same idea
// do not spend API quota twice.
type CachedWebSearcher struct {
	inner WebSearcher
	cache *cache.Cache
}

var _ WebSearcher = &CachedWebSearcher{}

func NewCachedWebSearcher(inner WebSearcher, ttl time.Duration) *CachedWebSearcher {
	return &CachedWebSearcher{
		inner: inner,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *CachedWebSearcher) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	key := fmt.Sprintf("%d|%s", numResults, query)
	if x, found := c.cache.Get(key); found {
		return x.([]Result), nil
	}

	results, err := c.inner.Search(ctx, query, numResults)
	if err != nil {
		return nil, err
	}
	c.cache.Set(key, results, cache.DefaultExpiration)
	return results, nil
}
