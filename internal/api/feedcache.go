package api

import (
	"github.com/blogicum/blogicum/internal/cache"
)

const feedCachePrefix = "feed:"

// cachedFeed serves a public feed page from redis when possible. Profile
// feeds are never cached: their contents depend on the viewer.
func (r *Router) cachedFeed(keyParts []string, load func() (feedResponse, error)) (feedResponse, error) {
	key := feedCachePrefix + cache.HashKey(keyParts...)

	var cached feedResponse
	if err := r.cache.GetJSON(key, &cached); err == nil {
		return cached, nil
	}

	resp, err := load()
	if err != nil {
		return feedResponse{}, err
	}

	if err := r.cache.SetJSON(key, resp, r.cfg.Blog.FeedCacheTTL); err != nil && err != cache.ErrCacheDisabled {
		r.logger.Debug("feed cache write failed")
	}
	return resp, nil
}

// invalidateFeeds drops every cached feed page; called after any mutation
// that can change public feed contents.
func (r *Router) invalidateFeeds() {
	if err := r.cache.DeletePrefix(feedCachePrefix); err != nil && err != cache.ErrCacheDisabled {
		r.logger.Debug("feed cache invalidation failed")
	}
}
