package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
)

// Client fetches the exercise catalog from the remote API, caching results
// and falling back to stale data when the API is unreachable.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *Cache
	logger     *slog.Logger

	mu     sync.Mutex
	apiKey string
}

// NewClient creates a catalog client. The cache must not be nil; callers own
// it so tests can inject a cache with a fake clock.
func NewClient(baseURL, apiKey string, httpClient *http.Client, cache *Cache, logger *slog.Logger) (*Client, error) {
	if cache == nil {
		return nil, fmt.Errorf("catalog client requires a cache")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
		cache:      cache,
		logger:     logger,
	}, nil
}

// SetAPIKey replaces the API key and clears the cache so the next fetch
// uses the new credentials.
func (c *Client) SetAPIKey(apiKey string) {
	c.mu.Lock()
	c.apiKey = apiKey
	c.mu.Unlock()
	c.cache.Clear()
}

// CacheStatus reports the state of the underlying cache.
func (c *Client) CacheStatus() CacheStatus {
	return c.cache.Status()
}

// FetchAll returns the full exercise catalog.
//
// A fresh cache entry is returned without a network call. On fetch failure
// any cached entry, even an expired one, is returned instead. With nothing
// cached it returns an empty slice so callers can always render a list.
func (c *Client) FetchAll(ctx context.Context) ([]Exercise, error) {
	if exercises, ok := c.cache.Get(); ok {
		return exercises, nil
	}

	exercises, err := c.fetch(ctx)
	if err != nil {
		if stale, ok := c.cache.GetStale(); ok {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "catalog fetch failed, serving stale cache",
				slog.String("error", err.Error()),
				slog.Int("count", len(stale)))
			return stale, nil
		}
		c.logger.LogAttrs(ctx, slog.LevelWarn, "catalog fetch failed with empty cache",
			slog.String("error", err.Error()))
		return []Exercise{}, nil
	}

	c.cache.Set(exercises)
	return exercises, nil
}

func (c *Client) fetch(ctx context.Context) ([]Exercise, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/exercises", nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	c.mu.Lock()
	apiKey := c.apiKey
	c.mu.Unlock()
	if apiKey != "" {
		req.Header.Set("X-Api-Key", apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("catalog API returned status %d", resp.StatusCode)
	}

	var exercises []Exercise
	if err := json.NewDecoder(resp.Body).Decode(&exercises); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	return exercises, nil
}
