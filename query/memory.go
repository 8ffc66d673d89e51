package query

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/internal/metrics"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/logger"
)

// MemoryClient is a request-scoped, in-memory implementation of Client. Errors are never
// cached. Concurrent fetches of one key share a single in-flight call.
type MemoryClient struct {
	id      string
	mu      sync.Mutex
	entries map[string]any
	// fetchers remembers the last fetch function per key so Refresh can refetch it.
	fetchers map[string]FetchFunc
	inflight map[string]*call

	metrics *metrics.Metrics
	lggr    logger.Logger
}

// MemoryClient implements Client interface.
var _ Client = &MemoryClient{}

type call struct {
	done chan struct{}
	val  any
	err  error
}

// MemoryOption configures a MemoryClient.
type MemoryOption func(*MemoryClient)

// WithMetrics records cache hits and misses.
func WithMetrics(m *metrics.Metrics) MemoryOption {
	return func(c *MemoryClient) {
		c.metrics = m
	}
}

// WithLogger sets the cache logger.
func WithLogger(lggr logger.Logger) MemoryOption {
	return func(c *MemoryClient) {
		c.lggr = lggr
	}
}

// NewMemoryClient creates an empty cache with a fresh scope id.
func NewMemoryClient(opts ...MemoryOption) *MemoryClient {
	c := &MemoryClient{
		id:       uuid.NewString(),
		entries:  make(map[string]any),
		fetchers: make(map[string]FetchFunc),
		inflight: make(map[string]*call),
		lggr:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.lggr = c.lggr.With("scope", c.id)

	return c
}

// ID returns the scope id of this cache.
func (c *MemoryClient) ID() string {
	return c.id
}

// Len returns the number of cached entries.
func (c *MemoryClient) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Cached implements Client.
func (c *MemoryClient) Cached(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries[key.String()]

	return v, ok
}

// Set implements Client.
func (c *MemoryClient) Set(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key.String()] = value
}

// Invalidate implements Client. A fetch in flight for key is detached and its result discarded.
func (c *MemoryClient) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := key.String()
	delete(c.entries, k)
	delete(c.inflight, k)
}

// Fetch implements Client.
func (c *MemoryClient) Fetch(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	k := key.String()

	c.mu.Lock()
	if v, ok := c.entries[k]; ok {
		c.mu.Unlock()
		c.metrics.CacheHit()

		return v, nil
	}
	c.fetchers[k] = fetch
	if inflight, ok := c.inflight[k]; ok {
		c.mu.Unlock()

		v, err := wait(ctx, inflight)
		// The shared fetch was canceled by its own caller, not by this one.
		if errors.Is(err, context.Canceled) && ctx.Err() == nil {
			return c.Fetch(ctx, key, fetch)
		}

		return v, err
	}
	cl := &call{done: make(chan struct{})}
	c.inflight[k] = cl
	c.mu.Unlock()

	c.metrics.CacheMiss()
	cl.val, cl.err = fetch(ctx)

	c.mu.Lock()
	if c.inflight[k] == cl {
		delete(c.inflight, k)
		if cl.err == nil {
			c.entries[k] = cl.val
		}
	}
	c.mu.Unlock()
	close(cl.done)

	if cl.err != nil {
		c.metrics.QueryFailure(key.Name)
		c.lggr.Debugw("Query failed", "key", k, "error", cl.err)
	}

	return cl.val, cl.err
}

func wait(ctx context.Context, cl *call) (any, error) {
	select {
	case <-cl.done:
		return cl.val, cl.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Refresh implements Client. Keys are refetched in the given order; a key that was never
// fetched is only invalidated. Every key is attempted and the errors are joined.
func (c *MemoryClient) Refresh(ctx context.Context, keys ...Key) error {
	var errs []error
	for _, key := range keys {
		c.mu.Lock()
		fetch, ok := c.fetchers[key.String()]
		c.mu.Unlock()

		c.Invalidate(key)
		if !ok {
			continue
		}
		if _, err := c.Fetch(ctx, key, fetch); err != nil {
			errs = append(errs, fmt.Errorf("refresh %s: %w", key.Name, err))
		}
	}

	return errors.Join(errs...)
}
