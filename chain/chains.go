package chain

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"sync"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/logger"
)

var (
	// ErrChainNotFound is returned when a chain id is not configured.
	ErrChainNotFound = errors.New("chain not found")
	// ErrCodeHashUnsupported is returned when a chain's client cannot resolve code hashes.
	ErrCodeHashUnsupported = errors.New("chain does not support code hashes")
)

var (
	_ QueryClient     = (*Chains)(nil)
	_ CodeHashQuerier = (*Chains)(nil)
)

// Chains is a collection of chains keyed by chain id. It routes queries to the right chain
// client, so a single Chains value can serve every module of a DAO and its remote proxies.
//
// The collection can operate in two modes:
//   - Eager mode: all chains are provided upfront.
//   - Lazy mode: chains are loaded on first access by a ChainLoader.
type Chains struct {
	mu     sync.RWMutex
	chains map[string]Chain

	// lazy loading, nil in eager mode
	loader    ChainLoader
	supported map[string]struct{}
	lggr      logger.Logger
}

// NewChains returns an eager collection. The input slice is copied.
func NewChains(chains ...Chain) *Chains {
	m := make(map[string]Chain, len(chains))
	for _, c := range chains {
		m[c.ID] = c
	}

	return &Chains{chains: m}
}

// NewLazyChains returns a collection that defers loading each supported chain until it is
// first accessed.
func NewLazyChains(supported []string, loader ChainLoader, lggr logger.Logger) *Chains {
	set := make(map[string]struct{}, len(supported))
	for _, id := range supported {
		set[id] = struct{}{}
	}

	return &Chains{
		chains:    make(map[string]Chain),
		loader:    loader,
		supported: set,
		lggr:      lggr,
	}
}

// Get returns the chain with the given id, loading it first in lazy mode.
func (c *Chains) Get(ctx context.Context, chainID string) (Chain, error) {
	// Fast path: already loaded
	c.mu.RLock()
	if ch, ok := c.chains[chainID]; ok {
		c.mu.RUnlock()
		return ch, nil
	}
	c.mu.RUnlock()

	if c.loader == nil {
		return Chain{}, fmt.Errorf("%w: %s", ErrChainNotFound, chainID)
	}
	if _, ok := c.supported[chainID]; !ok {
		return Chain{}, fmt.Errorf("%w: %s", ErrChainNotFound, chainID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if ch, ok := c.chains[chainID]; ok {
		return ch, nil
	}

	ch, err := c.loader.Load(ctx, chainID)
	if err != nil {
		return Chain{}, fmt.Errorf("failed to load chain %s: %w", chainID, err)
	}
	c.chains[chainID] = ch

	return ch, nil
}

// Exists checks if a chain with the given id is available (not necessarily loaded).
func (c *Chains) Exists(chainID string) bool {
	if c.loader != nil {
		_, ok := c.supported[chainID]
		return ok
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.chains[chainID]

	return ok
}

// ExistsN checks if all chains with the given ids are available.
func (c *Chains) ExistsN(chainIDs ...string) bool {
	for _, id := range chainIDs {
		if !c.Exists(id) {
			return false
		}
	}

	return true
}

// ChainIDs returns the sorted ids of every available chain.
func (c *Chains) ChainIDs() []string {
	if c.loader != nil {
		return slices.Sorted(maps.Keys(c.supported))
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Sorted(maps.Keys(c.chains))
}

// All returns an iterator over all chains in chain id order. In lazy mode chains that fail to
// load are logged and skipped.
func (c *Chains) All(ctx context.Context) iter.Seq2[string, Chain] {
	return func(yield func(string, Chain) bool) {
		for _, id := range c.ChainIDs() {
			ch, err := c.Get(ctx, id)
			if err != nil {
				if c.lggr != nil {
					c.lggr.Errorw("Failed to load chain during iteration", "chain_id", id, "error", err)
				}

				continue
			}
			if !yield(id, ch) {
				return
			}
		}
	}
}

// QuerySmart implements QueryClient by routing the query to the chain's client.
func (c *Chains) QuerySmart(ctx context.Context, chainID, address string, msg any, out any) error {
	ch, err := c.Get(ctx, chainID)
	if err != nil {
		return err
	}

	return ch.Client.QuerySmart(ctx, address, msg, out)
}

// ContractCodeHash implements CodeHashQuerier.
func (c *Chains) ContractCodeHash(ctx context.Context, chainID, address string) (string, error) {
	ch, err := c.Get(ctx, chainID)
	if err != nil {
		return "", err
	}
	hc, ok := ch.Client.(CodeHashClient)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrCodeHashUnsupported, ch)
	}

	return hc.ContractCodeHash(ctx, address)
}

// Simulator returns the simulator for a chain.
func (c *Chains) Simulator(ctx context.Context, chainID string) (Simulator, error) {
	ch, err := c.Get(ctx, chainID)
	if err != nil {
		return nil, err
	}

	return ch.Client, nil
}
