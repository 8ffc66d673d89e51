package chain

import "context"

// Provider is an interface for chain providers that can initialize a chain client.
type Provider interface {
	Initialize(ctx context.Context) (Chain, error)
	ChainID() string
	Chain() Chain
}

// ChainLoader is an interface for loading a chain lazily.
// It's used by the lazy loading mechanism in Chains to load chains on-demand.
type ChainLoader interface {
	Load(ctx context.Context, chainID string) (Chain, error)
}

// ChainLoaderFunc adapts a function to the ChainLoader interface.
type ChainLoaderFunc func(ctx context.Context, chainID string) (Chain, error)

// Load implements ChainLoader.
func (f ChainLoaderFunc) Load(ctx context.Context, chainID string) (Chain, error) {
	return f(ctx, chainID)
}
