package cosmos

import (
	"context"
	"fmt"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain/network"
)

var _ chain.Provider = (*Provider)(nil)

// Provider initializes a REST client for a configured network.
type Provider struct {
	network network.Network
	opts    []ClientOpt
	chain   chain.Chain
}

// NewProvider returns a provider for n.
func NewProvider(n network.Network, opts ...ClientOpt) *Provider {
	return &Provider{network: n, opts: opts}
}

// Initialize validates the network and builds the chain client.
func (p *Provider) Initialize(_ context.Context) (chain.Chain, error) {
	if err := p.network.Validate(); err != nil {
		return chain.Chain{}, fmt.Errorf("invalid network %s: %w", p.network.ChainID, err)
	}

	p.chain = chain.Chain{
		ID:           p.network.ChainID,
		Family:       p.network.Family,
		Bech32Prefix: p.network.Bech32Prefix,
		NativeDenom:  p.network.NativeDenom,
		Client:       NewClient(p.network.ChainID, p.network.PreferredEndpoint(), p.opts...),
	}

	return p.chain, nil
}

// ChainID returns the chain id of the network.
func (p *Provider) ChainID() string {
	return p.network.ChainID
}

// Chain returns the chain built by Initialize.
func (p *Provider) Chain() chain.Chain {
	return p.chain
}

// Loader returns a chain.ChainLoader that builds providers from cfg on demand.
func Loader(cfg *network.Config, opts ...ClientOpt) chain.ChainLoader {
	return chain.ChainLoaderFunc(func(ctx context.Context, chainID string) (chain.Chain, error) {
		n, err := cfg.NetworkByChainID(chainID)
		if err != nil {
			return chain.Chain{}, err
		}

		return NewProvider(n, opts...).Initialize(ctx)
	})
}
