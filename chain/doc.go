/*
Package chain defines the boundary between the governance client and the chains it talks to.

# Overview

Reads go through smart queries keyed by (chain id, contract address, query message). Writes go
through a Signer, which executes a contract and returns the transaction events; proposal
numbers and other results are extracted from those events by (contract address, attribute key).
Simulation runs a batch of CosmosMsg values against one chain on behalf of a sender.

# Chains Collection

Chains routes calls by chain id so a single value can serve a DAO and its cross-chain proxies:

	chains := chain.NewChains(
		chain.Chain{ID: "juno-1", Family: chain.FamilyCosmWasm, Client: junoClient},
		chain.Chain{ID: "osmosis-1", Family: chain.FamilyCosmWasm, Client: osmoClient},
	)

	var out struct{ Info struct{ Contract, Version string } }
	err := chains.QuerySmart(ctx, "juno-1", daoAddress, map[string]any{"info": struct{}{}}, &out)

Chains can also be created lazily with NewLazyChains, in which case each chain's client is
built by a ChainLoader on first access.

# Signers

Mutations take a SignerProvider rather than a Signer so the wallet is only asked for a signer
when a transaction is about to be issued:

	res, err := module.Vote(ctx, req, chain.StaticSigner(wallet))
*/
package chain
