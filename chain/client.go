package chain

import "context"

// QueryClient runs smart queries against contracts on any configured chain.
type QueryClient interface {
	QuerySmart(ctx context.Context, chainID, address string, msg any, out any) error
}

// CodeHashQuerier resolves contract code hashes on chains that need them.
type CodeHashQuerier interface {
	ContractCodeHash(ctx context.Context, chainID, address string) (string, error)
}

// Simulator simulates a batch of messages on one chain, sent by sender. A nil error means the
// chain accepted the batch.
type Simulator interface {
	Simulate(ctx context.Context, sender string, msgs []CosmosMsg) error
}

// SimulatorFunc adapts a function to the Simulator interface.
type SimulatorFunc func(ctx context.Context, sender string, msgs []CosmosMsg) error

// Simulate implements Simulator.
func (f SimulatorFunc) Simulate(ctx context.Context, sender string, msgs []CosmosMsg) error {
	return f(ctx, sender, msgs)
}
