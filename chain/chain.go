package chain

import (
	"context"
	"fmt"
)

// Family is the smart contract platform a chain runs.
type Family string

const (
	// FamilyCosmWasm is a chain running the wasm module.
	FamilyCosmWasm Family = "cosmwasm"
	// FamilySecret is Secret Network, whose compute module requires contract code hashes.
	FamilySecret Family = "secret"
)

// Client is a client bound to a single chain.
type Client interface {
	// QuerySmart runs a smart query against a contract and decodes the response into out.
	QuerySmart(ctx context.Context, address string, msg any, out any) error
	Simulator
}

// CodeHashClient is implemented by clients of chains that require contract code hashes.
type CodeHashClient interface {
	ContractCodeHash(ctx context.Context, address string) (string, error)
}

// Chain represents one configured chain.
type Chain struct {
	ID           string
	Family       Family
	Bech32Prefix string
	NativeDenom  string

	Client Client
}

// String returns "<chain id> (<family>)".
func (c Chain) String() string {
	return fmt.Sprintf("%s (%s)", c.ID, c.Family)
}

// ChainID returns the chain id.
func (c Chain) ChainID() string {
	return c.ID
}
