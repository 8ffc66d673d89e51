package network

import (
	"errors"
	"fmt"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
)

// NetworkType represents the type of network, which can either be mainnet or testnet.
type NetworkType string

const (
	NetworkTypeMainnet NetworkType = "mainnet"
	NetworkTypeTestnet NetworkType = "testnet"
)

// Network represents the configuration of one chain.
type Network struct {
	ChainID      string       `yaml:"chain_id"`
	Type         NetworkType  `yaml:"type"`
	Family       chain.Family `yaml:"family"`
	Bech32Prefix string       `yaml:"bech32_prefix"`
	NativeDenom  string       `yaml:"native_denom"`
	REST         []Endpoint   `yaml:"rest"`
	// Indexer is the base URL of the DAO indexer serving this chain. Optional.
	Indexer string `yaml:"indexer,omitempty"`
}

// Endpoint is a named REST (LCD) endpoint.
type Endpoint struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// Validate validates the network configuration to ensure that all required fields are set.
func (n *Network) Validate() error {
	if n.ChainID == "" {
		return errors.New("chain id is required")
	}

	if n.Type == "" {
		return errors.New("type is required")
	}

	switch n.Family {
	case chain.FamilyCosmWasm, chain.FamilySecret:
	case "":
		return errors.New("family is required")
	default:
		return fmt.Errorf("unsupported family %q", n.Family)
	}

	if n.Bech32Prefix == "" {
		return errors.New("bech32 prefix is required")
	}

	if len(n.REST) == 0 {
		return errors.New("at least one REST endpoint is required")
	}

	return nil
}

// PreferredEndpoint returns the first REST endpoint URL.
func (n *Network) PreferredEndpoint() string {
	if len(n.REST) == 0 {
		return ""
	}

	return n.REST[0].URL
}

// PolytoneConnection describes a polytone note on a source chain and the voice it relays to on
// a destination chain. A DAO executing through the note controls a proxy on the destination.
type PolytoneConnection struct {
	SourceChainID      string `yaml:"source_chain_id"`
	DestinationChainID string `yaml:"destination_chain_id"`
	Note               string `yaml:"note"`
	Listener           string `yaml:"listener"`
	Voice              string `yaml:"voice"`
}

// Validate checks the connection has both ends and a note.
func (p *PolytoneConnection) Validate() error {
	if p.SourceChainID == "" || p.DestinationChainID == "" {
		return errors.New("source and destination chain ids are required")
	}

	if p.SourceChainID == p.DestinationChainID {
		return errors.New("source and destination chain ids must differ")
	}

	if p.Note == "" {
		return errors.New("note address is required")
	}

	return nil
}
