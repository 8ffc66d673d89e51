package voting

import (
	"encoding/json"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/module"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/query"
)

const Cw721StakedVariantName = "dao-voting-cw721-staked"

var Cw721StakedContractNames = []string{
	"crates.io:cwd-voting-cw721-staked",
	"crates.io:dao-voting-cw721-staked",
}

// Cw721Config is the config of a cw721 staked voting module.
type Cw721Config struct {
	NftAddress        string          `json:"nft_address"`
	UnstakingDuration json.RawMessage `json:"unstaking_duration,omitempty"`
}

// Cw721Staked weighs votes by staked NFTs of one collection.
type Cw721Staked struct {
	*module.VotingModuleBase
}

var _ module.VotingModule = (*Cw721Staked)(nil)

func NewCw721Staked(ref module.ModuleRef, deps module.Deps) *Cw721Staked {
	return &Cw721Staked{VotingModuleBase: newBase(ref, deps)}
}

func (m *Cw721Staked) ConfigQuery() query.Query[Cw721Config] {
	return module.ContractQuery[Cw721Config](m.Deps().Querier, m.ChainID(), m.Address(), "config", nil)
}

// NftContractQuery returns the address of the staked collection.
func (m *Cw721Staked) NftContractQuery() query.Query[string] {
	return query.Map(m.ConfigQuery(), "nft_address", func(c Cw721Config) (string, error) {
		return c.NftAddress, nil
	})
}

func (m *Cw721Staked) GovernanceTokenQuery() query.Query[*module.GenericToken] {
	return tokenQuery(m.ConfigQuery(), module.TokenTypeCw721, func(c Cw721Config) string { return c.NftAddress })
}
