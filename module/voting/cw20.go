package voting

import (
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/query"
)

const Cw20StakedVariantName = "dao-voting-cw20-staked"

var Cw20StakedContractNames = []string{
	"crates.io:cw20-staked-balance-voting",
	"crates.io:cwd-voting-cw20-staked",
	"crates.io:dao-voting-cw20-staked",
}

// Cw20Staked weighs votes by cw20 tokens staked in a companion staking contract.
type Cw20Staked struct {
	*module.VotingModuleBase
}

var _ module.VotingModule = (*Cw20Staked)(nil)

func NewCw20Staked(ref module.ModuleRef, deps module.Deps) *Cw20Staked {
	return &Cw20Staked{VotingModuleBase: newBase(ref, deps)}
}

// TokenContractQuery returns the address of the cw20 token.
func (m *Cw20Staked) TokenContractQuery() query.Query[string] {
	return addressQuery(m.VotingModuleBase, "token_contract")
}

// StakingContractQuery returns the address of the cw20 staking contract.
func (m *Cw20Staked) StakingContractQuery() query.Query[string] {
	return addressQuery(m.VotingModuleBase, "staking_contract")
}

func (m *Cw20Staked) GovernanceTokenQuery() query.Query[*module.GenericToken] {
	return tokenQuery(m.TokenContractQuery(), module.TokenTypeCw20, func(addr string) string { return addr })
}
