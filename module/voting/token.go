package voting

import (
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/query"
)

const TokenStakedVariantName = "dao-voting-token-staked"

var TokenStakedContractNames = []string{
	"crates.io:cwd-voting-native-staked",
	"crates.io:dao-voting-native-staked",
	"crates.io:dao-voting-token-staked",
}

// DenomResponse is the answer to the denom query.
type DenomResponse struct {
	Denom string `json:"denom"`
}

// TokenStaked weighs votes by staked native or token factory tokens.
type TokenStaked struct {
	*module.VotingModuleBase
}

var _ module.VotingModule = (*TokenStaked)(nil)

func NewTokenStaked(ref module.ModuleRef, deps module.Deps) *TokenStaked {
	return &TokenStaked{VotingModuleBase: newBase(ref, deps)}
}

func (m *TokenStaked) DenomQuery() query.Query[DenomResponse] {
	return module.ContractQuery[DenomResponse](m.Deps().Querier, m.ChainID(), m.Address(), "denom", nil)
}

func (m *TokenStaked) GovernanceTokenQuery() query.Query[*module.GenericToken] {
	return tokenQuery(m.DenomQuery(), module.TokenTypeNative, func(r DenomResponse) string { return r.Denom })
}
