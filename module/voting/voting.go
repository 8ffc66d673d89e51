// Package voting holds the clients of the voting module variants a DAO may use to weigh votes.
package voting

import (
	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/query"
)

const governanceTokenSuffix = "governance_token"

// Variants returns every voting module variant.
func Variants() []module.VotingModuleVariant {
	return []module.VotingModuleVariant{
		{
			Name:          Cw4VariantName,
			ContractNames: Cw4ContractNames,
			New: func(ref module.ModuleRef, deps module.Deps) module.VotingModule {
				return NewCw4(ref, deps)
			},
		},
		{
			Name:          Cw20StakedVariantName,
			ContractNames: Cw20StakedContractNames,
			New: func(ref module.ModuleRef, deps module.Deps) module.VotingModule {
				return NewCw20Staked(ref, deps)
			},
		},
		{
			Name:          TokenStakedVariantName,
			ContractNames: TokenStakedContractNames,
			New: func(ref module.ModuleRef, deps module.Deps) module.VotingModule {
				return NewTokenStaked(ref, deps)
			},
		},
		{
			Name:          Cw721StakedVariantName,
			ContractNames: Cw721StakedContractNames,
			New: func(ref module.ModuleRef, deps module.Deps) module.VotingModule {
				return NewCw721Staked(ref, deps)
			},
		},
	}
}

func newBase(ref module.ModuleRef, deps module.Deps) *module.VotingModuleBase {
	return module.NewVotingModuleBase(ref, chain.FamilyCosmWasm, deps)
}

func addressQuery(b *module.VotingModuleBase, name string) query.Query[string] {
	return module.ContractQuery[string](b.Deps().Querier, b.ChainID(), b.Address(), name, nil)
}

func tokenQuery[T any](q query.Query[T], tokenType module.TokenType, denomOrAddress func(T) string) query.Query[*module.GenericToken] {
	return query.Map(q, governanceTokenSuffix, func(v T) (*module.GenericToken, error) {
		return &module.GenericToken{Type: tokenType, DenomOrAddress: denomOrAddress(v)}, nil
	})
}
