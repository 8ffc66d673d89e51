package voting

import (
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/query"
)

const Cw4VariantName = "dao-voting-cw4"

var Cw4ContractNames = []string{
	"crates.io:cw4-voting",
	"crates.io:cwd-voting-cw4",
	"crates.io:dao-voting-cw4",
}

// Cw4 weighs votes by membership in a cw4 group.
type Cw4 struct {
	*module.VotingModuleBase
}

var _ module.VotingModule = (*Cw4)(nil)

func NewCw4(ref module.ModuleRef, deps module.Deps) *Cw4 {
	return &Cw4{VotingModuleBase: newBase(ref, deps)}
}

// GroupContractQuery returns the address of the cw4 group.
func (m *Cw4) GroupContractQuery() query.Query[string] {
	return addressQuery(m.VotingModuleBase, "group_contract")
}

// GovernanceTokenQuery resolves to nil without a network call.
func (m *Cw4) GovernanceTokenQuery() query.Query[*module.GenericToken] {
	key := query.ChainKey(m.ChainID(), m.Address(), governanceTokenSuffix, nil)

	return query.Const[*module.GenericToken](key, nil)
}
