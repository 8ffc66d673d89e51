package dao

import (
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module/proposal/multiple"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module/proposal/single"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module/voting"
)

// DefaultRegistry returns a registry holding every built-in module variant.
func DefaultRegistry() *module.Registry {
	r := module.NewRegistry()
	r.RegisterProposalModules(single.Variants()...)
	r.RegisterProposalModules(multiple.Variants()...)
	r.RegisterVotingModules(voting.Variants()...)

	return r
}
