package module

import (
	"slices"
	"sync"
)

// ProposalModuleConstructor builds an uninitialized proposal module client.
type ProposalModuleConstructor func(ref ModuleRef, deps Deps) ProposalModule

// VotingModuleConstructor builds an uninitialized voting module client.
type VotingModuleConstructor func(ref ModuleRef, deps Deps) VotingModule

// ProposalModuleVariant is a proposal module client together with the contract names it serves.
type ProposalModuleVariant struct {
	Name          string
	ContractNames []string
	New           ProposalModuleConstructor
}

// Matches reports whether the variant serves contractName.
func (v ProposalModuleVariant) Matches(contractName string) bool {
	return slices.Contains(v.ContractNames, contractName)
}

// VotingModuleVariant is a voting module client together with the contract names it serves.
type VotingModuleVariant struct {
	Name          string
	ContractNames []string
	New           VotingModuleConstructor
}

// Matches reports whether the variant serves contractName.
func (v VotingModuleVariant) Matches(contractName string) bool {
	return slices.Contains(v.ContractNames, contractName)
}

// Registry holds the known module variants in registration order.
type Registry struct {
	mu       sync.RWMutex
	proposal []ProposalModuleVariant
	voting   []VotingModuleVariant
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterProposalModules appends variants. Earlier registrations win on overlapping names.
func (r *Registry) RegisterProposalModules(variants ...ProposalModuleVariant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.proposal = append(r.proposal, variants...)
}

// RegisterVotingModules appends variants. Earlier registrations win on overlapping names.
func (r *Registry) RegisterVotingModules(variants ...VotingModuleVariant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.voting = append(r.voting, variants...)
}

// ProposalModuleVariants returns the registered proposal module variants.
func (r *Registry) ProposalModuleVariants() []ProposalModuleVariant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.proposal)
}

// VotingModuleVariants returns the registered voting module variants.
func (r *Registry) VotingModuleVariants() []VotingModuleVariant {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.voting)
}

// ResolveProposalModuleVariant returns the first variant serving contractName. The boolean is
// false when no variant matches.
func (r *Registry) ResolveProposalModuleVariant(contractName string) (ProposalModuleVariant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.proposal {
		if v.Matches(contractName) {
			return v, true
		}
	}

	return ProposalModuleVariant{}, false
}

// ResolveVotingModuleVariant returns the first variant serving contractName. The boolean is
// false when no variant matches.
func (r *Registry) ResolveVotingModuleVariant(contractName string) (VotingModuleVariant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, v := range r.voting {
		if v.Matches(contractName) {
			return v, true
		}
	}

	return VotingModuleVariant{}, false
}

// NewProposalModule builds a client for a deployed proposal module. When no variant serves
// info.Contract, it returns a FallbackProposalModule and false.
func (r *Registry) NewProposalModule(ref ModuleRef, info ContractInfo, deps Deps) (ProposalModule, bool) {
	if v, ok := r.ResolveProposalModuleVariant(info.Contract); ok {
		return v.New(ref, deps), true
	}

	return NewFallbackProposalModule(ref, info), false
}

// NewVotingModule builds a client for a deployed voting module. When no variant serves
// info.Contract, it returns a FallbackVotingModule and false.
func (r *Registry) NewVotingModule(ref ModuleRef, info ContractInfo, deps Deps) (VotingModule, bool) {
	if v, ok := r.ResolveVotingModuleVariant(info.Contract); ok {
		return v.New(ref, deps), true
	}

	return NewFallbackVotingModule(ref, info), false
}
