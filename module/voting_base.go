package module

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/feature"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/logger"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/query"
)

type votingModuleState struct {
	version      feature.ContractVersion
	contractName string
	codeHash     string
}

// VotingModuleBase implements initialization and the power queries shared by all voting
// module variants.
type VotingModuleBase struct {
	ref    ModuleRef
	family chain.Family
	deps   Deps
	lggr   logger.Logger

	mu          sync.Mutex
	initialized atomic.Bool
	state       votingModuleState
}

// NewVotingModuleBase returns an uninitialized base for the voting module at ref.
func NewVotingModuleBase(ref ModuleRef, family chain.Family, deps Deps) *VotingModuleBase {
	deps = deps.WithDefaults()

	return &VotingModuleBase{
		ref:    ref,
		family: family,
		deps:   deps,
		lggr:   deps.Logger.Named("voting_module").With("chain_id", ref.ChainID, "address", ref.Address),
	}
}

func (b *VotingModuleBase) Ref() ModuleRef {
	return b.ref
}

func (b *VotingModuleBase) ChainID() string {
	return b.ref.ChainID
}

func (b *VotingModuleBase) Address() string {
	return b.ref.Address
}

// Deps returns the collaborators of the module.
func (b *VotingModuleBase) Deps() Deps {
	return b.deps
}

// Initialized reports whether Init has succeeded.
func (b *VotingModuleBase) Initialized() bool {
	return b.initialized.Load()
}

// Init fetches the contract info of the voting module. It is idempotent.
func (b *VotingModuleBase) Init(ctx context.Context) error {
	if b.initialized.Load() {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized.Load() {
		return nil
	}

	info, err := query.Fetch(ctx, b.deps.Queries, ContractInfoQuery(b.deps.Querier, b.ref.ChainID, b.ref.Address))
	if err != nil {
		return fmt.Errorf("failed to fetch contract info of voting module %s: %w", b.ref, err)
	}

	st := votingModuleState{
		version:      parseVersion(b.lggr, info),
		contractName: info.Contract,
	}
	if b.family == chain.FamilySecret {
		if b.deps.CodeHashes == nil {
			return fmt.Errorf("code hash querier required for voting module %s", b.ref)
		}
		if st.codeHash, err = b.deps.CodeHashes.ContractCodeHash(ctx, b.ref.ChainID, b.ref.Address); err != nil {
			return fmt.Errorf("failed to fetch code hash of voting module %s: %w", b.ref, err)
		}
	}

	b.state = st
	b.initialized.Store(true)

	return nil
}

func (b *VotingModuleBase) loaded() (votingModuleState, error) {
	if !b.initialized.Load() {
		return votingModuleState{}, fmt.Errorf("%w: voting module %s", ErrNotInitialized, b.ref)
	}

	return b.state, nil
}

// Version returns the contract version.
func (b *VotingModuleBase) Version() (feature.ContractVersion, error) {
	st, err := b.loaded()
	return st.version, err
}

// ContractName returns the cw2 contract name.
func (b *VotingModuleBase) ContractName() (string, error) {
	st, err := b.loaded()
	return st.contractName, err
}

// CodeHash returns the contract code hash. It is empty outside Secret Network.
func (b *VotingModuleBase) CodeHash() (string, error) {
	st, err := b.loaded()
	return st.codeHash, err
}

// VotingPowerQuery implements VotingModule.
func (b *VotingModuleBase) VotingPowerQuery(address string, height *uint64) query.Query[VotingPower] {
	args := map[string]any{"address": address}
	if height != nil {
		args["height"] = *height
	}
	q := ContractQuery[VotingPower](b.deps.Querier, b.ref.ChainID, b.ref.Address, "voting_power_at_height", args)
	q.Disabled = q.Disabled || address == ""

	return q
}

// TotalPowerQuery implements VotingModule.
func (b *VotingModuleBase) TotalPowerQuery(height *uint64) query.Query[VotingPower] {
	args := map[string]any{}
	if height != nil {
		args["height"] = *height
	}

	return ContractQuery[VotingPower](b.deps.Querier, b.ref.ChainID, b.ref.Address, "total_power_at_height", args)
}

// DaoQuery returns the DAO core address the voting module reports.
func (b *VotingModuleBase) DaoQuery() query.Query[string] {
	return ContractQuery[string](b.deps.Querier, b.ref.ChainID, b.ref.Address, "dao", nil)
}
