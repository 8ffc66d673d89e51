package module

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/feature"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/query"
)

// FallbackVariantName names the fallback modules in logs and metrics.
const FallbackVariantName = "fallback"

func notImplemented[T any](ref ModuleRef, name string) query.Query[T] {
	return query.Query[T]{
		Key:      query.ChainKey(ref.ChainID, ref.Address, name, nil),
		Disabled: true,
		Fetch: func(context.Context) (T, error) {
			var zero T
			return zero, fmt.Errorf("%w: %s on unrecognized module %s", ErrNotImplemented, name, ref)
		},
	}
}

// FallbackProposalModule stands in for a proposal module no variant recognizes. Its identity
// and observed contract name remain readable; everything else fails with ErrNotImplemented.
type FallbackProposalModule struct {
	ref  ModuleRef
	info ContractInfo
}

var _ ProposalModule = (*FallbackProposalModule)(nil)

// NewFallbackProposalModule returns a fallback for the module at ref with its observed info.
func NewFallbackProposalModule(ref ModuleRef, info ContractInfo) *FallbackProposalModule {
	return &FallbackProposalModule{ref: ref, info: info}
}

func (m *FallbackProposalModule) err(op string) error {
	return fmt.Errorf("%w: %s on unrecognized proposal module %s (%s)", ErrNotImplemented, op, m.ref, m.info.Contract)
}

func (m *FallbackProposalModule) Ref() ModuleRef  { return m.ref }
func (m *FallbackProposalModule) ChainID() string { return m.ref.ChainID }
func (m *FallbackProposalModule) Address() string { return m.ref.Address }
func (m *FallbackProposalModule) Prefix() string  { return m.ref.Prefix }

// Init is a no-op: there is nothing to load.
func (m *FallbackProposalModule) Init(context.Context) error { return nil }

// Initialized is always true.
func (m *FallbackProposalModule) Initialized() bool { return true }

func (m *FallbackProposalModule) Version() (feature.ContractVersion, error) {
	return feature.Unknown, m.err("version")
}

// ContractName returns the observed contract name.
func (m *FallbackProposalModule) ContractName() (string, error) {
	return m.info.Contract, nil
}

func (m *FallbackProposalModule) PrePropose() (*PreProposeModule, error) {
	return nil, m.err("pre-propose")
}

func (m *FallbackProposalModule) Veto() (*VetoConfig, error) {
	return nil, m.err("veto")
}

func (m *FallbackProposalModule) Supports(feature.Feature) (bool, error) {
	return false, m.err("supports")
}

func (m *FallbackProposalModule) Propose(context.Context, ProposeRequest, chain.SignerProvider) (*ProposeResult, error) {
	return nil, m.err("propose")
}

func (m *FallbackProposalModule) Vote(context.Context, VoteRequest, chain.SignerProvider) (*chain.TxResponse, error) {
	return nil, m.err("vote")
}

func (m *FallbackProposalModule) Execute(context.Context, uint64, chain.SignerProvider) (*chain.TxResponse, error) {
	return nil, m.err("execute")
}

func (m *FallbackProposalModule) Close(context.Context, uint64, chain.SignerProvider) (*chain.TxResponse, error) {
	return nil, m.err("close")
}

func (m *FallbackProposalModule) ProposalQuery(uint64) query.Query[ProposalResponse] {
	return notImplemented[ProposalResponse](m.ref, "proposal")
}

func (m *FallbackProposalModule) VoteQuery(uint64, string) query.Query[*VoteInfo] {
	return notImplemented[*VoteInfo](m.ref, "get_vote")
}

func (m *FallbackProposalModule) ListVotesQuery(uint64, string, uint32) query.Query[[]VoteInfo] {
	return notImplemented[[]VoteInfo](m.ref, "list_votes")
}

func (m *FallbackProposalModule) ProposalCountQuery() query.Query[uint64] {
	return notImplemented[uint64](m.ref, "proposal_count")
}

func (m *FallbackProposalModule) ConfigQuery() query.Query[json.RawMessage] {
	return notImplemented[json.RawMessage](m.ref, "config")
}

func (m *FallbackProposalModule) DepositInfoQuery() (query.Query[*DepositInfo], error) {
	return notImplemented[*DepositInfo](m.ref, "deposit_info"), m.err("deposit info")
}

func (m *FallbackProposalModule) ProposalCreationPolicyQuery() query.Query[ProposalCreationPolicy] {
	return notImplemented[ProposalCreationPolicy](m.ref, "proposal_creation_policy")
}

func (m *FallbackProposalModule) MaxVotingPeriodQuery() query.Query[Duration] {
	return notImplemented[Duration](m.ref, "max_voting_period")
}

// FallbackVotingModule stands in for a voting module no variant recognizes.
type FallbackVotingModule struct {
	ref  ModuleRef
	info ContractInfo
}

var _ VotingModule = (*FallbackVotingModule)(nil)

// NewFallbackVotingModule returns a fallback for the voting module at ref.
func NewFallbackVotingModule(ref ModuleRef, info ContractInfo) *FallbackVotingModule {
	return &FallbackVotingModule{ref: ref, info: info}
}

func (m *FallbackVotingModule) Ref() ModuleRef                { return m.ref }
func (m *FallbackVotingModule) ChainID() string               { return m.ref.ChainID }
func (m *FallbackVotingModule) Address() string               { return m.ref.Address }
func (m *FallbackVotingModule) Init(context.Context) error    { return nil }
func (m *FallbackVotingModule) Initialized() bool             { return true }
func (m *FallbackVotingModule) ContractName() (string, error) { return m.info.Contract, nil }

func (m *FallbackVotingModule) Version() (feature.ContractVersion, error) {
	return feature.Unknown, fmt.Errorf("%w: version on unrecognized voting module %s (%s)",
		ErrNotImplemented, m.ref, m.info.Contract)
}

func (m *FallbackVotingModule) VotingPowerQuery(string, *uint64) query.Query[VotingPower] {
	return notImplemented[VotingPower](m.ref, "voting_power_at_height")
}

func (m *FallbackVotingModule) TotalPowerQuery(*uint64) query.Query[VotingPower] {
	return notImplemented[VotingPower](m.ref, "total_power_at_height")
}

func (m *FallbackVotingModule) GovernanceTokenQuery() query.Query[*GenericToken] {
	return notImplemented[*GenericToken](m.ref, "governance_token")
}
