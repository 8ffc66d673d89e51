// Package module provides the client side of DAO governance modules: the shared proposal and
// voting module state machines, resolution of deployed contracts to known variants, the
// fallback used when nothing matches, and proposal identifiers.
//
// A module is constructed with its identity only. Init fetches the contract version and
// version-gated configuration once; derived fields fail with ErrNotInitialized until then.
package module

import (
	"context"
	"encoding/json"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/feature"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/query"
)

// Module is the part shared by proposal and voting modules.
type Module interface {
	Ref() ModuleRef
	ChainID() string
	Address() string

	// Init loads derived fields. It is idempotent and safe for concurrent use.
	Init(ctx context.Context) error
	Initialized() bool
	Version() (feature.ContractVersion, error)
	ContractName() (string, error)
}

// ProposalModule is a proposal module client.
type ProposalModule interface {
	Module

	Prefix() string
	PrePropose() (*PreProposeModule, error)
	Veto() (*VetoConfig, error)
	Supports(f feature.Feature) (bool, error)

	// Propose creates a proposal, through the pre-propose module when one is attached.
	Propose(ctx context.Context, req ProposeRequest, signers chain.SignerProvider) (*ProposeResult, error)
	// Vote casts a vote and refreshes the cached vote of the voter.
	Vote(ctx context.Context, req VoteRequest, signers chain.SignerProvider) (*chain.TxResponse, error)
	Execute(ctx context.Context, proposalNumber uint64, signers chain.SignerProvider) (*chain.TxResponse, error)
	Close(ctx context.Context, proposalNumber uint64, signers chain.SignerProvider) (*chain.TxResponse, error)

	ProposalQuery(proposalNumber uint64) query.Query[ProposalResponse]
	VoteQuery(proposalNumber uint64, voter string) query.Query[*VoteInfo]
	ListVotesQuery(proposalNumber uint64, startAfter string, limit uint32) query.Query[[]VoteInfo]
	ProposalCountQuery() query.Query[uint64]
	ConfigQuery() query.Query[json.RawMessage]
	// DepositInfoQuery returns a query resolving to nil without any network call when no
	// pre-propose module is attached.
	DepositInfoQuery() (query.Query[*DepositInfo], error)
	ProposalCreationPolicyQuery() query.Query[ProposalCreationPolicy]
	MaxVotingPeriodQuery() query.Query[Duration]
}

// VotingModule is a voting module client.
type VotingModule interface {
	Module

	// VotingPowerQuery returns the power of address at height, or at the latest block when
	// height is nil.
	VotingPowerQuery(address string, height *uint64) query.Query[VotingPower]
	TotalPowerQuery(height *uint64) query.Query[VotingPower]
	// GovernanceTokenQuery resolves to nil for modules without a governance token.
	GovernanceTokenQuery() query.Query[*GenericToken]
}
