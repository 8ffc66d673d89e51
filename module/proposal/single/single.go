// Package single is the client of single choice (yes/no/abstain) proposal modules.
package single

import (
	"context"
	"fmt"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/feature"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/query"
)

const (
	VariantName       = "dao-proposal-single"
	SecretVariantName = "secret-dao-proposal-single"
	// VoteFormula is the indexer formula returning one voter's vote.
	VoteFormula = "daoProposalSingle/vote"
)

var (
	// ContractNames are the cw2 names served on CosmWasm chains, oldest first.
	ContractNames = []string{
		"crates.io:cw-proposal-single",
		"crates.io:cwd-proposal-single",
		"crates.io:dao-proposal-single",
	}
	// SecretContractNames are the cw2 names served on Secret Network.
	SecretContractNames = []string{
		"crates.io:secret-dao-proposal-single",
	}
)

// Module is a single choice proposal module.
type Module struct {
	*module.ProposalModuleBase
}

var _ module.ProposalModule = (*Module)(nil)

// New returns a client for a CosmWasm single choice proposal module.
func New(ref module.ModuleRef, deps module.Deps) *Module {
	return &Module{ProposalModuleBase: module.NewProposalModuleBase(ref, chain.FamilyCosmWasm, deps)}
}

// NewSecret returns a client for a Secret Network single choice proposal module.
func NewSecret(ref module.ModuleRef, deps module.Deps) *Module {
	return &Module{ProposalModuleBase: module.NewProposalModuleBase(ref, chain.FamilySecret, deps)}
}

// Variants returns the CosmWasm and Secret Network variants.
func Variants() []module.ProposalModuleVariant {
	return []module.ProposalModuleVariant{
		{
			Name:          VariantName,
			ContractNames: ContractNames,
			New: func(ref module.ModuleRef, deps module.Deps) module.ProposalModule {
				return New(ref, deps)
			},
		},
		{
			Name:          SecretVariantName,
			ContractNames: SecretContractNames,
			New: func(ref module.ModuleRef, deps module.Deps) module.ProposalModule {
				return NewSecret(ref, deps)
			},
		},
	}
}

type proposeMsg struct {
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	Msgs        []chain.CosmosMsg        `json:"msgs"`
	Proposer    string                   `json:"proposer,omitempty"`
	Vote        *module.SingleChoiceVote `json:"vote,omitempty"`
}

// Propose implements module.ProposalModule. Unsupported data or votes are rejected before a
// signer is requested.
func (m *Module) Propose(
	ctx context.Context, req module.ProposeRequest, signers chain.SignerProvider,
) (*module.ProposeResult, error) {
	data, err := proposalData(req.Data)
	if err != nil {
		return nil, err
	}

	msg := proposeMsg{
		Title:       data.Title,
		Description: data.Description,
		Msgs:        data.Msgs,
	}
	if msg.Msgs == nil {
		msg.Msgs = []chain.CosmosMsg{}
	}

	if req.Vote != nil {
		vote, err := voteChoice(req.Vote)
		if err != nil {
			return nil, err
		}
		if err := m.RequireFeature(feature.CastVoteOnProposalCreation); err != nil {
			return nil, err
		}
		msg.Vote = &vote
	}

	pre, err := m.PrePropose()
	if err != nil {
		return nil, err
	}
	if req.Proposer != "" && pre == nil {
		// Only v2 modules accept a proposer, and only from their pre-propose module.
		if err := m.RequireFeature(feature.PrePropose); err != nil {
			return nil, err
		}
		msg.Proposer = req.Proposer
	}

	return m.SubmitProposal(ctx, signers, msg, req.Funds)
}

// Vote implements module.ProposalModule.
func (m *Module) Vote(ctx context.Context, req module.VoteRequest, signers chain.SignerProvider) (*chain.TxResponse, error) {
	vote, err := voteChoice(req.Vote)
	if err != nil {
		return nil, err
	}

	return m.SubmitVote(ctx, signers, VoteFormula, req, vote)
}

// VoteQuery implements module.ProposalModule. The indexer answers first.
func (m *Module) VoteQuery(proposalNumber uint64, voter string) query.Query[*module.VoteInfo] {
	return m.VoteQueryWithIndexer(VoteFormula, proposalNumber, voter)
}

func proposalData(data module.NewProposalData) (module.SingleChoiceProposal, error) {
	switch d := data.(type) {
	case module.SingleChoiceProposal:
		return d, nil
	case *module.SingleChoiceProposal:
		if d != nil {
			return *d, nil
		}
	}

	return module.SingleChoiceProposal{}, fmt.Errorf("%w: %T for %s", module.ErrUnsupportedProposalData, data, VariantName)
}

func voteChoice(vote module.VoteChoice) (module.SingleChoiceVote, error) {
	v, ok := vote.(module.SingleChoiceVote)
	if !ok {
		return "", fmt.Errorf("%w: %T for %s", module.ErrUnsupportedVote, vote, VariantName)
	}
	if err := v.Validate(); err != nil {
		return "", err
	}

	return v, nil
}
