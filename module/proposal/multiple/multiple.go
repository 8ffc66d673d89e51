// Package multiple is the client of multiple choice proposal modules.
package multiple

import (
	"context"
	"fmt"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/feature"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/query"
)

const (
	VariantName       = "dao-proposal-multiple"
	SecretVariantName = "secret-dao-proposal-multiple"
	VoteFormula       = "daoProposalMultiple/vote"
)

var (
	ContractNames = []string{
		"crates.io:cwd-proposal-multiple",
		"crates.io:dao-proposal-multiple",
	}
	SecretContractNames = []string{
		"crates.io:secret-dao-proposal-multiple",
	}
)

// Module is a multiple choice proposal module.
type Module struct {
	*module.ProposalModuleBase
}

var _ module.ProposalModule = (*Module)(nil)

// New returns a client for a CosmWasm multiple choice proposal module.
func New(ref module.ModuleRef, deps module.Deps) *Module {
	return &Module{ProposalModuleBase: module.NewProposalModuleBase(ref, chain.FamilyCosmWasm, deps)}
}

// NewSecret returns a client for a Secret Network multiple choice proposal module.
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

type choices struct {
	Options []module.MultipleChoiceOption `json:"options"`
}

type proposeMsg struct {
	Title       string                     `json:"title"`
	Description string                     `json:"description"`
	Choices     choices                    `json:"choices"`
	Proposer    string                     `json:"proposer,omitempty"`
	Vote        *module.MultipleChoiceVote `json:"vote,omitempty"`
}

// Propose implements module.ProposalModule.
func (m *Module) Propose(
	ctx context.Context, req module.ProposeRequest, signers chain.SignerProvider,
) (*module.ProposeResult, error) {
	data, err := proposalData(req.Data)
	if err != nil {
		return nil, err
	}
	if len(data.Options) < 2 {
		return nil, fmt.Errorf("%w: multiple choice proposals need at least 2 options, got %d",
			module.ErrUnsupportedProposalData, len(data.Options))
	}

	msg := proposeMsg{
		Title:       data.Title,
		Description: data.Description,
		Choices:     choices{Options: make([]module.MultipleChoiceOption, 0, len(data.Options))},
	}
	for _, o := range data.Options {
		if o.Msgs == nil {
			o.Msgs = []chain.CosmosMsg{}
		}
		msg.Choices.Options = append(msg.Choices.Options, o)
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

func proposalData(data module.NewProposalData) (module.MultipleChoiceProposal, error) {
	switch d := data.(type) {
	case module.MultipleChoiceProposal:
		return d, nil
	case *module.MultipleChoiceProposal:
		if d != nil {
			return *d, nil
		}
	}

	return module.MultipleChoiceProposal{}, fmt.Errorf("%w: %T for %s", module.ErrUnsupportedProposalData, data, VariantName)
}

func voteChoice(vote module.VoteChoice) (module.MultipleChoiceVote, error) {
	switch v := vote.(type) {
	case module.MultipleChoiceVote:
		return v, nil
	case *module.MultipleChoiceVote:
		if v != nil {
			return *v, nil
		}
	}

	return module.MultipleChoiceVote{}, fmt.Errorf("%w: %T for %s", module.ErrUnsupportedVote, vote, VariantName)
}
