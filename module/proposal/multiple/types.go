package multiple

import (
	"encoding/json"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/feature"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module"
)

// VotingStrategy decides how a multiple choice proposal passes.
type VotingStrategy struct {
	SingleChoice *SingleChoiceStrategy `json:"single_choice,omitempty"`
}

type SingleChoiceStrategy struct {
	Quorum module.PercentageThreshold `json:"quorum"`
}

// OptionType distinguishes the "none of the above" option the contract adds.
type OptionType string

const (
	OptionStandard OptionType = "standard"
	OptionNone     OptionType = "none"
)

// CheckedOption is an option of a created proposal.
type CheckedOption struct {
	Index       uint32            `json:"index"`
	OptionType  OptionType        `json:"option_type"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Msgs        []chain.CosmosMsg `json:"msgs"`
	VoteCount   sdkmath.Int       `json:"vote_count"`
}

// Proposal is the body of a multiple choice proposal.
type Proposal struct {
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Proposer       string             `json:"proposer"`
	StartHeight    uint64             `json:"start_height"`
	Expiration     json.RawMessage    `json:"expiration"`
	Choices        []CheckedOption    `json:"choices"`
	Status         string             `json:"status"`
	VotingStrategy VotingStrategy     `json:"voting_strategy"`
	TotalPower     sdkmath.Int        `json:"total_power"`
	AllowRevoting  bool               `json:"allow_revoting"`
	Veto           *module.VetoConfig `json:"veto,omitempty"`
}

// DecodeProposal decodes the body of a proposal response.
func DecodeProposal(res module.ProposalResponse) (*Proposal, error) {
	var p Proposal
	if err := json.Unmarshal(res.Proposal, &p); err != nil {
		return nil, fmt.Errorf("failed to decode multiple choice proposal %d: %w", res.ID, err)
	}

	return &p, nil
}

// InstantiateConfig describes a new multiple choice proposal module.
type InstantiateConfig struct {
	VotingStrategy                  VotingStrategy
	MaxVotingPeriod                 module.Duration
	MinVotingPeriod                 *module.Duration
	OnlyMembersExecute              bool
	AllowRevoting                   bool
	PrePropose                      *module.ModuleInstantiateInfo
	CloseProposalOnExecutionFailure bool
	Veto                            *module.VetoConfig
}

type instantiateMsg struct {
	VotingStrategy                  VotingStrategy        `json:"voting_strategy"`
	MaxVotingPeriod                 module.Duration       `json:"max_voting_period"`
	MinVotingPeriod                 *module.Duration      `json:"min_voting_period,omitempty"`
	OnlyMembersExecute              bool                  `json:"only_members_execute"`
	AllowRevoting                   bool                  `json:"allow_revoting"`
	PreProposeInfo                  module.PreProposeInfo `json:"pre_propose_info"`
	CloseProposalOnExecutionFailure bool                  `json:"close_proposal_on_execution_failure"`
	Veto                            *module.VetoConfig    `json:"veto,omitempty"`
}

// InstantiateMsg encodes cfg for a module of the given version. Multiple choice modules were
// introduced with pre-propose support, so older versions are rejected.
func InstantiateMsg(version feature.ContractVersion, cfg InstantiateConfig) (any, error) {
	if !feature.Supports(feature.PrePropose, version) {
		return nil, fmt.Errorf("%w: %s does not exist at version %s", module.ErrUnsupportedFeature, VariantName, version)
	}
	if cfg.Veto != nil && !feature.Supports(feature.Veto, version) {
		return nil, fmt.Errorf("%w: %s in %s %s", module.ErrUnsupportedFeature, feature.Veto, VariantName, version)
	}

	return instantiateMsg{
		VotingStrategy:                  cfg.VotingStrategy,
		MaxVotingPeriod:                 cfg.MaxVotingPeriod,
		MinVotingPeriod:                 cfg.MinVotingPeriod,
		OnlyMembersExecute:              cfg.OnlyMembersExecute,
		AllowRevoting:                   cfg.AllowRevoting,
		PreProposeInfo:                  module.NewPreProposeInfo(cfg.PrePropose),
		CloseProposalOnExecutionFailure: cfg.CloseProposalOnExecutionFailure,
		Veto:                            cfg.Veto,
	}, nil
}
