package single

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/query"
)

// Threshold is the passing threshold of a single choice proposal. Exactly one field is set.
type Threshold struct {
	AbsolutePercentage *AbsolutePercentage `json:"absolute_percentage,omitempty"`
	ThresholdQuorum    *ThresholdQuorum    `json:"threshold_quorum,omitempty"`
	AbsoluteCount      *AbsoluteCount      `json:"absolute_count,omitempty"`
}

type AbsolutePercentage struct {
	Percentage module.PercentageThreshold `json:"percentage"`
}

type ThresholdQuorum struct {
	Threshold module.PercentageThreshold `json:"threshold"`
	Quorum    module.PercentageThreshold `json:"quorum"`
}

type AbsoluteCount struct {
	Threshold sdkmath.Int `json:"threshold"`
}

// Votes is the tally of a proposal.
type Votes struct {
	Yes     sdkmath.Int `json:"yes"`
	No      sdkmath.Int `json:"no"`
	Abstain sdkmath.Int `json:"abstain"`
}

// Proposal is the body of a single choice proposal.
type Proposal struct {
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Proposer      string             `json:"proposer"`
	StartHeight   uint64             `json:"start_height"`
	Expiration    json.RawMessage    `json:"expiration"`
	Threshold     Threshold          `json:"threshold"`
	TotalPower    sdkmath.Int        `json:"total_power"`
	Msgs          []chain.CosmosMsg  `json:"msgs"`
	Status        string             `json:"status"`
	Votes         Votes              `json:"votes"`
	AllowRevoting bool               `json:"allow_revoting"`
	Veto          *module.VetoConfig `json:"veto,omitempty"`
}

// DecodeProposal decodes the body of a proposal response.
func DecodeProposal(res module.ProposalResponse) (*Proposal, error) {
	var p Proposal
	if err := json.Unmarshal(res.Proposal, &p); err != nil {
		return nil, fmt.Errorf("failed to decode single choice proposal %d: %w", res.ID, err)
	}

	return &p, nil
}

// Config is the config of a single choice proposal module.
type Config struct {
	Threshold                       Threshold          `json:"threshold"`
	MaxVotingPeriod                 module.Duration    `json:"max_voting_period"`
	MinVotingPeriod                 *module.Duration   `json:"min_voting_period,omitempty"`
	OnlyMembersExecute              bool               `json:"only_members_execute"`
	AllowRevoting                   bool               `json:"allow_revoting"`
	Dao                             string             `json:"dao"`
	CloseProposalOnExecutionFailure bool               `json:"close_proposal_on_execution_failure"`
	Veto                            *module.VetoConfig `json:"veto,omitempty"`
}

// TypedConfigQuery returns the decoded config of the module.
func (m *Module) TypedConfigQuery() query.Query[Config] {
	raw := m.ConfigQuery()
	key := raw.Key
	key.Name = "config#typed"

	return query.Query[Config]{
		Key:      key,
		Disabled: raw.Disabled,
		Fetch: func(ctx context.Context) (Config, error) {
			b, err := query.Fetch(ctx, m.Deps().Queries, raw)
			if err != nil {
				return Config{}, err
			}

			var cfg Config
			if err := json.Unmarshal(b, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to decode single choice config: %w", err)
			}

			return cfg, nil
		},
	}
}
