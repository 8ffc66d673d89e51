package single

import (
	"fmt"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/feature"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module"
)

// InstantiateConfig describes a new single choice proposal module independent of version.
type InstantiateConfig struct {
	Threshold          Threshold
	MaxVotingPeriod    module.Duration
	MinVotingPeriod    *module.Duration
	OnlyMembersExecute bool
	AllowRevoting      bool
	// PrePropose is instantiated alongside the module. Nil lets anyone propose.
	PrePropose                      *module.ModuleInstantiateInfo
	CloseProposalOnExecutionFailure bool
	Veto                            *module.VetoConfig
}

type instantiateMsgV1 struct {
	Threshold          Threshold       `json:"threshold"`
	MaxVotingPeriod    module.Duration `json:"max_voting_period"`
	OnlyMembersExecute bool            `json:"only_members_execute"`
	AllowRevoting      bool            `json:"allow_revoting"`
}

type instantiateMsgV2 struct {
	Threshold                       Threshold             `json:"threshold"`
	MaxVotingPeriod                 module.Duration       `json:"max_voting_period"`
	MinVotingPeriod                 *module.Duration      `json:"min_voting_period,omitempty"`
	OnlyMembersExecute              bool                  `json:"only_members_execute"`
	AllowRevoting                   bool                  `json:"allow_revoting"`
	PreProposeInfo                  module.PreProposeInfo `json:"pre_propose_info"`
	CloseProposalOnExecutionFailure bool                  `json:"close_proposal_on_execution_failure"`
	Veto                            *module.VetoConfig    `json:"veto,omitempty"`
}

// InstantiateMsg encodes cfg for a module of the given version. Settings the version cannot
// express fail with module.ErrUnsupportedFeature.
func InstantiateMsg(version feature.ContractVersion, cfg InstantiateConfig) (any, error) {
	if cfg.Veto != nil && !feature.Supports(feature.Veto, version) {
		return nil, fmt.Errorf("%w: %s in %s %s", module.ErrUnsupportedFeature, feature.Veto, VariantName, version)
	}

	if !feature.Supports(feature.PrePropose, version) {
		if cfg.PrePropose != nil {
			return nil, fmt.Errorf("%w: %s in %s %s", module.ErrUnsupportedFeature, feature.PrePropose, VariantName, version)
		}

		return instantiateMsgV1{
			Threshold:          cfg.Threshold,
			MaxVotingPeriod:    cfg.MaxVotingPeriod,
			OnlyMembersExecute: cfg.OnlyMembersExecute,
			AllowRevoting:      cfg.AllowRevoting,
		}, nil
	}

	return instantiateMsgV2{
		Threshold:                       cfg.Threshold,
		MaxVotingPeriod:                 cfg.MaxVotingPeriod,
		MinVotingPeriod:                 cfg.MinVotingPeriod,
		OnlyMembersExecute:              cfg.OnlyMembersExecute,
		AllowRevoting:                   cfg.AllowRevoting,
		PreProposeInfo:                  module.NewPreProposeInfo(cfg.PrePropose),
		CloseProposalOnExecutionFailure: cfg.CloseProposalOnExecutionFailure,
		Veto:                            cfg.Veto,
	}, nil
}
