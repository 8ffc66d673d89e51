package module

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	sdkmath "cosmossdk.io/math"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/feature"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/query"
)

var (
	approvalContractNames = []string{
		"crates.io:dao-pre-propose-approval-single",
		"crates.io:dao-pre-propose-approval-multiple",
		"crates.io:secret-dao-pre-propose-approval-single",
	}
	approverContractNames = []string{
		"crates.io:dao-pre-propose-approver",
		"crates.io:secret-dao-pre-propose-approver",
	}
)

// PreProposeModule is a contract that proposals are submitted through, e.g. to take a deposit
// or to require approval.
type PreProposeModule struct {
	ChainID      string
	Address      string
	ContractName string
	Version      feature.ContractVersion
	// CodeHash is set on Secret Network only.
	CodeHash string
	Family   chain.Family
}

// IsApproval reports whether proposals submitted through this module await approval before
// they reach the proposal module.
func (p *PreProposeModule) IsApproval() bool {
	return slices.Contains(approvalContractNames, p.ContractName)
}

// IsApprover reports whether this module approves proposals of another DAO's approval module.
func (p *PreProposeModule) IsApprover() bool {
	return slices.Contains(approverContractNames, p.ContractName)
}

// preProposeConfig is the config of a pre-propose module. Denom holds the network-specific
// token shape and is translated by DepositInfoFromConfig.
type preProposeConfig struct {
	DepositInfo *struct {
		Denom        json.RawMessage     `json:"denom"`
		Amount       sdkmath.Int         `json:"amount"`
		RefundPolicy DepositRefundPolicy `json:"refund_policy"`
	} `json:"deposit_info"`
	OpenProposalSubmission *bool             `json:"open_proposal_submission,omitempty"`
	SubmissionPolicy       *SubmissionPolicy `json:"submission_policy,omitempty"`
}

// ConfigQuery returns the raw config of the pre-propose module.
func (p *PreProposeModule) ConfigQuery(q chain.QueryClient) query.Query[json.RawMessage] {
	return ContractQuery[json.RawMessage](q, p.ChainID, p.Address, "config", nil)
}

// DepositInfoQuery returns the deposit required by the module, translated to the common token
// shape, or nil when no deposit is required.
func (p *PreProposeModule) DepositInfoQuery(q chain.QueryClient) query.Query[*DepositInfo] {
	cfg := p.ConfigQuery(q)

	return query.Query[*DepositInfo]{
		Key:      query.ChainKey(p.ChainID, p.Address, "config#deposit_info", nil),
		Disabled: cfg.Disabled,
		Fetch: func(ctx context.Context) (*DepositInfo, error) {
			raw, err := cfg.Fetch(ctx)
			if err != nil {
				return nil, err
			}

			return DepositInfoFromConfig(p.Family, raw)
		},
	}
}

// SubmissionPolicyQuery returns who may submit proposals. Modules older than the granular
// submission policy report open_proposal_submission, which is mapped onto the granular shape.
func (p *PreProposeModule) SubmissionPolicyQuery(q chain.QueryClient) query.Query[SubmissionPolicy] {
	cfg := p.ConfigQuery(q)
	granular := feature.Supports(feature.GranularSubmissionPolicy, p.Version)

	return query.Query[SubmissionPolicy]{
		Key:      query.ChainKey(p.ChainID, p.Address, "config#submission_policy", nil),
		Disabled: cfg.Disabled,
		Fetch: func(ctx context.Context) (SubmissionPolicy, error) {
			raw, err := cfg.Fetch(ctx)
			if err != nil {
				return SubmissionPolicy{}, err
			}

			var c preProposeConfig
			if err := json.Unmarshal(raw, &c); err != nil {
				return SubmissionPolicy{}, fmt.Errorf("failed to decode pre-propose config: %w", err)
			}

			return submissionPolicy(c, granular)
		},
	}
}

func submissionPolicy(c preProposeConfig, granular bool) (SubmissionPolicy, error) {
	if granular {
		if c.SubmissionPolicy == nil {
			return SubmissionPolicy{}, fmt.Errorf("%w: submission_policy missing", ErrUnsupportedFeature)
		}

		return *c.SubmissionPolicy, nil
	}

	if c.OpenProposalSubmission != nil && *c.OpenProposalSubmission {
		return SubmissionPolicy{Anyone: &AnyoneSubmission{Denylist: []string{}}}, nil
	}

	return SubmissionPolicy{Specific: &SpecificSubmission{
		DaoMembers: true,
		Allowlist:  []string{},
		Denylist:   []string{},
	}}, nil
}
