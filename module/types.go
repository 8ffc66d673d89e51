package module

import (
	"encoding/json"
	"errors"
	"fmt"

	sdkmath "cosmossdk.io/math"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/internal/pointer"
)

// Duration is a cw-utils duration: a block height delta or seconds, never both.
type Duration struct {
	Height *uint64 `json:"height,omitempty"`
	Time   *uint64 `json:"time,omitempty"`
}

// Blocks returns a duration of n blocks.
func Blocks(n uint64) Duration {
	return Duration{Height: pointer.To(n)}
}

// Seconds returns a duration of n seconds.
func Seconds(n uint64) Duration {
	return Duration{Time: pointer.To(n)}
}

// String returns e.g. "100 blocks" or "3600s".
func (d Duration) String() string {
	switch {
	case d.Height != nil:
		return fmt.Sprintf("%d blocks", *d.Height)
	case d.Time != nil:
		return fmt.Sprintf("%ds", *d.Time)
	default:
		return "none"
	}
}

// VetoConfig configures the vetoer of a proposal module.
type VetoConfig struct {
	TimelockDuration Duration `json:"timelock_duration"`
	Vetoer           string   `json:"vetoer"`
	EarlyExecute     bool     `json:"early_execute"`
	VetoBeforePassed bool     `json:"veto_before_passed"`
}

// ProposalCreationPolicy says who may create proposals directly on a proposal module.
type ProposalCreationPolicy struct {
	Anyone bool
	// Module is the only address allowed to create proposals, usually a pre-propose module.
	Module string
}

type moduleAddr struct {
	Addr string `json:"addr"`
}

type proposalCreationPolicyJSON struct {
	Anyone *struct{}   `json:"anyone,omitempty"`
	Module *moduleAddr `json:"module,omitempty"`
}

// MarshalJSON encodes the policy in its on-chain shape.
func (p ProposalCreationPolicy) MarshalJSON() ([]byte, error) {
	if p.Module != "" {
		return json.Marshal(proposalCreationPolicyJSON{Module: &moduleAddr{Addr: p.Module}})
	}

	return json.Marshal(proposalCreationPolicyJSON{Anyone: &struct{}{}})
}

// UnmarshalJSON accepts {"anyone":{}}, {"module":{"addr":...}} and the bare string "anyone".
func (p *ProposalCreationPolicy) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != "anyone" {
			return fmt.Errorf("unknown proposal creation policy %q", s)
		}
		*p = ProposalCreationPolicy{Anyone: true}

		return nil
	}

	var raw proposalCreationPolicyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Module != nil:
		*p = ProposalCreationPolicy{Module: raw.Module.Addr}
	case raw.Anyone != nil:
		*p = ProposalCreationPolicy{Anyone: true}
	default:
		return errors.New("empty proposal creation policy")
	}

	return nil
}

// TokenType is the kind of a GenericToken.
type TokenType string

const (
	TokenTypeNative TokenType = "native"
	TokenTypeCw20   TokenType = "cw20"
	TokenTypeCw721  TokenType = "cw721"
)

// GenericToken is a network-agnostic token reference.
type GenericToken struct {
	Type           TokenType `json:"type"`
	DenomOrAddress string    `json:"denom_or_address"`
}

// DepositRefundPolicy says when proposal deposits are returned.
type DepositRefundPolicy string

const (
	RefundAlways     DepositRefundPolicy = "always"
	RefundOnlyPassed DepositRefundPolicy = "only_passed"
	RefundNever      DepositRefundPolicy = "never"
)

// DepositInfo is a proposal deposit requirement with the token in network-agnostic form.
type DepositInfo struct {
	Token        GenericToken        `json:"token"`
	Amount       sdkmath.Int         `json:"amount"`
	RefundPolicy DepositRefundPolicy `json:"refund_policy"`
}

// Coin returns the deposit as a coin when it is paid in a native denom.
func (d DepositInfo) Coin() (chain.Coin, bool) {
	if d.Token.Type != TokenTypeNative {
		return chain.Coin{}, false
	}

	return chain.Coin{Denom: d.Token.DenomOrAddress, Amount: d.Amount}, true
}

// SubmissionPolicy says who may submit proposals through a pre-propose module.
type SubmissionPolicy struct {
	Anyone   *AnyoneSubmission   `json:"anyone,omitempty"`
	Specific *SpecificSubmission `json:"specific,omitempty"`
}

type AnyoneSubmission struct {
	Denylist []string `json:"denylist"`
}

type SpecificSubmission struct {
	DaoMembers bool     `json:"dao_members"`
	Allowlist  []string `json:"allowlist"`
	Denylist   []string `json:"denylist"`
}

// NewProposalData is the variant-specific content of a new proposal.
type NewProposalData interface {
	proposalData()
}

// SingleChoiceProposal is a yes/no/abstain proposal.
type SingleChoiceProposal struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Msgs        []chain.CosmosMsg `json:"msgs"`
}

func (SingleChoiceProposal) proposalData() {}

// MultipleChoiceOption is one option of a multiple choice proposal.
type MultipleChoiceOption struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Msgs        []chain.CosmosMsg `json:"msgs"`
}

// MultipleChoiceProposal is a proposal with several options. A "none of the above" option is
// added by the contract.
type MultipleChoiceProposal struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Options     []MultipleChoiceOption `json:"options"`
}

func (MultipleChoiceProposal) proposalData() {}

// VoteChoice is a variant-specific vote.
type VoteChoice interface {
	voteChoice()
}

// SingleChoiceVote is a yes/no/abstain vote.
type SingleChoiceVote string

const (
	VoteYes     SingleChoiceVote = "yes"
	VoteNo      SingleChoiceVote = "no"
	VoteAbstain SingleChoiceVote = "abstain"
)

func (SingleChoiceVote) voteChoice() {}

// Validate returns ErrUnsupportedVote for anything but yes, no or abstain.
func (v SingleChoiceVote) Validate() error {
	switch v {
	case VoteYes, VoteNo, VoteAbstain:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedVote, string(v))
	}
}

// MultipleChoiceVote selects one option by id.
type MultipleChoiceVote struct {
	OptionID uint32 `json:"option_id"`
}

func (MultipleChoiceVote) voteChoice() {}

// ProposeRequest is the input of ProposalModule.Propose.
type ProposeRequest struct {
	Data NewProposalData
	// Vote, if set, is cast by the proposer in the same transaction.
	Vote VoteChoice
	// Proposer is set when proposing on behalf of another address through a pre-propose module.
	Proposer string
	// Funds are attached to the transaction, e.g. a native deposit.
	Funds []chain.Coin
}

// ProposeResult is the outcome of a successful Propose.
type ProposeResult struct {
	// Number is the proposal number on the contract that emitted it.
	Number uint64
	// ID is the user-facing proposal identifier.
	ID string
	// Approval is true when the proposal awaits approval in a pre-propose module.
	Approval bool
	Tx       *chain.TxResponse
}

// VoteRequest is the input of ProposalModule.Vote.
type VoteRequest struct {
	ProposalNumber uint64
	Vote           VoteChoice
	Rationale      string
}

// ProposalResponse is a proposal as returned by the proposal module. Proposal holds the
// variant-specific body.
type ProposalResponse struct {
	ID       uint64          `json:"id"`
	Proposal json.RawMessage `json:"proposal"`
}

// VoteInfo is a vote cast on a proposal. Vote holds the variant-specific ballot.
type VoteInfo struct {
	Voter     string          `json:"voter"`
	Vote      json.RawMessage `json:"vote"`
	Power     sdkmath.Int     `json:"power"`
	Rationale *string         `json:"rationale,omitempty"`
}

// RationaleText returns the rationale of the vote, empty when none was given.
func (v VoteInfo) RationaleText() string {
	return pointer.DerefOrEmpty(v.Rationale)
}

// VotingPower is a voting or total power at a block height.
type VotingPower struct {
	Power  sdkmath.Int `json:"power"`
	Height uint64      `json:"height"`
}
