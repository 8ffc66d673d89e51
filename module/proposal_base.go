package module

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/feature"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/indexer"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/logger"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/query"
)

// Attribute keys of the proposal number in propose transaction events.
const (
	ProposalIDAttribute = "proposal_id"
	ApprovalIDAttribute = "id"
)

type proposalModuleState struct {
	version      feature.ContractVersion
	contractName string
	codeHash     string
	prePropose   *PreProposeModule
	veto         *VetoConfig
}

// ProposalModuleBase implements the parts of a proposal module that do not depend on the
// variant: initialization, derived fields, transaction submission and the shared queries.
// Variants embed it.
type ProposalModuleBase struct {
	ref    ModuleRef
	family chain.Family
	deps   Deps
	lggr   logger.Logger

	mu          sync.Mutex
	initialized atomic.Bool
	state       proposalModuleState
}

// NewProposalModuleBase returns an uninitialized base for the module at ref.
func NewProposalModuleBase(ref ModuleRef, family chain.Family, deps Deps) *ProposalModuleBase {
	deps = deps.WithDefaults()

	return &ProposalModuleBase{
		ref:    ref,
		family: family,
		deps:   deps,
		lggr: deps.Logger.Named("proposal_module").With(
			"chain_id", ref.ChainID, "address", ref.Address, "prefix", ref.Prefix),
	}
}

// Ref returns the module identity.
func (b *ProposalModuleBase) Ref() ModuleRef {
	return b.ref
}

func (b *ProposalModuleBase) ChainID() string {
	return b.ref.ChainID
}

func (b *ProposalModuleBase) Address() string {
	return b.ref.Address
}

// Prefix returns the prefix of the module's proposal ids.
func (b *ProposalModuleBase) Prefix() string {
	return b.ref.Prefix
}

func (b *ProposalModuleBase) Family() chain.Family {
	return b.family
}

// Deps returns the collaborators of the module.
func (b *ProposalModuleBase) Deps() Deps {
	return b.deps
}

func (b *ProposalModuleBase) Logger() logger.Logger {
	return b.lggr
}

// Initialized reports whether Init has succeeded. It never reverts to false.
func (b *ProposalModuleBase) Initialized() bool {
	return b.initialized.Load()
}

// Init fetches the contract info, then the pre-propose module and veto config when the version
// supports them. Failing to fetch the optional parts leaves them absent. Fields are committed
// together at the end; a failed Init leaves the module uninitialized.
func (b *ProposalModuleBase) Init(ctx context.Context) error {
	if b.initialized.Load() {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized.Load() {
		return nil
	}

	info, err := query.Fetch(ctx, b.deps.Queries, b.InfoQuery())
	if err != nil {
		return fmt.Errorf("failed to fetch contract info of proposal module %s: %w", b.ref, err)
	}

	st := proposalModuleState{
		version:      parseVersion(b.lggr, info),
		contractName: info.Contract,
	}

	if b.family == chain.FamilySecret {
		st.codeHash, err = b.codeHash(ctx, b.ref.Address)
		if err != nil {
			return err
		}
	}

	if feature.Supports(feature.PrePropose, st.version) {
		st.prePropose = b.loadPrePropose(ctx)
	}
	if feature.Supports(feature.Veto, st.version) {
		st.veto = b.loadVeto(ctx)
	}

	b.state = st
	b.initialized.Store(true)

	b.lggr.Debugw("Initialized proposal module",
		"contract", st.contractName, "version", st.version.String(), "pre_propose", st.prePropose != nil)

	return nil
}

func parseVersion(lggr logger.Logger, info ContractInfo) feature.ContractVersion {
	v, ok := feature.ContractVersionOrUnknown(info.Version)
	if !ok {
		lggr.Warnw("Unparseable contract version, treating as unknown",
			"contract", info.Contract, "version", info.Version)
	}

	return v
}

func (b *ProposalModuleBase) codeHash(ctx context.Context, address string) (string, error) {
	if b.deps.CodeHashes == nil {
		return "", fmt.Errorf("code hash querier required for %s on %s", address, b.ref.ChainID)
	}

	hash, err := b.deps.CodeHashes.ContractCodeHash(ctx, b.ref.ChainID, address)
	if err != nil {
		return "", fmt.Errorf("failed to fetch code hash of %s: %w", address, err)
	}

	return hash, nil
}

// loadPrePropose resolves the module named by the creation policy. Errors collapse to nil.
func (b *ProposalModuleBase) loadPrePropose(ctx context.Context) *PreProposeModule {
	policy, err := query.Fetch(ctx, b.deps.Queries, b.ProposalCreationPolicyQuery())
	if err != nil {
		b.lggr.Warnw("Failed to fetch proposal creation policy, assuming no pre-propose module", "error", err)
		return nil
	}
	if policy.Module == "" {
		return nil
	}

	info, err := query.Fetch(ctx, b.deps.Queries, ContractInfoQuery(b.deps.Querier, b.ref.ChainID, policy.Module))
	if err != nil {
		b.lggr.Warnw("Failed to fetch pre-propose module info, assuming no pre-propose module",
			"pre_propose", policy.Module, "error", err)
		return nil
	}

	pre := &PreProposeModule{
		ChainID:      b.ref.ChainID,
		Address:      policy.Module,
		ContractName: info.Contract,
		Version:      parseVersion(b.lggr, info),
		Family:       b.family,
	}
	if b.family == chain.FamilySecret {
		if pre.CodeHash, err = b.codeHash(ctx, policy.Module); err != nil {
			b.lggr.Warnw("Failed to fetch pre-propose code hash, assuming no pre-propose module", "error", err)
			return nil
		}
	}

	return pre
}

// loadVeto reads the veto field of the module config. Errors collapse to nil.
func (b *ProposalModuleBase) loadVeto(ctx context.Context) *VetoConfig {
	raw, err := query.Fetch(ctx, b.deps.Queries, b.ConfigQuery())
	if err != nil {
		b.lggr.Warnw("Failed to fetch config, assuming no veto", "error", err)
		return nil
	}

	var cfg struct {
		Veto *VetoConfig `json:"veto"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		b.lggr.Warnw("Failed to decode veto config, assuming no veto", "error", err)
		return nil
	}

	return cfg.Veto
}

func (b *ProposalModuleBase) loaded() (proposalModuleState, error) {
	if !b.initialized.Load() {
		return proposalModuleState{}, fmt.Errorf("%w: proposal module %s", ErrNotInitialized, b.ref)
	}

	return b.state, nil
}

// Version returns the contract version.
func (b *ProposalModuleBase) Version() (feature.ContractVersion, error) {
	st, err := b.loaded()
	return st.version, err
}

// ContractName returns the cw2 contract name.
func (b *ProposalModuleBase) ContractName() (string, error) {
	st, err := b.loaded()
	return st.contractName, err
}

// CodeHash returns the contract code hash. It is empty outside Secret Network.
func (b *ProposalModuleBase) CodeHash() (string, error) {
	st, err := b.loaded()
	return st.codeHash, err
}

// PrePropose returns the attached pre-propose module, or nil.
func (b *ProposalModuleBase) PrePropose() (*PreProposeModule, error) {
	st, err := b.loaded()
	return st.prePropose, err
}

// Veto returns the veto configuration, or nil.
func (b *ProposalModuleBase) Veto() (*VetoConfig, error) {
	st, err := b.loaded()
	return st.veto, err
}

// Supports reports whether the deployed version supports f.
func (b *ProposalModuleBase) Supports(f feature.Feature) (bool, error) {
	st, err := b.loaded()
	if err != nil {
		return false, err
	}

	return feature.Supports(f, st.version), nil
}

// RequireFeature returns ErrUnsupportedFeature when the deployed version does not support f.
func (b *ProposalModuleBase) RequireFeature(f feature.Feature) error {
	ok, err := b.Supports(f)
	if err != nil {
		return err
	}
	if !ok {
		st, _ := b.loaded()
		return fmt.Errorf("%w: %s requires %s, proposal module %s is %s",
			ErrUnsupportedFeature, f, minimumVersionString(f), b.ref, st.version)
	}

	return nil
}

func minimumVersionString(f feature.Feature) string {
	if v, ok := feature.MinimumVersion(f); ok {
		return "v" + v.String()
	}

	return "an unknown version"
}

// execute submits msg to contract with a signer obtained from signers. It is never retried.
func (b *ProposalModuleBase) execute(
	ctx context.Context, signers chain.SignerProvider, action, contract, codeHash string, msg any, funds []chain.Coin,
) (chain.Signer, *chain.TxResponse, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode %s msg: %w", action, err)
	}
	if signers == nil {
		return nil, nil, chain.ErrNoSigner
	}

	signer, err := signers.Signer(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get signer for %s: %w", action, err)
	}

	tx, err := signer.Execute(ctx, chain.ExecuteRequest{
		Contract: contract,
		Msg:      raw,
		Funds:    funds,
		CodeHash: codeHash,
	})
	b.deps.Metrics.Transaction(action, err)
	if err != nil {
		return signer, nil, fmt.Errorf("%s on %s failed: %w", action, contract, err)
	}

	b.lggr.Infow("Executed transaction",
		"action", action, "contract", contract, "funds", chain.Coins(funds).String(), "tx_hash", tx.TxHash)

	return signer, tx, nil
}

// SubmitProposal sends a propose message carrying payload, through the pre-propose module when
// one is attached, and extracts the new proposal number from the transaction events.
func (b *ProposalModuleBase) SubmitProposal(
	ctx context.Context, signers chain.SignerProvider, payload any, funds []chain.Coin,
) (*ProposeResult, error) {
	st, err := b.loaded()
	if err != nil {
		return nil, err
	}

	contract, codeHash := b.ref.Address, st.codeHash
	var msg any = map[string]any{"propose": payload}
	if pre := st.prePropose; pre != nil {
		contract, codeHash = pre.Address, pre.CodeHash
		msg = map[string]any{"propose": map[string]any{"msg": msg}}
	}

	_, tx, err := b.execute(ctx, signers, "propose", contract, codeHash, msg, funds)
	if err != nil {
		return nil, err
	}

	approval := st.prePropose != nil && st.prePropose.IsApproval()
	emitter, key := b.ref.Address, ProposalIDAttribute
	if approval {
		emitter, key = st.prePropose.Address, ApprovalIDAttribute
	}

	value, ok := tx.FindWasmAttribute(emitter, key)
	if !ok {
		return nil, fmt.Errorf("%w: no %q attribute from %s in tx %s", ErrProposalIDNotFound, key, emitter, tx.TxHash)
	}
	number, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: attribute %q is %q in tx %s", ErrProposalIDNotFound, key, value, tx.TxHash)
	}

	return &ProposeResult{
		Number:   number,
		ID:       ComposeProposalID(b.ref.Prefix, number, approval),
		Approval: approval,
		Tx:       tx,
	}, nil
}

// SubmitVote votes on a proposal, then refreshes the cached vote of the voter, indexer layer
// first. A failed refresh is logged and does not fail the vote.
func (b *ProposalModuleBase) SubmitVote(
	ctx context.Context, signers chain.SignerProvider, formula string, req VoteRequest, vote any,
) (*chain.TxResponse, error) {
	st, err := b.loaded()
	if err != nil {
		return nil, err
	}

	body := map[string]any{"proposal_id": req.ProposalNumber, "vote": vote}
	if req.Rationale != "" {
		body["rationale"] = req.Rationale
	}

	signer, tx, err := b.execute(ctx, signers, "vote", b.ref.Address, st.codeHash, map[string]any{"vote": body}, nil)
	if err != nil {
		return nil, err
	}

	keys := b.VoteRefreshKeys(formula, req.ProposalNumber, signer.Address())
	if err := b.deps.Queries.Refresh(ctx, keys...); err != nil {
		b.lggr.Warnw("Failed to refresh vote after voting",
			"proposal_number", req.ProposalNumber, "voter", signer.Address(), "error", err)
	}

	return tx, nil
}

// Execute executes a passed proposal.
func (b *ProposalModuleBase) Execute(
	ctx context.Context, proposalNumber uint64, signers chain.SignerProvider,
) (*chain.TxResponse, error) {
	return b.proposalAction(ctx, "execute", proposalNumber, signers)
}

// Close closes a rejected proposal.
func (b *ProposalModuleBase) Close(
	ctx context.Context, proposalNumber uint64, signers chain.SignerProvider,
) (*chain.TxResponse, error) {
	return b.proposalAction(ctx, "close", proposalNumber, signers)
}

func (b *ProposalModuleBase) proposalAction(
	ctx context.Context, action string, proposalNumber uint64, signers chain.SignerProvider,
) (*chain.TxResponse, error) {
	st, err := b.loaded()
	if err != nil {
		return nil, err
	}

	msg := map[string]any{action: map[string]any{"proposal_id": proposalNumber}}
	_, tx, err := b.execute(ctx, signers, action, b.ref.Address, st.codeHash, msg, nil)

	return tx, err
}

// InfoQuery returns the cw2 info query of the module.
func (b *ProposalModuleBase) InfoQuery() query.Query[ContractInfo] {
	return ContractInfoQuery(b.deps.Querier, b.ref.ChainID, b.ref.Address)
}

// ProposalQuery implements ProposalModule.
func (b *ProposalModuleBase) ProposalQuery(proposalNumber uint64) query.Query[ProposalResponse] {
	return ContractQuery[ProposalResponse](b.deps.Querier, b.ref.ChainID, b.ref.Address, "proposal",
		map[string]any{"proposal_id": proposalNumber})
}

// ListVotesQuery implements ProposalModule.
func (b *ProposalModuleBase) ListVotesQuery(proposalNumber uint64, startAfter string, limit uint32) query.Query[[]VoteInfo] {
	args := map[string]any{"proposal_id": proposalNumber}
	if startAfter != "" {
		args["start_after"] = startAfter
	}
	if limit > 0 {
		args["limit"] = limit
	}
	q := ContractQuery[struct {
		Votes []VoteInfo `json:"votes"`
	}](b.deps.Querier, b.ref.ChainID, b.ref.Address, "list_votes", args)

	return query.Query[[]VoteInfo]{
		Key:      q.Key,
		Disabled: q.Disabled,
		Fetch: func(ctx context.Context) ([]VoteInfo, error) {
			res, err := q.Fetch(ctx)
			return res.Votes, err
		},
	}
}

// ProposalCountQuery implements ProposalModule.
func (b *ProposalModuleBase) ProposalCountQuery() query.Query[uint64] {
	return ContractQuery[uint64](b.deps.Querier, b.ref.ChainID, b.ref.Address, "proposal_count", nil)
}

// ConfigQuery implements ProposalModule.
func (b *ProposalModuleBase) ConfigQuery() query.Query[json.RawMessage] {
	return ContractQuery[json.RawMessage](b.deps.Querier, b.ref.ChainID, b.ref.Address, "config", nil)
}

// ProposalCreationPolicyQuery implements ProposalModule.
func (b *ProposalModuleBase) ProposalCreationPolicyQuery() query.Query[ProposalCreationPolicy] {
	return ContractQuery[ProposalCreationPolicy](b.deps.Querier, b.ref.ChainID, b.ref.Address,
		"proposal_creation_policy", nil)
}

// MaxVotingPeriodQuery implements ProposalModule.
func (b *ProposalModuleBase) MaxVotingPeriodQuery() query.Query[Duration] {
	cfg := b.ConfigQuery()

	return query.Query[Duration]{
		Key:      query.ChainKey(b.ref.ChainID, b.ref.Address, "config#max_voting_period", nil),
		Disabled: cfg.Disabled,
		Fetch: func(ctx context.Context) (Duration, error) {
			raw, err := query.Fetch(ctx, b.deps.Queries, cfg)
			if err != nil {
				return Duration{}, err
			}

			var c struct {
				MaxVotingPeriod Duration `json:"max_voting_period"`
			}
			if err := json.Unmarshal(raw, &c); err != nil {
				return Duration{}, fmt.Errorf("failed to decode config: %w", err)
			}

			return c.MaxVotingPeriod, nil
		},
	}
}

// DepositInfoQuery implements ProposalModule. Without a pre-propose module the query resolves
// to nil immediately.
func (b *ProposalModuleBase) DepositInfoQuery() (query.Query[*DepositInfo], error) {
	st, err := b.loaded()
	if err != nil {
		return query.Query[*DepositInfo]{}, err
	}

	if st.prePropose == nil {
		return query.Query[*DepositInfo]{
			Key:   query.ChainKey(b.ref.ChainID, b.ref.Address, "deposit_info", nil),
			Fetch: func(context.Context) (*DepositInfo, error) { return nil, nil },
		}, nil
	}

	return st.prePropose.DepositInfoQuery(b.deps.Querier), nil
}

// SubmissionPolicyQuery returns who may submit proposals through the pre-propose module.
func (b *ProposalModuleBase) SubmissionPolicyQuery() (query.Query[SubmissionPolicy], error) {
	st, err := b.loaded()
	if err != nil {
		return query.Query[SubmissionPolicy]{}, err
	}
	if st.prePropose == nil {
		return query.Query[SubmissionPolicy]{}, fmt.Errorf("%w: proposal module %s", ErrNoPrePropose, b.ref)
	}

	return st.prePropose.SubmissionPolicyQuery(b.deps.Querier), nil
}

// VoteQueryWithIndexer returns the vote of voter on a proposal, asking the indexer formula
// first and falling back to the chain's get_vote query. A disabled indexer or one without the
// vote caches a nil indexer answer.
func (b *ProposalModuleBase) VoteQueryWithIndexer(formula string, proposalNumber uint64, voter string) query.Query[*VoteInfo] {
	indexerKey, chainKey := b.voteKeys(formula, proposalNumber, voter)
	chainQuery := ContractQuery[struct {
		Vote *VoteInfo `json:"vote"`
	}](b.deps.Querier, b.ref.ChainID, b.ref.Address, "get_vote", chainKey.Args)

	indexerQuery := query.Query[*VoteInfo]{
		Key: indexerKey,
		Fetch: func(ctx context.Context) (*VoteInfo, error) {
			var vote *VoteInfo
			err := b.deps.Indexer.QueryContract(ctx, b.ref.ChainID, b.ref.Address, formula, map[string]string{
				"proposalId": strconv.FormatUint(proposalNumber, 10),
				"voter":      voter,
			}, &vote)
			if errors.Is(err, indexer.ErrDisabled) || errors.Is(err, indexer.ErrNotFound) {
				return nil, nil
			}

			return vote, err
		},
	}

	return query.Query[*VoteInfo]{
		Key:      chainKey,
		Disabled: voter == "" || chainQuery.Disabled,
		Fetch: func(ctx context.Context) (*VoteInfo, error) {
			vote, err := query.Fetch(ctx, b.deps.Queries, indexerQuery)
			if err == nil && vote != nil {
				return vote, nil
			}
			if err != nil && !errors.Is(err, context.Canceled) {
				b.lggr.Debugw("Indexer vote unavailable, querying chain", "formula", formula, "error", err)
			}

			res, err := chainQuery.Fetch(ctx)
			return res.Vote, err
		},
	}
}

// VoteRefreshKeys returns the cache keys of one voter's vote, indexer layer first.
func (b *ProposalModuleBase) VoteRefreshKeys(formula string, proposalNumber uint64, voter string) []query.Key {
	indexerKey, chainKey := b.voteKeys(formula, proposalNumber, voter)
	return []query.Key{indexerKey, chainKey}
}

func (b *ProposalModuleBase) voteKeys(formula string, proposalNumber uint64, voter string) (query.Key, query.Key) {
	indexerKey := query.IndexerKey(b.ref.ChainID, b.ref.Address, formula, map[string]any{
		"proposalId": proposalNumber,
		"voter":      voter,
	})
	chainKey := query.ChainKey(b.ref.ChainID, b.ref.Address, "get_vote", map[string]any{
		"proposal_id": proposalNumber,
		"voter":       voter,
	})

	return indexerKey, chainKey
}
