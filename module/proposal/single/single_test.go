package single

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/feature"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/indexer"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/internal/testutils"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/logger"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/query"
)

const (
	chainID  = "juno-1"
	propAddr = "juno1single"
	preAddr  = "juno1pre"
	voter    = "juno1voter"
)

var ref = module.ModuleRef{ChainID: chainID, Address: propAddr, Prefix: "A"}

type indexerFunc func(ctx context.Context, chainID, address, formula string, args map[string]string, out any) error

func (f indexerFunc) QueryContract(ctx context.Context, chainID, address, formula string, args map[string]string, out any) error {
	return f(ctx, chainID, address, formula, args, out)
}

// recordingQueries records the keys of every Refresh.
type recordingQueries struct {
	*query.MemoryClient
	refreshed [][]query.Key
}

func (r *recordingQueries) Refresh(ctx context.Context, keys ...query.Key) error {
	r.refreshed = append(r.refreshed, keys)
	return r.MemoryClient.Refresh(ctx, keys...)
}

func fakeChain(version string, withPrePropose bool) *testutils.FakeChain {
	fake := testutils.NewFakeChain().ContractInfo(chainID, propAddr, "crates.io:dao-proposal-single", version)
	if withPrePropose {
		fake.Respond(chainID, propAddr, "proposal_creation_policy", map[string]any{"module": map[string]string{"addr": preAddr}}).
			ContractInfo(chainID, preAddr, "crates.io:dao-pre-propose-single", version)
	} else {
		fake.Respond(chainID, propAddr, "proposal_creation_policy", map[string]any{"anyone": map[string]any{}})
	}

	return fake.Respond(chainID, propAddr, "config", map[string]any{"max_voting_period": map[string]uint64{"time": 60}})
}

func newModule(t *testing.T, fake *testutils.FakeChain, deps module.Deps) *Module {
	t.Helper()

	deps.Querier = fake
	deps.Logger = logger.Test(t)
	m := New(ref, deps)
	require.NoError(t, m.Init(t.Context()))

	return m
}

func proposedTx(contract, key, value string) func(chain.ExecuteRequest) (*chain.TxResponse, error) {
	return func(chain.ExecuteRequest) (*chain.TxResponse, error) {
		return &chain.TxResponse{TxHash: "HASH", Events: []chain.Event{chain.WasmEvent(contract, key, value)}}, nil
	}
}

func TestVariants(t *testing.T) {
	t.Parallel()

	r := module.NewRegistry()
	r.RegisterProposalModules(Variants()...)

	for _, name := range ContractNames {
		v, ok := r.ResolveProposalModuleVariant(name)
		require.True(t, ok, name)
		assert.Equal(t, VariantName, v.Name)
		m := v.New(ref, module.Deps{Querier: testutils.NewFakeChain()})
		assert.Equal(t, chain.FamilyCosmWasm, m.(*Module).Family())
	}

	v, ok := r.ResolveProposalModuleVariant(SecretContractNames[0])
	require.True(t, ok)
	assert.Equal(t, SecretVariantName, v.Name)
	m := v.New(ref, module.Deps{Querier: testutils.NewFakeChain()})
	assert.Equal(t, chain.FamilySecret, m.(*Module).Family())
}

func TestPropose_VoteOnCreationUnsupported(t *testing.T) {
	t.Parallel()

	m := newModule(t, fakeChain("2.1.0", true), module.Deps{})
	signers := testutils.NewCountingProvider(testutils.NewFakeSigner(voter))

	_, err := m.Propose(t.Context(), module.ProposeRequest{
		Data: module.SingleChoiceProposal{Title: "t", Description: "d"},
		Vote: module.VoteYes,
	}, signers)
	require.ErrorIs(t, err, module.ErrUnsupportedFeature)
	assert.Zero(t, signers.Count(), "no signer is requested")
}

func TestPropose_InvalidInput(t *testing.T) {
	t.Parallel()

	m := newModule(t, fakeChain("2.4.0", false), module.Deps{})
	signers := testutils.NewCountingProvider(testutils.NewFakeSigner(voter))

	_, err := m.Propose(t.Context(), module.ProposeRequest{Data: module.MultipleChoiceProposal{}}, signers)
	require.ErrorIs(t, err, module.ErrUnsupportedProposalData)

	_, err = m.Propose(t.Context(), module.ProposeRequest{
		Data: module.SingleChoiceProposal{},
		Vote: module.MultipleChoiceVote{OptionID: 1},
	}, signers)
	require.ErrorIs(t, err, module.ErrUnsupportedVote)

	_, err = m.Propose(t.Context(), module.ProposeRequest{
		Data: module.SingleChoiceProposal{},
		Vote: module.SingleChoiceVote("maybe"),
	}, signers)
	require.ErrorIs(t, err, module.ErrUnsupportedVote)

	assert.Zero(t, signers.Count())
}

func TestPropose_WithVoteThroughPrePropose(t *testing.T) {
	t.Parallel()

	m := newModule(t, fakeChain("2.4.0", true), module.Deps{})
	signer := testutils.NewFakeSigner(voter)
	signer.Respond = proposedTx(propAddr, "proposal_id", "12")

	bank := chain.NewBankSendMsg("juno1to", chain.NewCoin("ujuno", 10))
	res, err := m.Propose(t.Context(), module.ProposeRequest{
		Data:  &module.SingleChoiceProposal{Title: "Pay", Description: "Pay juno1to", Msgs: []chain.CosmosMsg{bank}},
		Vote:  module.VoteYes,
		Funds: []chain.Coin{chain.NewCoin("ujuno", 100)},
	}, chain.StaticSigner(signer))
	require.NoError(t, err)
	assert.Equal(t, "A12", res.ID)
	assert.Equal(t, uint64(12), res.Number)

	reqs := signer.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, preAddr, reqs[0].Contract)
	assert.Equal(t, []chain.Coin{chain.NewCoin("ujuno", 100)}, reqs[0].Funds)
	assert.JSONEq(t, `{"propose":{"msg":{"propose":{
		"title":"Pay","description":"Pay juno1to","vote":"yes",
		"msgs":[{"bank":{"send":{"to_address":"juno1to","amount":[{"denom":"ujuno","amount":"10"}]}}}]
	}}}}`, string(reqs[0].Msg))
}

func TestPropose_V1Direct(t *testing.T) {
	t.Parallel()

	fake := testutils.NewFakeChain().ContractInfo(chainID, propAddr, "crates.io:cw-proposal-single", "0.1.0")
	m := newModule(t, fake, module.Deps{})
	signer := testutils.NewFakeSigner(voter)
	signer.Respond = proposedTx(propAddr, "proposal_id", "1")

	res, err := m.Propose(t.Context(), module.ProposeRequest{
		Data: module.SingleChoiceProposal{Title: "t", Description: "d"},
	}, chain.StaticSigner(signer))
	require.NoError(t, err)
	assert.Equal(t, "A1", res.ID)
	assert.JSONEq(t, `{"propose":{"title":"t","description":"d","msgs":[]}}`, string(signer.Requests()[0].Msg))

	_, err = m.Propose(t.Context(), module.ProposeRequest{
		Data:     module.SingleChoiceProposal{Title: "t"},
		Proposer: "juno1other",
	}, chain.StaticSigner(signer))
	require.ErrorIs(t, err, module.ErrUnsupportedFeature)
}

func TestVote_RefreshesOnlyThatVote(t *testing.T) {
	t.Parallel()

	fake := fakeChain("2.4.0", false)
	var chainVote string
	fake.Handle(chainID, propAddr, "get_vote", func(args json.RawMessage) (any, error) {
		var a struct {
			Voter string `json:"voter"`
		}
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
		if a.Voter != voter || chainVote == "" {
			return map[string]any{"vote": nil}, nil
		}

		return map[string]any{"vote": map[string]any{"voter": voter, "vote": chainVote, "power": "5"}}, nil
	})

	queries := &recordingQueries{MemoryClient: query.NewMemoryClient()}
	m := newModule(t, fake, module.Deps{Queries: queries})

	mine, err := query.Fetch(t.Context(), queries, m.VoteQuery(3, voter))
	require.NoError(t, err)
	assert.Nil(t, mine)
	other, err := query.Fetch(t.Context(), queries, m.VoteQuery(3, "juno1other"))
	require.NoError(t, err)
	assert.Nil(t, other)
	otherCalls := fake.Calls(propAddr, "get_vote")

	chainVote = "no"
	signer := testutils.NewFakeSigner(voter)
	_, err = m.Vote(t.Context(), module.VoteRequest{ProposalNumber: 3, Vote: module.VoteNo, Rationale: "too expensive"},
		chain.StaticSigner(signer))
	require.NoError(t, err)
	assert.JSONEq(t, `{"vote":{"proposal_id":3,"vote":"no","rationale":"too expensive"}}`, string(signer.Requests()[0].Msg))

	require.Len(t, queries.refreshed, 1)
	assert.Equal(t, m.VoteRefreshKeys(VoteFormula, 3, voter), queries.refreshed[0])
	assert.Equal(t, query.NamespaceIndexer, queries.refreshed[0][0].Namespace)
	assert.Equal(t, query.NamespaceChain, queries.refreshed[0][1].Namespace)

	// Only the voter's vote was refetched.
	assert.Equal(t, otherCalls+1, fake.Calls(propAddr, "get_vote"))
	mine, ok := query.Cached(queries, m.VoteQuery(3, voter))
	require.True(t, ok)
	require.NotNil(t, mine)
	assert.JSONEq(t, `"no"`, string(mine.Vote))
}

func TestVoteQuery_IndexerFirst(t *testing.T) {
	t.Parallel()

	fake := fakeChain("2.4.0", false).
		Respond(chainID, propAddr, "get_vote", map[string]any{
			"vote": map[string]any{"voter": voter, "vote": "abstain", "power": "1"},
		})

	var formulas []string
	idx := indexerFunc(func(_ context.Context, _, address, formula string, args map[string]string, out any) error {
		formulas = append(formulas, formula)
		if args["proposalId"] == "1" {
			return json.Unmarshal([]byte(`{"voter":"juno1voter","vote":"yes","power":"9"}`), out)
		}

		return indexer.ErrNotFound
	})
	m := newModule(t, fake, module.Deps{Indexer: idx})
	queries := m.Deps().Queries

	vote, err := query.Fetch(t.Context(), queries, m.VoteQuery(1, voter))
	require.NoError(t, err)
	assert.JSONEq(t, `"yes"`, string(vote.Vote))
	assert.Zero(t, fake.Calls(propAddr, "get_vote"))

	vote, err = query.Fetch(t.Context(), queries, m.VoteQuery(2, voter))
	require.NoError(t, err)
	assert.JSONEq(t, `"abstain"`, string(vote.Vote))
	assert.Equal(t, 1, fake.Calls(propAddr, "get_vote"))
	assert.Equal(t, []string{VoteFormula, VoteFormula}, formulas)

	assert.False(t, m.VoteQuery(1, "").Enabled())
}

func TestVote_IndexerWithoutVote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
	}{
		{name: "disabled", err: indexer.ErrDisabled},
		{name: "not indexed yet", err: indexer.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fake := fakeChain("2.4.0", false).
				Respond(chainID, propAddr, "get_vote", map[string]any{"vote": nil})

			var indexerCalls int
			idx := indexerFunc(func(context.Context, string, string, string, map[string]string, any) error {
				indexerCalls++
				return tt.err
			})
			lggr, logs := logger.TestObserved(t, zapcore.WarnLevel)
			m := New(ref, module.Deps{Querier: fake, Indexer: idx, Logger: lggr})
			require.NoError(t, m.Init(t.Context()))
			queries := m.Deps().Queries

			vote, err := query.Fetch(t.Context(), queries, m.VoteQuery(3, voter))
			require.NoError(t, err)
			assert.Nil(t, vote)
			assert.Equal(t, 1, indexerCalls)

			require.NoError(t, queries.Refresh(t.Context(), m.VoteRefreshKeys(VoteFormula, 3, voter)...))
			assert.Equal(t, 2, indexerCalls)

			_, err = m.Vote(t.Context(), module.VoteRequest{ProposalNumber: 3, Vote: module.VoteYes},
				chain.StaticSigner(testutils.NewFakeSigner(voter)))
			require.NoError(t, err)
			assert.Equal(t, 3, indexerCalls)
			assert.Zero(t, logs.FilterMessage("Failed to refresh vote after voting").Len())
		})
	}
}

func TestSecret_PassesCodeHashes(t *testing.T) {
	t.Parallel()

	const (
		secretProp = "secret1prop"
		secretPre  = "secret1pre"
	)
	fake := testutils.NewFakeChain().
		ContractInfo("secret-4", secretProp, "crates.io:secret-dao-proposal-single", "2.4.0").
		Respond("secret-4", secretProp, "proposal_creation_policy", map[string]any{"module": map[string]string{"addr": secretPre}}).
		Respond("secret-4", secretProp, "config", map[string]any{}).
		ContractInfo("secret-4", secretPre, "crates.io:secret-dao-pre-propose-single", "2.4.0").
		Respond("secret-4", secretPre, "config", map[string]any{
			"deposit_info": map[string]any{
				"denom":         map[string]any{"snip20": []string{"secret1snip", "sniphash"}},
				"amount":        "3",
				"refund_policy": "always",
			},
		}).
		SetCodeHash(secretProp, "prophash").
		SetCodeHash(secretPre, "prehash")

	m := NewSecret(module.ModuleRef{ChainID: "secret-4", Address: secretProp, Prefix: "A"},
		module.Deps{Querier: fake, CodeHashes: fake, Logger: logger.Test(t)})
	require.NoError(t, m.Init(t.Context()))

	signer := testutils.NewFakeSigner("secret1me")
	signer.Respond = proposedTx(secretProp, "proposal_id", "4")
	_, err := m.Propose(t.Context(), module.ProposeRequest{Data: module.SingleChoiceProposal{Title: "t"}}, chain.StaticSigner(signer))
	require.NoError(t, err)
	_, err = m.Execute(t.Context(), 4, chain.StaticSigner(signer))
	require.NoError(t, err)

	reqs := signer.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "prehash", reqs[0].CodeHash)
	assert.Equal(t, "prophash", reqs[1].CodeHash)

	q, err := m.DepositInfoQuery()
	require.NoError(t, err)
	deposit, err := query.Fetch(t.Context(), m.Deps().Queries, q)
	require.NoError(t, err)
	require.NotNil(t, deposit)
	assert.Equal(t, module.GenericToken{Type: module.TokenTypeCw20, DenomOrAddress: "secret1snip"}, deposit.Token)
}

func TestInstantiateMsg(t *testing.T) {
	t.Parallel()

	cfg := InstantiateConfig{
		Threshold:       Threshold{ThresholdQuorum: &ThresholdQuorum{Threshold: module.Majority(), Quorum: module.Percent("0.2")}},
		MaxVotingPeriod: module.Seconds(604800),
		AllowRevoting:   true,
	}

	v1, err := InstantiateMsg(feature.V1, cfg)
	require.NoError(t, err)
	b, err := json.Marshal(v1)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"threshold":{"threshold_quorum":{"threshold":{"majority":{}},"quorum":{"percent":"0.2"}}},
		"max_voting_period":{"time":604800},
		"only_members_execute":false,
		"allow_revoting":true
	}`, string(b))

	v2, err := InstantiateMsg(feature.V230, cfg)
	require.NoError(t, err)
	b, err = json.Marshal(v2)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"threshold":{"threshold_quorum":{"threshold":{"majority":{}},"quorum":{"percent":"0.2"}}},
		"max_voting_period":{"time":604800},
		"only_members_execute":false,
		"allow_revoting":true,
		"pre_propose_info":{"anyone_may_propose":{}},
		"close_proposal_on_execution_failure":false
	}`, string(b))

	withVeto := cfg
	withVeto.Veto = &module.VetoConfig{Vetoer: "juno1vetoer", TimelockDuration: module.Blocks(5)}
	_, err = InstantiateMsg(feature.V230, withVeto)
	require.ErrorIs(t, err, module.ErrUnsupportedFeature)
	_, err = InstantiateMsg(feature.V240, withVeto)
	require.NoError(t, err)

	withPre := cfg
	withPre.PrePropose = &module.ModuleInstantiateInfo{CodeID: 3, Label: "pre"}
	_, err = InstantiateMsg(feature.V1, withPre)
	require.ErrorIs(t, err, module.ErrUnsupportedFeature)
}
