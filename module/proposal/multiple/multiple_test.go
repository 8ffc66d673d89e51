package multiple

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/feature"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/internal/testutils"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/logger"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/query"
)

const (
	chainID  = "osmosis-1"
	propAddr = "osmo1multiple"
	preAddr  = "osmo1approval"
	voter    = "osmo1voter"
)

var ref = module.ModuleRef{ChainID: chainID, Address: propAddr, Prefix: "B", Index: 1}

func newModule(t *testing.T, fake *testutils.FakeChain) *Module {
	t.Helper()

	m := New(ref, module.Deps{Querier: fake, Logger: logger.Test(t)})
	require.NoError(t, m.Init(t.Context()))

	return m
}

func twoOptions() module.MultipleChoiceProposal {
	return module.MultipleChoiceProposal{
		Title:       "Color",
		Description: "Pick one",
		Options: []module.MultipleChoiceOption{
			{Title: "Red", Description: "red"},
			{Title: "Blue", Description: "blue"},
		},
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
	}

	v, ok := r.ResolveProposalModuleVariant("crates.io:secret-dao-proposal-multiple")
	require.True(t, ok)
	assert.Equal(t, chain.FamilySecret, v.New(ref, module.Deps{}).(*Module).Family())

	_, ok = r.ResolveProposalModuleVariant("crates.io:dao-proposal-single")
	assert.False(t, ok)
}

func TestPropose_ApprovalFlow(t *testing.T) {
	t.Parallel()

	fake := testutils.NewFakeChain().
		ContractInfo(chainID, propAddr, "crates.io:dao-proposal-multiple", "2.5.0").
		Respond(chainID, propAddr, "proposal_creation_policy", map[string]any{"module": map[string]string{"addr": preAddr}}).
		Respond(chainID, propAddr, "config", map[string]any{}).
		ContractInfo(chainID, preAddr, "crates.io:dao-pre-propose-approval-multiple", "2.5.0")
	m := newModule(t, fake)

	pre, err := m.PrePropose()
	require.NoError(t, err)
	require.NotNil(t, pre)
	assert.True(t, pre.IsApproval())

	signer := testutils.NewFakeSigner(voter)
	signer.Respond = func(chain.ExecuteRequest) (*chain.TxResponse, error) {
		return &chain.TxResponse{Events: []chain.Event{
			chain.WasmEvent(preAddr, "id", "7"),
			chain.WasmEvent(propAddr, "proposal_id", "99"),
		}}, nil
	}

	res, err := m.Propose(t.Context(), module.ProposeRequest{Data: twoOptions(), Vote: module.MultipleChoiceVote{OptionID: 1}},
		chain.StaticSigner(signer))
	require.NoError(t, err)
	assert.True(t, res.Approval)
	assert.Equal(t, "B*7", res.ID)
	assert.Equal(t, uint64(7), res.Number)

	reqs := signer.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, preAddr, reqs[0].Contract)
	assert.JSONEq(t, `{"propose":{"msg":{"propose":{
		"title":"Color","description":"Pick one",
		"choices":{"options":[
			{"title":"Red","description":"red","msgs":[]},
			{"title":"Blue","description":"blue","msgs":[]}
		]},
		"vote":{"option_id":1}
	}}}}`, string(reqs[0].Msg))
}

func TestPropose_Invalid(t *testing.T) {
	t.Parallel()

	fake := testutils.NewFakeChain().
		ContractInfo(chainID, propAddr, "crates.io:dao-proposal-multiple", "2.3.0").
		Respond(chainID, propAddr, "proposal_creation_policy", map[string]any{"anyone": map[string]any{}}).
		Respond(chainID, propAddr, "config", map[string]any{})
	m := newModule(t, fake)
	signers := testutils.NewCountingProvider(testutils.NewFakeSigner(voter))

	tests := []struct {
		name    string
		req     module.ProposeRequest
		wantErr error
	}{
		{
			name:    "single choice data",
			req:     module.ProposeRequest{Data: module.SingleChoiceProposal{Title: "t"}},
			wantErr: module.ErrUnsupportedProposalData,
		},
		{
			name:    "one option",
			req:     module.ProposeRequest{Data: module.MultipleChoiceProposal{Options: []module.MultipleChoiceOption{{Title: "only"}}}},
			wantErr: module.ErrUnsupportedProposalData,
		},
		{
			name:    "single choice vote",
			req:     module.ProposeRequest{Data: twoOptions(), Vote: module.VoteYes},
			wantErr: module.ErrUnsupportedVote,
		},
		{
			name:    "vote before 2.4.0",
			req:     module.ProposeRequest{Data: twoOptions(), Vote: module.MultipleChoiceVote{}},
			wantErr: module.ErrUnsupportedFeature,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := m.Propose(t.Context(), tt.req, signers)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Cleanup(func() {
		assert.Zero(t, signers.Count())
	})
}

func TestVote(t *testing.T) {
	t.Parallel()

	fake := testutils.NewFakeChain().
		ContractInfo(chainID, propAddr, "crates.io:dao-proposal-multiple", "2.4.0").
		Respond(chainID, propAddr, "proposal_creation_policy", map[string]any{"anyone": map[string]any{}}).
		Respond(chainID, propAddr, "config", map[string]any{}).
		Respond(chainID, propAddr, "get_vote", map[string]any{"vote": nil})
	m := newModule(t, fake)
	signer := testutils.NewFakeSigner(voter)

	_, err := m.Vote(t.Context(), module.VoteRequest{ProposalNumber: 2, Vote: module.VoteYes}, chain.StaticSigner(signer))
	require.ErrorIs(t, err, module.ErrUnsupportedVote)
	assert.Empty(t, signer.Requests())

	_, err = m.Vote(t.Context(), module.VoteRequest{ProposalNumber: 2, Vote: &module.MultipleChoiceVote{OptionID: 2}},
		chain.StaticSigner(signer))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"vote": map[string]any{"proposal_id": float64(2), "vote": map[string]any{"option_id": float64(2)}},
	}, signer.LastMsg())

	vote, err := query.Fetch(t.Context(), m.Deps().Queries, m.VoteQuery(2, voter))
	require.NoError(t, err)
	assert.Nil(t, vote)
}

func TestDecodeProposal(t *testing.T) {
	t.Parallel()

	res := module.ProposalResponse{ID: 4, Proposal: json.RawMessage(`{
		"title":"Color","description":"Pick one","proposer":"osmo1me","start_height":10,
		"expiration":{"at_time":"1700000000000000000"},
		"choices":[
			{"index":0,"option_type":"standard","title":"Red","description":"red","msgs":[],"vote_count":"3"},
			{"index":1,"option_type":"none","title":"None of the above","description":"","msgs":[],"vote_count":"0"}
		],
		"status":"open",
		"voting_strategy":{"single_choice":{"quorum":{"majority":{}}}},
		"total_power":"10","allow_revoting":false
	}`)}

	p, err := DecodeProposal(res)
	require.NoError(t, err)
	require.Len(t, p.Choices, 2)
	assert.Equal(t, OptionNone, p.Choices[1].OptionType)
	assert.Equal(t, "3", p.Choices[0].VoteCount.String())
	require.NotNil(t, p.VotingStrategy.SingleChoice)
	assert.NotNil(t, p.VotingStrategy.SingleChoice.Quorum.Majority)

	_, err = DecodeProposal(module.ProposalResponse{ID: 5, Proposal: json.RawMessage(`[]`)})
	require.Error(t, err)
}

func TestInstantiateMsg(t *testing.T) {
	t.Parallel()

	cfg := InstantiateConfig{
		VotingStrategy:  VotingStrategy{SingleChoice: &SingleChoiceStrategy{Quorum: module.Percent("0.1")}},
		MaxVotingPeriod: module.Seconds(3600),
	}

	_, err := InstantiateMsg(feature.V1, cfg)
	require.ErrorIs(t, err, module.ErrUnsupportedFeature)

	msg, err := InstantiateMsg(feature.V250, cfg)
	require.NoError(t, err)
	b, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"voting_strategy":{"single_choice":{"quorum":{"percent":"0.1"}}},
		"max_voting_period":{"time":3600},
		"only_members_execute":false,
		"allow_revoting":false,
		"pre_propose_info":{"anyone_may_propose":{}},
		"close_proposal_on_execution_failure":false
	}`, string(b))
}
