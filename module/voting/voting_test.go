package voting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/internal/testutils"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/logger"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/query"
)

const (
	chainID    = "juno-1"
	votingAddr = "juno1voting"
)

var ref = module.ModuleRef{ChainID: chainID, Address: votingAddr}

func TestVariants_Resolve(t *testing.T) {
	t.Parallel()

	r := module.NewRegistry()
	r.RegisterVotingModules(Variants()...)

	tests := []struct {
		contract string
		want     string
	}{
		{contract: "crates.io:cw4-voting", want: Cw4VariantName},
		{contract: "crates.io:dao-voting-cw4", want: Cw4VariantName},
		{contract: "crates.io:cw20-staked-balance-voting", want: Cw20StakedVariantName},
		{contract: "crates.io:dao-voting-cw20-staked", want: Cw20StakedVariantName},
		{contract: "crates.io:cwd-voting-native-staked", want: TokenStakedVariantName},
		{contract: "crates.io:dao-voting-token-staked", want: TokenStakedVariantName},
		{contract: "crates.io:dao-voting-cw721-staked", want: Cw721StakedVariantName},
	}

	for _, tt := range tests {
		t.Run(tt.contract, func(t *testing.T) {
			t.Parallel()

			v, ok := r.ResolveVotingModuleVariant(tt.contract)
			require.True(t, ok)
			assert.Equal(t, tt.want, v.Name)
		})
	}

	m, ok := r.NewVotingModule(ref, module.ContractInfo{Contract: "crates.io:dao-voting-onft-staked", Version: "2.5.0"}, module.Deps{})
	assert.False(t, ok)
	assert.IsType(t, &module.FallbackVotingModule{}, m)
}

func TestGovernanceToken(t *testing.T) {
	t.Parallel()

	fake := testutils.NewFakeChain().
		Respond(chainID, votingAddr, "token_contract", "juno1cw20").
		Respond(chainID, votingAddr, "denom", DenomResponse{Denom: "factory/juno1dao/gov"}).
		Respond(chainID, votingAddr, "config", Cw721Config{NftAddress: "juno1nft"})
	deps := module.Deps{Querier: fake, Logger: logger.Test(t)}

	tests := []struct {
		name string
		m    module.VotingModule
		want *module.GenericToken
	}{
		{name: "cw4", m: NewCw4(ref, deps), want: nil},
		{
			name: "cw20 staked",
			m:    NewCw20Staked(ref, deps),
			want: &module.GenericToken{Type: module.TokenTypeCw20, DenomOrAddress: "juno1cw20"},
		},
		{
			name: "token staked",
			m:    NewTokenStaked(ref, deps),
			want: &module.GenericToken{Type: module.TokenTypeNative, DenomOrAddress: "factory/juno1dao/gov"},
		},
		{
			name: "cw721 staked",
			m:    NewCw721Staked(ref, deps),
			want: &module.GenericToken{Type: module.TokenTypeCw721, DenomOrAddress: "juno1nft"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := query.Fetch(t.Context(), query.NewMemoryClient(), tt.m.GovernanceTokenQuery())
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCw4_NoNetworkForToken(t *testing.T) {
	t.Parallel()

	fake := testutils.NewFakeChain()
	m := NewCw4(ref, module.Deps{Querier: fake})

	_, err := query.Fetch(t.Context(), query.NewMemoryClient(), m.GovernanceTokenQuery())
	require.NoError(t, err)
	assert.Zero(t, fake.TotalCalls())
}

func TestContractQueries(t *testing.T) {
	t.Parallel()

	fake := testutils.NewFakeChain().
		Respond(chainID, votingAddr, "group_contract", "juno1group").
		Respond(chainID, votingAddr, "staking_contract", "juno1stake").
		Respond(chainID, votingAddr, "config", Cw721Config{NftAddress: "juno1nft"})
	deps := module.Deps{Querier: fake}
	queries := query.NewMemoryClient()

	group, err := query.Fetch(t.Context(), queries, NewCw4(ref, deps).GroupContractQuery())
	require.NoError(t, err)
	assert.Equal(t, "juno1group", group)

	staking, err := query.Fetch(t.Context(), queries, NewCw20Staked(ref, deps).StakingContractQuery())
	require.NoError(t, err)
	assert.Equal(t, "juno1stake", staking)

	nft, err := query.Fetch(t.Context(), queries, NewCw721Staked(ref, deps).NftContractQuery())
	require.NoError(t, err)
	assert.Equal(t, "juno1nft", nft)
}

func TestPower(t *testing.T) {
	t.Parallel()

	height := uint64(100)
	fake := testutils.NewFakeChain().
		ContractInfo(chainID, votingAddr, "crates.io:dao-voting-cw4", "2.4.0").
		Respond(chainID, votingAddr, "voting_power_at_height", map[string]any{"power": "7", "height": 100}).
		Respond(chainID, votingAddr, "total_power_at_height", map[string]any{"power": "70", "height": 100})
	m := NewCw4(ref, module.Deps{Querier: fake, Logger: logger.Test(t)})

	_, err := m.Version()
	require.ErrorIs(t, err, module.ErrNotInitialized)
	require.NoError(t, m.Init(t.Context()))
	name, err := m.ContractName()
	require.NoError(t, err)
	assert.Equal(t, "crates.io:dao-voting-cw4", name)

	queries := m.Deps().Queries
	power, err := query.Fetch(t.Context(), queries, m.VotingPowerQuery("juno1member", &height))
	require.NoError(t, err)
	assert.Equal(t, "7", power.Power.String())
	assert.Equal(t, uint64(100), power.Height)

	total, err := query.Fetch(t.Context(), queries, m.TotalPowerQuery(nil))
	require.NoError(t, err)
	assert.Equal(t, "70", total.Power.String())

	assert.False(t, m.VotingPowerQuery("", nil).Enabled())
}
