package feature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderedVersions = []ContractVersion{
	Unknown, V1, V2Alpha, V2Beta, V210, V230, V240, V241, V242, V250, V260,
}

func TestSupports(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		feature Feature
		version ContractVersion
		want    bool
	}{
		{name: "unknown version supports nothing", feature: PrePropose, version: Unknown, want: false},
		{name: "v1 has no pre-propose", feature: PrePropose, version: V1, want: false},
		{name: "v2 alpha has pre-propose", feature: PrePropose, version: V2Alpha, want: true},
		{name: "v2.3 has no veto", feature: Veto, version: V230, want: false},
		{name: "v2.4 has veto", feature: Veto, version: V240, want: true},
		{name: "v2.4 casts vote on creation", feature: CastVoteOnProposalCreation, version: V240, want: true},
		{name: "v2.1 cannot cast vote on creation", feature: CastVoteOnProposalCreation, version: V210, want: false},
		{name: "v2.4.2 has no granular policy", feature: GranularSubmissionPolicy, version: V242, want: false},
		{name: "v2.5 has granular policy", feature: GranularSubmissionPolicy, version: V250, want: true},
		{name: "patch release above minimum", feature: ModuleInstantiateFunds, version: MustContractVersion("2.4.7"), want: true},
		{name: "unknown feature", feature: Feature(999), version: V260, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Supports(tt.feature, tt.version))
		})
	}
}

func TestSupports_Monotonic(t *testing.T) {
	t.Parallel()

	for _, f := range Features() {
		supported := false
		for _, v := range orderedVersions {
			got := Supports(f, v)
			if supported {
				assert.True(t, got, "feature %s dropped at version %s", f, v)
			}
			supported = supported || got
		}
		assert.True(t, supported, "feature %s is never supported", f)
	}
}

func TestContractVersion_Ordering(t *testing.T) {
	t.Parallel()

	for i := 1; i < len(orderedVersions); i++ {
		prev, next := orderedVersions[i-1], orderedVersions[i]
		assert.True(t, prev.LessThan(next), "%s should be lower than %s", prev, next)
		assert.False(t, next.LessThan(prev))
	}

	assert.Equal(t, 0, Unknown.Compare(ContractVersion{}))
	assert.True(t, V240.Equal(MustContractVersion("2.4.0")))
}

func TestContractVersionOrUnknown(t *testing.T) {
	t.Parallel()

	v, ok := ContractVersionOrUnknown("2.4.1")
	require.True(t, ok)
	assert.Equal(t, "2.4.1", v.String())

	v, ok = ContractVersionOrUnknown("not-a-version")
	require.False(t, ok)
	assert.True(t, v.IsUnknown())
	assert.Equal(t, "unknown", v.String())

	_, err := ParseContractVersion("")
	require.ErrorIs(t, err, ErrInvalidVersion)
}

func TestContractVersion_JSON(t *testing.T) {
	t.Parallel()

	var v ContractVersion
	require.NoError(t, v.UnmarshalJSON([]byte(`"2.5.0"`)))
	assert.True(t, v.Equal(V250))

	b, err := v.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `"2.5.0"`, string(b))

	require.NoError(t, v.UnmarshalJSON([]byte(`"garbage"`)))
	assert.True(t, v.IsUnknown())
}

func TestFeature_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "veto", Veto.String())
	assert.Equal(t, "unknown_feature", Feature(0).String())

	minimum, ok := MinimumVersion(PrePropose)
	require.True(t, ok)
	assert.True(t, minimum.Equal(V2Alpha))
}
