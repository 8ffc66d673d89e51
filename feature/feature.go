package feature

import "slices"

// Feature is an optional capability whose availability depends on the contract version.
type Feature int

const (
	// StaticProposalModulePrefixes means the core contract stores a prefix for each proposal
	// module instead of the client deriving it from the module's position.
	StaticProposalModulePrefixes Feature = iota + 1
	// PrePropose means proposal creation can be delegated to a pre-propose module.
	PrePropose
	// CastVoteOnProposalCreation means a vote can be attached to the propose message.
	CastVoteOnProposalCreation
	// ModuleInstantiateFunds means module instantiate info accepts funds.
	ModuleInstantiateFunds
	// Veto means proposal modules may carry a veto configuration.
	Veto
	// GranularSubmissionPolicy means pre-propose modules use allow/deny list submission policies.
	GranularSubmissionPolicy
)

var featureNames = map[Feature]string{
	StaticProposalModulePrefixes: "static_proposal_module_prefixes",
	PrePropose:                   "pre_propose",
	CastVoteOnProposalCreation:   "cast_vote_on_proposal_creation",
	ModuleInstantiateFunds:       "module_instantiate_funds",
	Veto:                         "veto",
	GranularSubmissionPolicy:     "granular_submission_policy",
}

// minimumVersions is the compatibility matrix. A feature is supported by every version at or
// above its minimum, which keeps Supports monotonic in the version.
var minimumVersions = map[Feature]ContractVersion{
	StaticProposalModulePrefixes: V2Alpha,
	PrePropose:                   V2Alpha,
	CastVoteOnProposalCreation:   V240,
	ModuleInstantiateFunds:       V240,
	Veto:                         V240,
	GranularSubmissionPolicy:     V250,
}

// String returns the feature name.
func (f Feature) String() string {
	if name, ok := featureNames[f]; ok {
		return name
	}

	return "unknown_feature"
}

// Supports reports whether a contract at version v supports feature f. Unknown features and
// Unknown versions are never supported.
func Supports(f Feature, v ContractVersion) bool {
	minimum, ok := minimumVersions[f]
	if !ok || v.IsUnknown() {
		return false
	}

	return v.AtLeast(minimum)
}

// MinimumVersion returns the lowest version supporting f.
func MinimumVersion(f Feature) (ContractVersion, bool) {
	v, ok := minimumVersions[f]

	return v, ok
}

// Features returns every known feature in declaration order.
func Features() []Feature {
	features := make([]Feature, 0, len(minimumVersions))
	for f := range minimumVersions {
		features = append(features, f)
	}
	slices.Sort(features)

	return features
}
