/*
Package feature holds the version compatibility matrix for DAO contracts.

Every version-gated branch in the client asks this package instead of comparing versions
inline:

	if feature.Supports(feature.PrePropose, version) {
		// query the proposal creation policy
	}

Contract versions are semantic versions. A version that cannot be parsed is Unknown, which is
lower than every known version and therefore supports no feature.
*/
package feature
