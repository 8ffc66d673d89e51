package feature

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidVersion is returned when a contract version string cannot be parsed.
var ErrInvalidVersion = errors.New("invalid contract version")

var (
	V1      = MustContractVersion("0.1.0")
	V2Alpha = MustContractVersion("0.2.0")
	V2Beta  = MustContractVersion("2.0.0-beta")
	V210    = MustContractVersion("2.1.0")
	V230    = MustContractVersion("2.3.0")
	V240    = MustContractVersion("2.4.0")
	V241    = MustContractVersion("2.4.1")
	V242    = MustContractVersion("2.4.2")
	V250    = MustContractVersion("2.5.0")
	V260    = MustContractVersion("2.6.0")

	// Unknown is the version of a contract whose reported version could not be parsed. It
	// compares lower than every known version.
	Unknown = ContractVersion{}
)

// ContractVersion is the semantic version a contract reports through its info query.
// The zero value is Unknown.
type ContractVersion struct {
	v *semver.Version
}

// ParseContractVersion parses raw as a semantic version.
func ParseContractVersion(raw string) (ContractVersion, error) {
	v, err := semver.NewVersion(raw)
	if err != nil {
		return Unknown, fmt.Errorf("%w %q: %w", ErrInvalidVersion, raw, err)
	}

	return ContractVersion{v: v}, nil
}

// MustContractVersion is like ParseContractVersion but panics on error.
func MustContractVersion(raw string) ContractVersion {
	v, err := ParseContractVersion(raw)
	if err != nil {
		panic(err)
	}

	return v
}

// ContractVersionOrUnknown applies the fallback policy for contract versions: a version that
// cannot be parsed is treated as Unknown, which fails every feature gate. The boolean reports
// whether raw parsed, so callers can log the downgrade.
func ContractVersionOrUnknown(raw string) (ContractVersion, bool) {
	v, err := ParseContractVersion(raw)
	if err != nil {
		return Unknown, false
	}

	return v, true
}

// IsUnknown reports whether the version is Unknown.
func (c ContractVersion) IsUnknown() bool {
	return c.v == nil
}

// Compare returns -1, 0 or 1. Unknown is lower than every known version and equal to itself.
func (c ContractVersion) Compare(other ContractVersion) int {
	switch {
	case c.v == nil && other.v == nil:
		return 0
	case c.v == nil:
		return -1
	case other.v == nil:
		return 1
	default:
		return c.v.Compare(other.v)
	}
}

// LessThan reports whether c is strictly lower than other.
func (c ContractVersion) LessThan(other ContractVersion) bool {
	return c.Compare(other) < 0
}

// AtLeast reports whether c is equal to or greater than other.
func (c ContractVersion) AtLeast(other ContractVersion) bool {
	return c.Compare(other) >= 0
}

// Equal reports whether both versions are the same.
func (c ContractVersion) Equal(other ContractVersion) bool {
	return c.Compare(other) == 0
}

// String returns the original version string, or "unknown".
func (c ContractVersion) String() string {
	if c.v == nil {
		return "unknown"
	}

	return c.v.Original()
}

// MarshalJSON implements json.Marshaler.
func (c ContractVersion) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON implements json.Unmarshaler. Unparseable versions decode to Unknown.
func (c *ContractVersion) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c, _ = ContractVersionOrUnknown(raw)

	return nil
}
