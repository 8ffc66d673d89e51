package module

import (
	"fmt"
	"strconv"
	"strings"
)

// ApprovalMarker separates the module prefix from the number of a proposal that awaits
// approval in a pre-propose module.
const ApprovalMarker = "*"

// ComposeProposalID returns prefix+number, or prefix+"*"+number for approval proposals. Only
// ids with a prefix accepted by ValidProposalPrefix parse back.
func ComposeProposalID(prefix string, number uint64, approval bool) string {
	if approval {
		return prefix + ApprovalMarker + strconv.FormatUint(number, 10)
	}

	return prefix + strconv.FormatUint(number, 10)
}

// ProposalID is a parsed proposal identifier.
type ProposalID struct {
	Prefix   string
	Number   uint64
	Approval bool
}

// String composes the identifier again.
func (id ProposalID) String() string {
	return ComposeProposalID(id.Prefix, id.Number, id.Approval)
}

// ValidProposalPrefix reports whether prefix is a non-empty run of uppercase letters.
func ValidProposalPrefix(prefix string) bool {
	return prefix != "" && strings.IndexFunc(prefix, notPrefixRune) < 0
}

func notPrefixRune(r rune) bool {
	return r < 'A' || r > 'Z'
}

// ParseProposalID splits an identifier into its prefix, number and approval flag. The prefix is
// the run of uppercase letters before the number.
func ParseProposalID(id string) (ProposalID, error) {
	i := strings.IndexFunc(id, notPrefixRune)
	if i <= 0 {
		return ProposalID{}, fmt.Errorf("%w: %q has no prefix", ErrInvalidProposalID, id)
	}

	parsed := ProposalID{Prefix: id[:i]}
	rest := id[i:]
	if after, ok := strings.CutPrefix(rest, ApprovalMarker); ok {
		parsed.Approval = true
		rest = after
	}

	if rest == "" || strings.HasPrefix(rest, "+") {
		return ProposalID{}, fmt.Errorf("%w: %q has no number", ErrInvalidProposalID, id)
	}
	n, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return ProposalID{}, fmt.Errorf("%w: %q: %w", ErrInvalidProposalID, id, err)
	}
	parsed.Number = n

	return parsed, nil
}

// IndexToPrefix converts a module index to its legacy prefix: 0 is A, 25 is Z, 26 is AA.
func IndexToPrefix(index int) string {
	if index < 0 {
		return ""
	}

	var b []byte
	for n := index + 1; n > 0; n = (n - 1) / 26 {
		b = append([]byte{byte('A' + (n-1)%26)}, b...)
	}

	return string(b)
}
