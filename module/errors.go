package module

import "errors"

var (
	// ErrNotInitialized is returned when a derived module field is read before Init succeeds.
	ErrNotInitialized = errors.New("module not initialized")
	// ErrNotImplemented is returned by every operation of a fallback module.
	ErrNotImplemented = errors.New("not implemented")
	// ErrUnsupportedFeature is returned when an operation needs a feature the deployed contract
	// version does not support.
	ErrUnsupportedFeature = errors.New("unsupported feature")
	// ErrProposalIDNotFound is returned when a successful propose transaction did not emit the
	// proposal number. It is never retried.
	ErrProposalIDNotFound = errors.New("proposal ID not found")
	// ErrInvalidProposalID is returned when parsing a malformed proposal identifier.
	ErrInvalidProposalID = errors.New("invalid proposal ID")
	// ErrUnsupportedProposalData is returned when a variant receives proposal data of another
	// variant.
	ErrUnsupportedProposalData = errors.New("unsupported proposal data")
	// ErrUnsupportedVote is returned when a variant receives a vote of another variant.
	ErrUnsupportedVote = errors.New("unsupported vote")
	// ErrNoPrePropose is returned by queries that need a pre-propose module when none is attached.
	ErrNoPrePropose = errors.New("no pre-propose module")
)
