// Package indexer queries the DAO indexer, an off-chain service that evaluates named formulas
// over indexed contract state. Indexer answers are an optimization: callers fall back to the
// chain when the indexer is disabled or has no answer.
package indexer

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when the indexer has no value for a formula.
	ErrNotFound = errors.New("indexer: not found")
	// ErrDisabled is returned by clients for chains without an indexer.
	ErrDisabled = errors.New("indexer: disabled")
)

// Client evaluates a contract formula on the indexer and decodes the result into out.
type Client interface {
	QueryContract(ctx context.Context, chainID, address, formula string, args map[string]string, out any) error
}

// Noop is a Client for deployments without an indexer.
type Noop struct{}

var _ Client = Noop{}

// QueryContract implements Client.
func (Noop) QueryContract(context.Context, string, string, string, map[string]string, any) error {
	return ErrDisabled
}
