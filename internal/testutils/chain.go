// Package testutils provides in-memory chain and signer fakes for tests.
package testutils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
)

// ErrNoResponse is returned by FakeChain for queries without a registered response.
var ErrNoResponse = errors.New("fake chain: no response registered")

// QueryHandler answers one smart query. args is the JSON value under the query name.
type QueryHandler func(args json.RawMessage) (any, error)

type queryRoute struct {
	chainID string
	address string
	name    string
}

// FakeChain is a chain.QueryClient and chain.CodeHashQuerier answering from registered
// handlers. It counts calls per query name.
type FakeChain struct {
	mu         sync.Mutex
	handlers   map[queryRoute]QueryHandler
	codeHashes map[string]string
	calls      map[string]int
}

var (
	_ chain.QueryClient     = (*FakeChain)(nil)
	_ chain.CodeHashQuerier = (*FakeChain)(nil)
)

// NewFakeChain returns a fake without handlers.
func NewFakeChain() *FakeChain {
	return &FakeChain{
		handlers:   make(map[queryRoute]QueryHandler),
		codeHashes: make(map[string]string),
		calls:      make(map[string]int),
	}
}

// Handle registers a handler for the query name on address.
func (f *FakeChain) Handle(chainID, address, name string, h QueryHandler) *FakeChain {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.handlers[queryRoute{chainID, address, name}] = h

	return f
}

// Respond registers a static response for the query name on address.
func (f *FakeChain) Respond(chainID, address, name string, response any) *FakeChain {
	return f.Handle(chainID, address, name, func(json.RawMessage) (any, error) {
		return response, nil
	})
}

// Fail registers an error for the query name on address.
func (f *FakeChain) Fail(chainID, address, name string, err error) *FakeChain {
	return f.Handle(chainID, address, name, func(json.RawMessage) (any, error) {
		return nil, err
	})
}

// ContractInfo registers the cw2 info of a contract.
func (f *FakeChain) ContractInfo(chainID, address, contract, version string) *FakeChain {
	return f.Respond(chainID, address, "info", map[string]any{
		"info": map[string]string{"contract": contract, "version": version},
	})
}

// SetCodeHash registers the code hash of address.
func (f *FakeChain) SetCodeHash(address, hash string) *FakeChain {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.codeHashes[address] = hash

	return f
}

// Calls returns how many times the query name was sent to address.
func (f *FakeChain) Calls(address, name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[address+"/"+name]
}

// TotalCalls returns the number of queries sent.
func (f *FakeChain) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := 0
	for _, n := range f.calls {
		total += n
	}

	return total
}

// QuerySmart implements chain.QueryClient.
func (f *FakeChain) QuerySmart(ctx context.Context, chainID, address string, msg any, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope) != 1 {
		return fmt.Errorf("fake chain: query must have exactly one key: %s", raw)
	}

	var (
		name string
		args json.RawMessage
	)
	for k, v := range envelope {
		name, args = k, v
	}

	f.mu.Lock()
	f.calls[address+"/"+name]++
	h, ok := f.handlers[queryRoute{chainID, address, name}]
	f.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s on %s/%s", ErrNoResponse, name, chainID, address)
	}

	res, err := h(args)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	b, err := json.Marshal(res)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, out)
}

// ContractCodeHash implements chain.CodeHashQuerier.
func (f *FakeChain) ContractCodeHash(_ context.Context, chainID, address string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	hash, ok := f.codeHashes[address]
	if !ok {
		return "", fmt.Errorf("%w: code hash of %s/%s", ErrNoResponse, chainID, address)
	}

	return hash, nil
}
