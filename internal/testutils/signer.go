package testutils

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
)

// FakeSigner records execute requests and answers with Respond, or an empty successful
// transaction.
type FakeSigner struct {
	address string

	mu       sync.Mutex
	requests []chain.ExecuteRequest
	// Respond builds the response of each request. Optional.
	Respond func(req chain.ExecuteRequest) (*chain.TxResponse, error)
}

var _ chain.Signer = (*FakeSigner)(nil)

// NewFakeSigner returns a signer for address.
func NewFakeSigner(address string) *FakeSigner {
	return &FakeSigner{address: address}
}

// Address implements chain.Signer.
func (s *FakeSigner) Address() string {
	return s.address
}

// Execute implements chain.Signer.
func (s *FakeSigner) Execute(_ context.Context, req chain.ExecuteRequest) (*chain.TxResponse, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	respond := s.Respond
	s.mu.Unlock()

	if respond != nil {
		return respond(req)
	}

	return &chain.TxResponse{TxHash: "TXHASH", Height: 1}, nil
}

// Requests returns the recorded requests.
func (s *FakeSigner) Requests() []chain.ExecuteRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]chain.ExecuteRequest(nil), s.requests...)
}

// LastMsg decodes the message of the last request into a generic map.
func (s *FakeSigner) LastMsg() map[string]any {
	reqs := s.Requests()
	if len(reqs) == 0 {
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal(reqs[len(reqs)-1].Msg, &m); err != nil {
		return nil
	}

	return m
}

// CountingProvider is a chain.SignerProvider that counts how often a signer was requested.
type CountingProvider struct {
	signer chain.Signer
	count  atomic.Int32
}

// NewCountingProvider returns a provider handing out s.
func NewCountingProvider(s chain.Signer) *CountingProvider {
	return &CountingProvider{signer: s}
}

// Signer implements chain.SignerProvider.
func (p *CountingProvider) Signer(context.Context) (chain.Signer, error) {
	p.count.Add(1)
	if p.signer == nil {
		return nil, chain.ErrNoSigner
	}

	return p.signer, nil
}

// Count returns the number of Signer calls.
func (p *CountingProvider) Count() int {
	return int(p.count.Load())
}
