package chain

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNoSigner is returned by a SignerProvider that has no signer to offer.
var ErrNoSigner = errors.New("no signer available")

// ExecuteRequest describes a contract execution.
type ExecuteRequest struct {
	Contract string
	Msg      json.RawMessage
	Funds    []Coin
	// CodeHash is required by Secret Network and ignored elsewhere.
	CodeHash string
}

// Signer signs and broadcasts transactions on behalf of one address. Implementations live in
// the wallet layer; this package never handles key material.
type Signer interface {
	Address() string
	Execute(ctx context.Context, req ExecuteRequest) (*TxResponse, error)
}

// SignerProvider defers signer creation until a transaction is actually issued.
type SignerProvider interface {
	Signer(ctx context.Context) (Signer, error)
}

// SignerProviderFunc adapts a function to SignerProvider.
type SignerProviderFunc func(ctx context.Context) (Signer, error)

// Signer implements SignerProvider.
func (f SignerProviderFunc) Signer(ctx context.Context) (Signer, error) {
	return f(ctx)
}

// StaticSigner returns a SignerProvider for a ready signer.
func StaticSigner(s Signer) SignerProvider {
	return SignerProviderFunc(func(context.Context) (Signer, error) {
		if s == nil {
			return nil, ErrNoSigner
		}

		return s, nil
	})
}
