package module

import (
	"encoding/json"
	"fmt"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
)

// cosmwasmDenom is the checked denom of cw-denom: {"native": denom} or {"cw20": address}.
type cosmwasmDenom struct {
	Native *string `json:"native,omitempty"`
	Cw20   *string `json:"cw20,omitempty"`
}

// secretDenom is the Secret Network variant where snip20 carries [address, code hash].
type secretDenom struct {
	Native *string    `json:"native,omitempty"`
	Snip20 *[2]string `json:"snip20,omitempty"`
}

// DepositInfoFromConfig translates the deposit of a pre-propose config into a network-agnostic
// DepositInfo. It returns nil when the config requires no deposit. Secret snip20 tokens map to
// the cw20 token type.
func DepositInfoFromConfig(family chain.Family, raw json.RawMessage) (*DepositInfo, error) {
	var cfg preProposeConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode pre-propose config: %w", err)
	}
	if cfg.DepositInfo == nil {
		return nil, nil
	}

	token, err := translateDenom(family, cfg.DepositInfo.Denom)
	if err != nil {
		return nil, err
	}

	return &DepositInfo{
		Token:        token,
		Amount:       cfg.DepositInfo.Amount,
		RefundPolicy: cfg.DepositInfo.RefundPolicy,
	}, nil
}

func translateDenom(family chain.Family, raw json.RawMessage) (GenericToken, error) {
	switch family {
	case chain.FamilySecret:
		var d secretDenom
		if err := json.Unmarshal(raw, &d); err != nil {
			return GenericToken{}, fmt.Errorf("failed to decode deposit denom: %w", err)
		}
		switch {
		case d.Native != nil:
			return GenericToken{Type: TokenTypeNative, DenomOrAddress: *d.Native}, nil
		case d.Snip20 != nil:
			return GenericToken{Type: TokenTypeCw20, DenomOrAddress: d.Snip20[0]}, nil
		}
	default:
		var d cosmwasmDenom
		if err := json.Unmarshal(raw, &d); err != nil {
			return GenericToken{}, fmt.Errorf("failed to decode deposit denom: %w", err)
		}
		switch {
		case d.Native != nil:
			return GenericToken{Type: TokenTypeNative, DenomOrAddress: *d.Native}, nil
		case d.Cw20 != nil:
			return GenericToken{Type: TokenTypeCw20, DenomOrAddress: *d.Cw20}, nil
		}
	}

	return GenericToken{}, fmt.Errorf("unsupported deposit denom %s on %s", string(raw), family)
}
