package chain

import (
	"fmt"
	"strings"

	sdkmath "cosmossdk.io/math"
)

// Coin is an amount of a native denomination. Amount encodes as a JSON string.
type Coin struct {
	Denom  string      `json:"denom"`
	Amount sdkmath.Int `json:"amount"`
}

// NewCoin returns a coin with an int64 amount.
func NewCoin(denom string, amount int64) Coin {
	return Coin{Denom: denom, Amount: sdkmath.NewInt(amount)}
}

// ParseCoin returns a coin from a decimal amount string.
func ParseCoin(denom, amount string) (Coin, error) {
	v, ok := sdkmath.NewIntFromString(amount)
	if !ok {
		return Coin{}, fmt.Errorf("invalid amount %q for denom %s", amount, denom)
	}

	return Coin{Denom: denom, Amount: v}, nil
}

// String returns "<amount><denom>".
func (c Coin) String() string {
	return c.Amount.String() + c.Denom
}

// Coins is a list of coins, e.g. the funds of a transaction.
type Coins []Coin

// AmountOf returns the total amount of denom.
func (cs Coins) AmountOf(denom string) sdkmath.Int {
	total := sdkmath.ZeroInt()
	for _, c := range cs {
		if c.Denom == denom {
			total = total.Add(c.Amount)
		}
	}

	return total
}

// String returns the coins joined by commas, e.g. "5ujuno,1uatom".
func (cs Coins) String() string {
	parts := make([]string, len(cs))
	for i, c := range cs {
		parts[i] = c.String()
	}

	return strings.Join(parts, ",")
}
