package chain

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/assert"
)

func TestCoins(t *testing.T) {
	t.Parallel()

	coins := Coins{NewCoin("ujuno", 5), NewCoin("uatom", 1), NewCoin("ujuno", 2)}

	assert.True(t, sdkmath.NewInt(7).Equal(coins.AmountOf("ujuno")))
	assert.True(t, coins.AmountOf("uosmo").IsZero())
	assert.Equal(t, "5ujuno,1uatom,2ujuno", coins.String())
	assert.Empty(t, Coins(nil).String())
}
