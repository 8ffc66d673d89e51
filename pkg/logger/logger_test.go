package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewWithLevel(t *testing.T) {
	t.Parallel()

	lggr, err := NewWithLevel("debug")
	require.NoError(t, err)
	require.NotNil(t, lggr)

	_, err = NewWithLevel("loud")
	require.ErrorContains(t, err, `invalid log level "loud"`)
}

func TestNamedAndWith(t *testing.T) {
	t.Parallel()

	lggr, logs := TestObserved(t, zapcore.InfoLevel)
	child := lggr.Named("dao").With("chain_id", "juno-1")
	assert.Equal(t, "dao", child.Name())

	child.Infow("initialized", "modules", 2)
	child.Debugw("ignored below level")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "initialized", entries[0].Message)
	assert.Equal(t, "juno-1", entries[0].ContextMap()["chain_id"])
}

func TestNop(t *testing.T) {
	t.Parallel()

	lggr := Nop()
	lggr.Errorw("discarded")
	assert.Empty(t, lggr.Name())
}
