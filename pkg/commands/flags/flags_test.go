package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedFlags(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "test"}
	Chain(cmd)
	Address(cmd)
	Format(cmd)

	tests := []struct {
		name      string
		shorthand string
		def       string
		required  bool
	}{
		{name: "chain", shorthand: "c", required: true},
		{name: "address", shorthand: "a", required: true},
		{name: "format", shorthand: "f", def: FormatYAML},
	}

	for _, tt := range tests {
		f := cmd.Flags().Lookup(tt.name)
		require.NotNil(t, f, tt.name)
		assert.Equal(t, tt.shorthand, f.Shorthand)
		assert.Equal(t, tt.def, f.DefValue)
		_, required := f.Annotations[cobra.BashCompOneRequiredFlag]
		assert.Equal(t, tt.required, required, tt.name)
	}
}

func TestValidateFormat(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateFormat(FormatJSON))
	require.NoError(t, ValidateFormat(FormatYAML))
	require.ErrorContains(t, ValidateFormat("toml"), "unsupported output format")
}

func TestMust(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "v", MustString("v", assert.AnError))
	assert.True(t, MustBool(true, nil))
}
