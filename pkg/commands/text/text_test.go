package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLongDesc(t *testing.T) {
	t.Parallel()

	assert.Empty(t, LongDesc(""))
	assert.Equal(t, "Shows a DAO.\n\tIndented stays.", LongDesc("\n\tShows a DAO.\n\tIndented stays.\n"))
}

func TestExamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "single line", input: "  daoctl dao info  ", want: "  daoctl dao info"},
		{
			name: "multiple lines",
			input: `
				# Show a DAO
				daoctl dao info --chain juno-1 --address juno1core
			`,
			want: "  # Show a DAO\n  daoctl dao info --chain juno-1 --address juno1core",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Examples(tt.input))
		})
	}
}
