// Package flags holds the flags shared by several daoctl commands so they are named the same
// everywhere. Flags used by a single command are defined next to it.
package flags

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

// Output formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// MustString returns the string value, ignoring the error.
// Safe to use with registered flags where GetString cannot fail.
func MustString(s string, _ error) string { return s }

// MustBool returns the bool value, ignoring the error.
// Safe to use with registered flags where GetBool cannot fail.
func MustBool(b bool, _ error) bool { return b }

// Chain adds the required --chain/-c flag.
func Chain(cmd *cobra.Command) {
	cmd.Flags().StringP("chain", "c", "", "Chain id of the DAO (required)")
	_ = cmd.MarkFlagRequired("chain")
}

// Address adds the required --address/-a flag holding the DAO core address.
func Address(cmd *cobra.Command) {
	cmd.Flags().StringP("address", "a", "", "Address of the DAO core contract (required)")
	_ = cmd.MarkFlagRequired("address")
}

// Format adds the --format/-f flag.
func Format(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", FormatYAML, "Output format: yaml or json")
}

// ValidateFormat checks a --format value.
func ValidateFormat(format string) error {
	if !slices.Contains([]string{FormatYAML, FormatJSON}, format) {
		return fmt.Errorf("unsupported output format %q, want %s or %s", format, FormatYAML, FormatJSON)
	}

	return nil
}
