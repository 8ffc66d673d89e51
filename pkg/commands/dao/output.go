package dao

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/commands/flags"
)

// write encodes v to w in the given format.
func write(w io.Writer, format string, v any) error {
	if format == flags.FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}

	return enc.Close()
}
