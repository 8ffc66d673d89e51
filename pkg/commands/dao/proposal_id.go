package dao

import (
	"github.com/spf13/cobra"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/commands/flags"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/commands/text"
)

var (
	proposalIDShort = "Resolve a proposal id to its proposal module"

	proposalIDLong = text.LongDesc(`
		Parses a proposal id such as A12, or B*3 for a proposal awaiting approval, and prints the
		proposal module that owns it.
	`)

	proposalIDExample = text.Examples(`
		# Find the module of proposal A12
		daoctl dao proposal-id A12 --chain juno-1 --address juno1core
	`)
)

type proposalIDView struct {
	ID       string `json:"id" yaml:"id"`
	Module   string `json:"module" yaml:"module"`
	Contract string `json:"contract" yaml:"contract"`
	Number   uint64 `json:"number" yaml:"number"`
	Approval bool   `json:"approval" yaml:"approval"`
	// Contract receiving approval votes, set for approval ids.
	PrePropose string `json:"pre_propose,omitempty" yaml:"pre_propose,omitempty"`
}

func newProposalIDCmd(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "proposal-id <id>",
		Short:   proposalIDShort,
		Long:    proposalIDLong,
		Example: proposalIDExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := flags.MustString(cmd.Flags().GetString("format"))
			if err := flags.ValidateFormat(format); err != nil {
				return err
			}

			d, _, err := loadDAO(cmd.Context(), cfg, readDAOFlags(cmd))
			if err != nil {
				return err
			}

			m, pid, err := d.ResolveProposalID(args[0])
			if err != nil {
				return err
			}

			view := proposalIDView{
				ID:       pid.String(),
				Module:   m.Address(),
				Number:   pid.Number,
				Approval: pid.Approval,
			}
			if name, err := m.ContractName(); err == nil {
				view.Contract = name
			}
			if pid.Approval {
				if pre, err := m.PrePropose(); err == nil && pre != nil {
					view.PrePropose = pre.Address
				}
			}

			return write(cmd.OutOrStdout(), format, view)
		},
	}

	flags.Chain(cmd)
	flags.Address(cmd)
	flags.Format(cmd)

	return cmd
}
