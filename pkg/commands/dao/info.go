package dao

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/dao"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/commands/flags"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/commands/text"
)

var (
	infoShort = "Show a DAO and its modules"

	infoLong = text.LongDesc(`
		Loads the DAO core contract and prints its config, voting module, proposal modules and the
		polytone proxies it controls on other chains.
	`)

	infoExample = text.Examples(`
		# Show a DAO on Juno
		daoctl dao info --chain juno-1 --address juno1core

		# Print JSON
		daoctl dao info -c juno-1 -a juno1core --format json
	`)
)

type moduleView struct {
	Address  string `json:"address" yaml:"address"`
	Contract string `json:"contract" yaml:"contract"`
	Version  string `json:"version" yaml:"version"`
	Resolved bool   `json:"resolved" yaml:"resolved"`
}

type proposalModuleView struct {
	moduleView `yaml:",inline"`

	Prefix     string `json:"prefix" yaml:"prefix"`
	Status     string `json:"status" yaml:"status"`
	PrePropose string `json:"pre_propose,omitempty" yaml:"pre_propose,omitempty"`
}

type infoView struct {
	Name            string               `json:"name" yaml:"name"`
	ChainID         string               `json:"chain_id" yaml:"chain_id"`
	Core            string               `json:"core" yaml:"core"`
	Version         string               `json:"version" yaml:"version"`
	Admin           string               `json:"admin" yaml:"admin"`
	Paused          bool                 `json:"paused" yaml:"paused"`
	Initialized     bool                 `json:"initialized" yaml:"initialized"`
	VotingModule    moduleView           `json:"voting_module" yaml:"voting_module"`
	ProposalModules []proposalModuleView `json:"proposal_modules" yaml:"proposal_modules"`
	PolytoneProxies map[string]string    `json:"polytone_proxies,omitempty" yaml:"polytone_proxies,omitempty"`
}

func newInfoCmd(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "info",
		Short:   infoShort,
		Long:    infoLong,
		Example: infoExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := flags.MustString(cmd.Flags().GetString("format"))
			if err := flags.ValidateFormat(format); err != nil {
				return err
			}

			d, _, err := loadDAO(cmd.Context(), cfg, readDAOFlags(cmd))
			if err != nil {
				return err
			}

			view, err := newInfoView(d)
			if err != nil {
				return err
			}

			return write(cmd.OutOrStdout(), format, view)
		},
	}

	flags.Chain(cmd)
	flags.Address(cmd)
	flags.Format(cmd)

	return cmd
}

func newInfoView(d *dao.DAO) (*infoView, error) {
	info, err := d.Info()
	if err != nil {
		return nil, err
	}
	vm, err := d.VotingModule()
	if err != nil {
		return nil, err
	}
	modules, err := d.ProposalModules()
	if err != nil {
		return nil, err
	}

	view := &infoView{
		Name:        info.Config.Name,
		ChainID:     info.ChainID,
		Core:        info.CoreAddress,
		Version:     info.CoreVersion.String(),
		Admin:       info.Admin,
		Paused:      info.Paused,
		Initialized: d.Initialized(),
		VotingModule: moduleView{
			Address:  info.VotingModule.Address,
			Contract: info.VotingModule.Contract.Contract,
			Version:  info.VotingModule.Contract.Version,
			Resolved: !isFallback(vm),
		},
		ProposalModules: make([]proposalModuleView, 0, len(modules)),
		PolytoneProxies: info.PolytoneProxies,
	}

	for i, m := range modules {
		pm := info.ProposalModules[i]
		pv := proposalModuleView{
			moduleView: moduleView{
				Address:  pm.Address,
				Contract: pm.Contract.Contract,
				Version:  pm.Contract.Version,
				Resolved: !isFallback(m),
			},
			Prefix: pm.Prefix,
			Status: string(pm.Status),
		}
		if pre, err := m.PrePropose(); err == nil && pre != nil {
			pv.PrePropose = pre.Address
		} else if err != nil && !errors.Is(err, module.ErrNotInitialized) && !errors.Is(err, module.ErrNotImplemented) {
			return nil, err
		}
		view.ProposalModules = append(view.ProposalModules, pv)
	}

	return view, nil
}

func isFallback(m module.Module) bool {
	switch m.(type) {
	case *module.FallbackProposalModule, *module.FallbackVotingModule:
		return true
	default:
		return false
	}
}
