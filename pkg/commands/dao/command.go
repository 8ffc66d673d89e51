// Package dao provides the CLI commands that inspect DAOs and dry-run their proposals.
package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/config"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/dao"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/commands/flags"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/commands/text"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/logger"
)

var (
	daoShort = "DAO operations"

	daoLong = text.LongDesc(`
		Commands for inspecting DAO DAO governance contracts.

		The DAO core contract is resolved into its voting module and proposal modules, each matched
		to a known client by its contract name. Modules no client knows are listed as unresolved.
	`)
)

// Config holds the configuration for dao commands.
type Config struct {
	// Logger is the logger to use for command output. Required.
	Logger logger.Logger

	// Deps holds optional dependencies that can be overridden.
	// If fields are nil, production defaults are used.
	Deps Deps
}

// Validate checks that all required configuration fields are set.
func (c Config) Validate() error {
	var missing []string

	if c.Logger == nil {
		missing = append(missing, "Logger")
	}

	if len(missing) > 0 {
		return errors.New("dao.Config: missing required fields: " + strings.Join(missing, ", "))
	}

	return nil
}

// deps returns the Deps with defaults applied.
func (c *Config) deps() *Deps {
	c.Deps.applyDefaults()

	return &c.Deps
}

// NewCommand creates the dao command with all subcommands.
func NewCommand(cfg Config) (*cobra.Command, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.deps()

	cmd := &cobra.Command{
		Use:   "dao",
		Short: daoShort,
		Long:  daoLong,
	}

	cmd.AddCommand(newInfoCmd(cfg))
	cmd.AddCommand(newSimulateCmd(cfg))
	cmd.AddCommand(newProposalIDCmd(cfg))

	// Every subcommand talks to the configured networks.
	cmd.PersistentFlags().String("config", "daoctl.yaml", "Path to the daoctl config file")

	return cmd, nil
}

type daoFlags struct {
	configPath string
	chainID    string
	address    string
}

func readDAOFlags(cmd *cobra.Command) daoFlags {
	return daoFlags{
		configPath: flags.MustString(cmd.Flags().GetString("config")),
		chainID:    flags.MustString(cmd.Flags().GetString("chain")),
		address:    flags.MustString(cmd.Flags().GetString("address")),
	}
}

// loadDAO loads the configuration and backend, then initializes the DAO. Modules that fail to
// initialize are logged; the DAO is returned as long as its info loaded.
func loadDAO(ctx context.Context, cfg Config, f daoFlags) (*dao.DAO, *Backend, error) {
	deps := cfg.deps()

	conf, err := deps.ConfigLoader(f.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config %s: %w", f.configPath, err)
	}
	if err := validateConfig(conf); err != nil {
		return nil, nil, err
	}

	backend, err := deps.BackendLoader(ctx, conf, cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to networks: %w", err)
	}

	d := dao.New(f.chainID, f.address, backend.Modules,
		dao.WithLogger(cfg.Logger),
		dao.WithPolytone(backend.Polytone...),
	)
	if err := d.Init(ctx); err != nil {
		if _, infoErr := d.Info(); infoErr != nil {
			return nil, nil, err
		}
		cfg.Logger.Warnw("Some DAO modules failed to initialize", "error", err)
	}

	return d, backend, nil
}

func validateConfig(conf *config.Config) error {
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}
