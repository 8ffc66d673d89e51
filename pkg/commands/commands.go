// Package commands provides the CLI command packages of daoctl.
//
// There are two ways to use commands from this package:
//
// 1. Via the Commands factory (recommended for most use cases):
//
//	commands := commands.New(lggr)
//	daoCmd, err := commands.DAO(dao.Deps{})
//	app.AddCommand(daoCmd)
//
// 2. Via direct package imports (for advanced DI/testing):
//
//	import "github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/commands/dao"
//
//	cmd, err := dao.NewCommand(dao.Config{
//	    Logger: lggr,
//	    Deps:   dao.Deps{...}, // inject fakes for testing
//	})
package commands

import (
	"github.com/spf13/cobra"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/commands/dao"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/logger"
)

// Commands provides a factory for creating CLI commands with shared configuration.
// This allows setting the logger once and reusing it across all commands.
type Commands struct {
	lggr logger.Logger
}

// New creates a new Commands factory with the given logger.
func New(lggr logger.Logger) *Commands {
	return &Commands{lggr: lggr}
}

// DAO creates the dao command group. Zero value deps connect to the configured networks.
func (c *Commands) DAO(deps dao.Deps) (*cobra.Command, error) {
	return dao.NewCommand(dao.Config{
		Logger: c.lggr,
		Deps:   deps,
	})
}
