// Package main provides daoctl, a CLI for inspecting DAO DAO governance contracts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/config"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/commands"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/commands/dao"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Only the log level is read up front; each command loads its own config file.
	env, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	lggr, err := logger.NewWithLevel(env.Log.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	root := &cobra.Command{
		Use:           "daoctl",
		Short:         "Inspect DAO DAO governance contracts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	daoCmd, err := commands.New(lggr).DAO(dao.Deps{})
	if err != nil {
		return err
	}
	root.AddCommand(daoCmd)

	return root.ExecuteContext(ctx)
}
