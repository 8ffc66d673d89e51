package dao

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/commands/flags"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/commands/text"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/simulate"
)

// ErrNoTxEncoder is returned by `dao simulate` when Deps.TxEncoder is not set.
var ErrNoTxEncoder = errors.New("dao simulate needs a transaction encoder: set Deps.TxEncoder")

var (
	simulateShort = "Simulate the messages of a proposal"

	simulateLong = text.LongDesc(`
		Simulates a JSON array of CosmWasm messages as if the DAO core contract executed them, first
		one by one and then as a batch. Messages relayed through polytone are then simulated on their
		destination chain as the DAO's proxy there.
	`)

	simulateExample = text.Examples(`
		# Simulate the messages of a draft proposal
		daoctl dao simulate --chain juno-1 --address juno1core --msgs ./msgs.json
	`)
)

func newSimulateCmd(cfg Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "simulate",
		Short:   simulateShort,
		Long:    simulateLong,
		Example: simulateExample,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.deps().TxEncoder == nil {
				return ErrNoTxEncoder
			}

			msgs, err := readMsgs(flags.MustString(cmd.Flags().GetString("msgs")))
			if err != nil {
				return err
			}

			return runSimulate(cmd, cfg, readDAOFlags(cmd), msgs)
		},
	}

	flags.Chain(cmd)
	flags.Address(cmd)
	cmd.Flags().StringP("msgs", "m", "", "Path to a JSON array of messages (required)")
	_ = cmd.MarkFlagRequired("msgs")

	return cmd
}

func readMsgs(path string) ([]chain.CosmosMsg, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}

	var msgs []chain.CosmosMsg
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil, fmt.Errorf("failed to decode messages in %s: %w", path, err)
	}

	return msgs, nil
}

func runSimulate(cmd *cobra.Command, cfg Config, f daoFlags, msgs []chain.CosmosMsg) error {
	d, backend, err := loadDAO(cmd.Context(), cfg, f)
	if err != nil {
		return err
	}
	info, err := d.Info()
	if err != nil {
		return err
	}

	sim := simulate.New(backend.Simulators,
		simulate.WithPolytone(backend.Polytone...),
		simulate.WithMetrics(backend.Modules.Metrics),
		simulate.WithLogger(cfg.Logger),
	)
	err = sim.Simulate(cmd.Context(), simulate.Request{
		ChainID:         f.chainID,
		Sender:          f.address,
		PolytoneProxies: info.PolytoneProxies,
		Msgs:            msgs,
	})
	if err != nil {
		if simErr, ok := simulate.IsSimulationError(err); ok {
			return fmt.Errorf("❌ %s: %w", simErr.ChainID, err)
		}

		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "✅ Simulated %d messages for %s on %s\n", len(msgs), f.address, f.chainID)

	return err
}
