// Package simulate dry-runs governance messages on the DAO's chain and on every chain the
// messages are relayed to through polytone.
package simulate

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain/network"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/internal/metrics"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/logger"
)

const tracerName = "github.com/DA0-DA0/cw-dao-dapp-sub000/simulate"

// BatchIndex is the SimulationError index of a failed batch simulation.
const BatchIndex = -1

// SimulationError is a message or batch rejected by a chain.
type SimulationError struct {
	ChainID string
	Sender  string
	// Index is the position of the failing message, or BatchIndex for the whole batch.
	Index int
	Err   error
}

func (e *SimulationError) Error() string {
	if e.Index == BatchIndex {
		return fmt.Sprintf("simulation of batch on %s from %s failed: %v", e.ChainID, e.Sender, e.Err)
	}

	return fmt.Sprintf("simulation of message %d on %s from %s failed: %v", e.Index, e.ChainID, e.Sender, e.Err)
}

func (e *SimulationError) Unwrap() error {
	return e.Err
}

// ChainSimulators looks up the simulator of a chain. chain.Chains implements it.
type ChainSimulators interface {
	Simulator(ctx context.Context, chainID string) (chain.Simulator, error)
}

// Request is a batch of messages sent by Sender on ChainID.
type Request struct {
	ChainID string
	Sender  string
	// PolytoneProxies maps destination chain ids to the sender's proxy there. When empty,
	// relayed messages are not simulated.
	PolytoneProxies map[string]string
	Msgs            []chain.CosmosMsg
}

type Option func(*Simulator)

// WithPolytone sets the polytone connections used to recognize relayed messages.
func WithPolytone(conns ...network.PolytoneConnection) Option {
	return func(s *Simulator) {
		s.polytone = append(s.polytone, conns...)
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Simulator) {
		s.metrics = m
	}
}

func WithLogger(lggr logger.Logger) Option {
	return func(s *Simulator) {
		s.lggr = lggr
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Simulator) {
		s.tracer = t
	}
}

// Simulator simulates message batches across chains.
type Simulator struct {
	sims     ChainSimulators
	polytone []network.PolytoneConnection
	metrics  *metrics.Metrics
	lggr     logger.Logger
	tracer   trace.Tracer
}

func New(sims ChainSimulators, opts ...Option) *Simulator {
	s := &Simulator{sims: sims}
	for _, opt := range opts {
		opt(s)
	}
	if s.lggr == nil {
		s.lggr = logger.Nop()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	s.lggr = s.lggr.Named("simulate")

	return s
}

// Simulate simulates req.Msgs on req.ChainID one by one and then as a batch. If the sender has
// polytone proxies, messages relayed through a polytone note are then simulated the same way on
// their destination chain with the proxy as sender. The first rejection is returned.
func (s *Simulator) Simulate(ctx context.Context, req Request) (err error) {
	if len(req.Msgs) == 0 {
		return nil
	}

	runID := uuid.NewString()
	ctx, span := s.tracer.Start(ctx, "simulate.Simulate", trace.WithAttributes(
		attribute.String("simulate.run_id", runID),
		attribute.String("simulate.chain_id", req.ChainID),
		attribute.Int("simulate.msgs", len(req.Msgs)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	lggr := s.lggr.With("run_id", runID)

	if err := s.simulateOn(ctx, lggr, req.ChainID, req.Sender, req.Msgs); err != nil {
		return err
	}

	if len(req.PolytoneProxies) == 0 {
		lggr.Debugw("No polytone proxies, skipping relayed messages")
		return nil
	}

	relayed, err := DecodeRelayed(req.ChainID, req.Msgs, s.polytone, req.PolytoneProxies)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.Int("simulate.destination_chains", len(relayed)))

	for _, r := range relayed {
		if err := s.simulateOn(ctx, lggr, r.ChainID, r.Proxy, r.Msgs); err != nil {
			return err
		}
	}

	return nil
}

// simulateOn simulates each message alone, then the batch when there is more than one.
func (s *Simulator) simulateOn(ctx context.Context, lggr logger.Logger, chainID, sender string, msgs []chain.CosmosMsg) error {
	sim, err := s.sims.Simulator(ctx, chainID)
	if err != nil {
		return fmt.Errorf("no simulator for %s: %w", chainID, err)
	}

	for i, msg := range msgs {
		if err := sim.Simulate(ctx, sender, []chain.CosmosMsg{msg}); err != nil {
			s.metrics.Simulation(chainID, err)
			return &SimulationError{ChainID: chainID, Sender: sender, Index: i, Err: err}
		}
	}

	if len(msgs) > 1 {
		if err := sim.Simulate(ctx, sender, msgs); err != nil {
			s.metrics.Simulation(chainID, err)
			return &SimulationError{ChainID: chainID, Sender: sender, Index: BatchIndex, Err: err}
		}
	}
	s.metrics.Simulation(chainID, nil)
	lggr.Debugw("Simulated messages", "chain_id", chainID, "sender", sender, "msgs", len(msgs))

	return nil
}

// IsSimulationError reports whether err holds a SimulationError and returns it.
func IsSimulationError(err error) (*SimulationError, bool) {
	var simErr *SimulationError
	ok := errors.As(err, &simErr)

	return simErr, ok
}
