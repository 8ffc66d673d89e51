package dao

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain/cosmos"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain/network"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/config"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/indexer"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/internal/metrics"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/logger"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/simulate"
)

// Backend is everything the dao commands need to reach the chains.
type Backend struct {
	Modules    module.Deps
	Polytone   []network.PolytoneConnection
	Simulators simulate.ChainSimulators
}

// ConfigLoaderFunc loads the CLI configuration from a file path.
type ConfigLoaderFunc func(path string) (*config.Config, error)

// BackendLoaderFunc builds the backend from the configuration.
type BackendLoaderFunc func(ctx context.Context, cfg *config.Config, lggr logger.Logger) (*Backend, error)

// defaultBackendLoader connects to the REST endpoints and indexers of the network manifest.
// Simulations are encoded with enc.
func defaultBackendLoader(enc cosmos.TxEncoder) BackendLoaderFunc {
	return func(_ context.Context, cfg *config.Config, lggr logger.Logger) (*Backend, error) {
		return loadBackend(cfg, lggr, enc)
	}
}

func loadBackend(cfg *config.Config, lggr logger.Logger, enc cosmos.TxEncoder) (*Backend, error) {
	netCfg, err := network.Load(cfg.Networks.Path)
	if err != nil {
		return nil, err
	}

	clientOpts := []cosmos.ClientOpt{cosmos.WithRetry(cfg.Retry()), cosmos.WithLogger(lggr)}
	if enc != nil {
		clientOpts = append(clientOpts, cosmos.WithTxEncoder(enc))
	}
	chains := chain.NewLazyChains(netCfg.ChainIDs(), cosmos.Loader(netCfg, clientOpts...), lggr)

	var idx indexer.Client = indexer.NewRouter(netCfg, indexer.WithRetry(cfg.Retry()), indexer.WithLogger(lggr))
	if cfg.Indexer.URL != "" {
		idx = indexer.NewHTTPClient(cfg.Indexer.URL, indexer.WithRetry(cfg.Retry()), indexer.WithLogger(lggr))
	}

	return &Backend{
		Modules: module.Deps{
			Querier:    chains,
			CodeHashes: chains,
			Indexer:    idx,
			Metrics:    metrics.New(prometheus.NewRegistry()),
			Logger:     lggr,
		},
		Polytone:   netCfg.Connections(),
		Simulators: chains,
	}, nil
}

// Deps holds the injectable dependencies of the dao commands. Nil fields use production
// defaults.
type Deps struct {
	// ConfigLoader loads the CLI configuration.
	// Default: config.Load
	ConfigLoader ConfigLoaderFunc

	// BackendLoader builds clients for the configured networks.
	// Default: REST clients for every network of the manifest
	BackendLoader BackendLoaderFunc

	// TxEncoder encodes the transactions of `dao simulate`. The command fails without one.
	// Default: none
	TxEncoder cosmos.TxEncoder
}

// applyDefaults fills in nil dependencies with production defaults.
func (d *Deps) applyDefaults() {
	if d.ConfigLoader == nil {
		d.ConfigLoader = config.Load
	}
	if d.BackendLoader == nil {
		d.BackendLoader = defaultBackendLoader(d.TxEncoder)
	}
}
