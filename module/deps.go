package module

import (
	"context"
	"fmt"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/indexer"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/internal/metrics"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/logger"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/query"
)

// Deps are the collaborators shared by every module of a DAO.
type Deps struct {
	// Querier runs smart queries. Required.
	Querier chain.QueryClient
	// CodeHashes resolves contract code hashes. Required for Secret Network modules.
	CodeHashes chain.CodeHashQuerier
	// Queries caches query results. Defaults to a fresh query.MemoryClient.
	Queries query.Client
	// Indexer answers formula queries ahead of the chain. Defaults to indexer.Noop.
	Indexer indexer.Client
	Metrics *metrics.Metrics
	Logger  logger.Logger
}

// WithDefaults returns a copy of d with unset optional collaborators filled in.
func (d Deps) WithDefaults() Deps {
	if d.Logger == nil {
		d.Logger = logger.Nop()
	}
	if d.Queries == nil {
		d.Queries = query.NewMemoryClient(query.WithMetrics(d.Metrics), query.WithLogger(d.Logger))
	}
	if d.Indexer == nil {
		d.Indexer = indexer.Noop{}
	}

	return d
}

// ModuleRef identifies a module contract. Identity is fixed at construction.
type ModuleRef struct {
	ChainID string
	Address string
	// Prefix is prepended to proposal numbers to build proposal ids. Empty for voting modules.
	Prefix string
	// Index is the position of the module in the DAO's on-chain list.
	Index int
}

// String returns "<chain id>:<address>".
func (r ModuleRef) String() string {
	return fmt.Sprintf("%s:%s", r.ChainID, r.Address)
}

// ContractInfo is the cw2 contract info every module reports.
type ContractInfo struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
}

type contractInfoResponse struct {
	Info ContractInfo `json:"info"`
}

// ContractQuery builds a query sending {name: args} to a contract. Nil args encode as {}.
func ContractQuery[T any](q chain.QueryClient, chainID, address, name string, args map[string]any) query.Query[T] {
	return query.Query[T]{
		Key:      query.ChainKey(chainID, address, name, args),
		Disabled: address == "",
		Fetch: func(ctx context.Context) (T, error) {
			var out T
			var payload any = args
			if args == nil {
				payload = struct{}{}
			}
			err := q.QuerySmart(ctx, chainID, address, map[string]any{name: payload}, &out)

			return out, err
		},
	}
}

// ContractInfoQuery returns the cw2 info query for a contract.
func ContractInfoQuery(q chain.QueryClient, chainID, address string) query.Query[ContractInfo] {
	inner := ContractQuery[contractInfoResponse](q, chainID, address, "info", nil)

	return query.Query[ContractInfo]{
		Key:      inner.Key,
		Disabled: inner.Disabled,
		Fetch: func(ctx context.Context) (ContractInfo, error) {
			res, err := inner.Fetch(ctx)
			return res.Info, err
		},
	}
}
