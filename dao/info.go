package dao

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain/network"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/feature"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/query"
)

// ProposalModuleStatus is the status the core contract keeps for each proposal module.
type ProposalModuleStatus string

const (
	ProposalModuleEnabled  ProposalModuleStatus = "enabled"
	ProposalModuleDisabled ProposalModuleStatus = "disabled"
)

// Config is the configuration of a DAO core contract.
type Config struct {
	Name                   string  `json:"name"`
	Description            string  `json:"description"`
	ImageURL               *string `json:"image_url,omitempty"`
	AutomaticallyAddCw20s  bool    `json:"automatically_add_cw20s"`
	AutomaticallyAddCw721s bool    `json:"automatically_add_cw721s"`
	DaoURI                 *string `json:"dao_uri,omitempty"`
}

// ModuleInfo describes a module of the DAO as the core contract lists it.
type ModuleInfo struct {
	Address  string
	Contract module.ContractInfo
}

// ProposalModuleInfo describes a proposal module of the DAO.
type ProposalModuleInfo struct {
	ModuleInfo
	Prefix string
	Status ProposalModuleStatus
	// Index is the position in the core contract's list.
	Index int
}

// Info is everything needed to resolve the modules of a DAO.
type Info struct {
	ChainID     string
	CoreAddress string
	Core        module.ContractInfo
	CoreVersion feature.ContractVersion
	Admin       string
	Config      Config
	Paused      bool

	VotingModule    ModuleInfo
	ProposalModules []ProposalModuleInfo
	// PolytoneProxies maps destination chain ids to the DAO's proxy account on that chain.
	PolytoneProxies map[string]string
}

// HasPolytoneProxies reports whether the DAO controls an account on any other chain.
func (i *Info) HasPolytoneProxies() bool {
	return len(i.PolytoneProxies) > 0
}

type dumpState struct {
	Admin           string                `json:"admin"`
	Config          Config                `json:"config"`
	Version         module.ContractInfo   `json:"version"`
	PauseInfo       json.RawMessage       `json:"pause_info,omitempty"`
	ProposalModules []proposalModuleEntry `json:"proposal_modules"`
	VotingModule    string                `json:"voting_module"`
}

// proposalModuleEntry decodes both the bare address list of v1 cores and the objects of v2.
type proposalModuleEntry struct {
	Address string               `json:"address"`
	Prefix  string               `json:"prefix"`
	Status  ProposalModuleStatus `json:"status"`
}

func (e *proposalModuleEntry) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		e.Status = ProposalModuleEnabled
		return json.Unmarshal(data, &e.Address)
	}

	type entry proposalModuleEntry
	var v entry
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*e = proposalModuleEntry(v)

	return nil
}

func (s dumpState) paused() bool {
	return len(s.PauseInfo) > 0 && !bytes.Contains(s.PauseInfo, []byte("unpaused"))
}

// dumpStateQuery returns the raw state of the core contract.
func (d *DAO) dumpStateQuery() query.Query[dumpState] {
	return module.ContractQuery[dumpState](d.deps.Querier, d.chainID, d.core, "dump_state", nil)
}

// InfoQuery returns a query for the DAO info. Module contract infos and polytone proxies go
// through the cache as separate entries.
func (d *DAO) InfoQuery() query.Query[*Info] {
	return query.Query[*Info]{
		Key:      query.ChainKey(d.chainID, d.core, "dao_info", nil),
		Disabled: d.core == "",
		Fetch:    d.fetchInfo,
	}
}

func (d *DAO) fetchInfo(ctx context.Context) (*Info, error) {
	state, err := query.Fetch(ctx, d.deps.Queries, d.dumpStateQuery())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch state of DAO %s: %w", d.core, err)
	}

	version, ok := feature.ContractVersionOrUnknown(state.Version.Version)
	if !ok {
		d.lggr.Warnw("Unparseable core contract version, treating as unknown",
			"contract", state.Version.Contract, "version", state.Version.Version)
	}

	info := &Info{
		ChainID:         d.chainID,
		CoreAddress:     d.core,
		Core:            state.Version,
		CoreVersion:     version,
		Admin:           state.Admin,
		Config:          state.Config,
		Paused:          state.paused(),
		ProposalModules: make([]ProposalModuleInfo, 0, len(state.ProposalModules)),
		PolytoneProxies: map[string]string{},
	}

	votingInfo, err := d.contractInfo(ctx, state.VotingModule)
	if err != nil {
		return nil, err
	}
	info.VotingModule = ModuleInfo{Address: state.VotingModule, Contract: votingInfo}

	staticPrefixes := feature.Supports(feature.StaticProposalModulePrefixes, version)
	for i, entry := range state.ProposalModules {
		contract, err := d.contractInfo(ctx, entry.Address)
		if err != nil {
			return nil, err
		}

		prefix := entry.Prefix
		if !staticPrefixes || !module.ValidProposalPrefix(prefix) {
			if staticPrefixes && prefix != "" {
				d.lggr.Warnw("Ignoring invalid proposal module prefix", "address", entry.Address, "prefix", prefix)
			}
			prefix = module.IndexToPrefix(i)
		}
		status := entry.Status
		if status == "" {
			status = ProposalModuleEnabled
		}

		info.ProposalModules = append(info.ProposalModules, ProposalModuleInfo{
			ModuleInfo: ModuleInfo{Address: entry.Address, Contract: contract},
			Prefix:     prefix,
			Status:     status,
			Index:      i,
		})
	}

	for _, conn := range d.polytone {
		proxy, err := query.Fetch(ctx, d.deps.Queries, d.remoteAddressQuery(conn))
		if err != nil {
			d.lggr.Warnw("Failed to fetch polytone proxy",
				"note", conn.Note, "destination_chain_id", conn.DestinationChainID, "error", err)

			continue
		}
		if proxy != nil && *proxy != "" {
			info.PolytoneProxies[conn.DestinationChainID] = *proxy
		}
	}

	return info, nil
}

func (d *DAO) contractInfo(ctx context.Context, address string) (module.ContractInfo, error) {
	info, err := query.Fetch(ctx, d.deps.Queries, module.ContractInfoQuery(d.deps.Querier, d.chainID, address))
	if err != nil {
		return module.ContractInfo{}, fmt.Errorf("failed to fetch contract info of DAO module %s: %w", address, err)
	}

	return info, nil
}

// remoteAddressQuery asks a polytone note for the proxy it created for the DAO, if any.
func (d *DAO) remoteAddressQuery(conn network.PolytoneConnection) query.Query[*string] {
	return module.ContractQuery[*string](d.deps.Querier, d.chainID, conn.Note, "remote_address",
		map[string]any{"local_address": d.core})
}
