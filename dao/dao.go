// Package dao aggregates the core contract of a DAO with its voting and proposal modules.
//
// Module variants are resolved synchronously as soon as the DAO info is known. Initialization of
// the resolved modules is the network bound step and runs concurrently in Init.
package dao

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/DA0-DA0/cw-dao-dapp-sub000/chain/network"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/module"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/pkg/logger"
	"github.com/DA0-DA0/cw-dao-dapp-sub000/query"
)

const tracerName = "github.com/DA0-DA0/cw-dao-dapp-sub000/dao"

var (
	// ErrInfoNotLoaded is returned by accessors that need the DAO info before it is loaded.
	ErrInfoNotLoaded = errors.New("DAO info not loaded")
	// ErrProposalModuleNotFound is returned when no proposal module matches an address or prefix.
	ErrProposalModuleNotFound = errors.New("proposal module not found")
)

// Option configures a DAO.
type Option func(*DAO)

// WithRegistry sets the registry used to resolve module variants. Defaults to DefaultRegistry().
func WithRegistry(r *module.Registry) Option {
	return func(d *DAO) {
		d.registry = r
	}
}

// WithPolytone sets the polytone connections the DAO may have proxies through. Connections
// from other chains are ignored.
func WithPolytone(conns ...network.PolytoneConnection) Option {
	return func(d *DAO) {
		d.polytone = append(d.polytone, conns...)
	}
}

func WithLogger(lggr logger.Logger) Option {
	return func(d *DAO) {
		d.deps.Logger = lggr
	}
}

// WithTracer overrides the tracer taken from the global otel provider.
func WithTracer(t trace.Tracer) Option {
	return func(d *DAO) {
		d.tracer = t
	}
}

type resolvedProposalModule struct {
	module  module.ProposalModule
	variant string
	info    ProposalModuleInfo
}

type resolvedVotingModule struct {
	module  module.VotingModule
	variant string
}

// DAO is a client for one DAO core contract and its modules.
type DAO struct {
	chainID  string
	core     string
	deps     module.Deps
	registry *module.Registry
	polytone []network.PolytoneConnection
	tracer   trace.Tracer
	lggr     logger.Logger

	mu              sync.RWMutex
	info            *Info
	voting          *resolvedVotingModule
	proposalModules []*resolvedProposalModule
}

// New returns a DAO client for the core contract at coreAddress. No network call is made.
func New(chainID, coreAddress string, deps module.Deps, opts ...Option) *DAO {
	d := &DAO{
		chainID: chainID,
		core:    coreAddress,
		deps:    deps,
	}
	for _, opt := range opts {
		opt(d)
	}

	d.deps = d.deps.WithDefaults()
	if d.registry == nil {
		d.registry = DefaultRegistry()
	}
	if d.tracer == nil {
		d.tracer = otel.Tracer(tracerName)
	}
	d.polytone = lo.Filter(d.polytone, func(c network.PolytoneConnection, _ int) bool {
		return c.SourceChainID == chainID
	})
	d.lggr = d.deps.Logger.Named("dao").With("chain_id", chainID, "core", coreAddress)

	return d
}

func (d *DAO) ChainID() string {
	return d.chainID
}

func (d *DAO) CoreAddress() string {
	return d.core
}

// Deps returns the collaborators shared with the modules of the DAO.
func (d *DAO) Deps() module.Deps {
	return d.deps
}

// Hydrate resolves the modules from cached info without any network call. It reports whether
// cached info was found.
func (d *DAO) Hydrate() bool {
	info, ok := query.Cached(d.deps.Queries, d.InfoQuery())
	if !ok || info == nil {
		return false
	}
	d.setInfo(info)

	return true
}

// Init loads the DAO info if needed, resolves the modules and initializes every module that is
// not initialized yet. Module inits run concurrently and all of them settle before the joined
// error is returned.
func (d *DAO) Init(ctx context.Context) (err error) {
	ctx, span := d.tracer.Start(ctx, "dao.Init", trace.WithAttributes(
		attribute.String("dao.chain_id", d.chainID),
		attribute.String("dao.core_address", d.core),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if !d.infoLoaded() {
		info, err := query.Fetch(ctx, d.deps.Queries, d.InfoQuery())
		if err != nil {
			return fmt.Errorf("failed to load DAO %s: %w", d.core, err)
		}
		d.setInfo(info)
	}

	if err := d.initModules(ctx, span); err != nil {
		return err
	}
	d.lggr.Infow("Initialized DAO")

	return nil
}

// Refresh refetches the DAO info and reconciles the module list by address. Modules that are
// still listed keep their instance and state.
func (d *DAO) Refresh(ctx context.Context) error {
	q := d.InfoQuery()
	d.deps.Queries.Invalidate(d.dumpStateQuery().Key)
	d.deps.Queries.Invalidate(q.Key)

	info, err := query.Fetch(ctx, d.deps.Queries, q)
	if err != nil {
		return fmt.Errorf("failed to refresh DAO %s: %w", d.core, err)
	}
	d.setInfo(info)

	return d.initModules(ctx, trace.SpanFromContext(ctx))
}

func (d *DAO) initModules(ctx context.Context, span trace.Span) error {
	type initTask struct {
		variant string
		mod     module.Module
	}

	d.mu.RLock()
	tasks := make([]initTask, 0, len(d.proposalModules)+1)
	if d.voting != nil && !d.voting.module.Initialized() {
		tasks = append(tasks, initTask{variant: d.voting.variant, mod: d.voting.module})
	}
	for _, p := range d.proposalModules {
		if !p.module.Initialized() {
			tasks = append(tasks, initTask{variant: p.variant, mod: p.module})
		}
	}
	d.mu.RUnlock()

	span.SetAttributes(attribute.Int("dao.module_inits", len(tasks)))

	errs := make([]error, len(tasks))
	var wg sync.WaitGroup
	for i, task := range tasks {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := task.mod.Init(ctx)
			d.deps.Metrics.ModuleInit(task.variant, err)
			if err != nil {
				errs[i] = fmt.Errorf("failed to initialize %s module %s: %w", task.variant, task.mod.Ref(), err)
			}
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

// setInfo stores info and resolves the modules it lists.
func (d *DAO) setInfo(info *Info) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.info = info

	if d.voting == nil || d.voting.module.Address() != info.VotingModule.Address {
		d.voting = d.resolveVotingModule(info.VotingModule)
	}

	existing := lo.SliceToMap(d.proposalModules, func(p *resolvedProposalModule) (string, *resolvedProposalModule) {
		return p.module.Address(), p
	})
	modules := make([]*resolvedProposalModule, 0, len(info.ProposalModules))
	for _, pm := range info.ProposalModules {
		if p, ok := existing[pm.Address]; ok {
			p.info = pm
			modules = append(modules, p)

			continue
		}
		modules = append(modules, d.resolveProposalModule(pm))
	}
	d.proposalModules = modules
}

func (d *DAO) resolveVotingModule(mi ModuleInfo) *resolvedVotingModule {
	ref := module.ModuleRef{ChainID: d.chainID, Address: mi.Address}
	if v, ok := d.registry.ResolveVotingModuleVariant(mi.Contract.Contract); ok {
		return &resolvedVotingModule{module: v.New(ref, d.deps), variant: v.Name}
	}

	d.lggr.Warnw("Unrecognized voting module, using fallback", "address", mi.Address, "contract", mi.Contract.Contract)

	return &resolvedVotingModule{
		module:  module.NewFallbackVotingModule(ref, mi.Contract),
		variant: module.FallbackVariantName,
	}
}

func (d *DAO) resolveProposalModule(pm ProposalModuleInfo) *resolvedProposalModule {
	ref := module.ModuleRef{ChainID: d.chainID, Address: pm.Address, Prefix: pm.Prefix, Index: pm.Index}
	if v, ok := d.registry.ResolveProposalModuleVariant(pm.Contract.Contract); ok {
		return &resolvedProposalModule{module: v.New(ref, d.deps), variant: v.Name, info: pm}
	}

	d.lggr.Warnw("Unrecognized proposal module, using fallback", "address", pm.Address, "contract", pm.Contract.Contract)

	return &resolvedProposalModule{
		module:  module.NewFallbackProposalModule(ref, pm.Contract),
		variant: module.FallbackVariantName,
		info:    pm,
	}
}

func (d *DAO) infoLoaded() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.info != nil
}

// Initialized reports whether the info is loaded and every resolved module is initialized,
// the voting module included. Fallback modules always count as initialized. It is computed on
// each call.
func (d *DAO) Initialized() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.info == nil {
		return false
	}
	if d.voting != nil && !d.voting.module.Initialized() {
		return false
	}

	return lo.EveryBy(d.proposalModules, func(p *resolvedProposalModule) bool {
		return p.module.Initialized()
	})
}

// Info returns the loaded DAO info.
func (d *DAO) Info() (*Info, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.info == nil {
		return nil, fmt.Errorf("%w: %s", ErrInfoNotLoaded, d.core)
	}

	return d.info, nil
}

func (d *DAO) VotingModule() (module.VotingModule, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.info == nil {
		return nil, fmt.Errorf("%w: %s", ErrInfoNotLoaded, d.core)
	}

	return d.voting.module, nil
}

// ProposalModules returns every proposal module in on-chain order, disabled ones included.
func (d *DAO) ProposalModules() ([]module.ProposalModule, error) {
	return d.proposalModulesWhere(func(*resolvedProposalModule) bool { return true })
}

// EnabledProposalModules returns the proposal modules that accept new proposals.
func (d *DAO) EnabledProposalModules() ([]module.ProposalModule, error) {
	return d.proposalModulesWhere(func(p *resolvedProposalModule) bool {
		return p.info.Status == ProposalModuleEnabled
	})
}

func (d *DAO) proposalModulesWhere(keep func(*resolvedProposalModule) bool) ([]module.ProposalModule, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.info == nil {
		return nil, fmt.Errorf("%w: %s", ErrInfoNotLoaded, d.core)
	}

	modules := make([]module.ProposalModule, 0, len(d.proposalModules))
	for _, p := range d.proposalModules {
		if keep(p) {
			modules = append(modules, p.module)
		}
	}

	return modules, nil
}

func (d *DAO) ProposalModuleByAddress(address string) (module.ProposalModule, error) {
	return d.findProposalModule("address "+address, func(p *resolvedProposalModule) bool {
		return p.module.Address() == address
	})
}

func (d *DAO) ProposalModuleByPrefix(prefix string) (module.ProposalModule, error) {
	return d.findProposalModule("prefix "+prefix, func(p *resolvedProposalModule) bool {
		return p.info.Prefix == prefix
	})
}

func (d *DAO) findProposalModule(what string, match func(*resolvedProposalModule) bool) (module.ProposalModule, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.info == nil {
		return nil, fmt.Errorf("%w: %s", ErrInfoNotLoaded, d.core)
	}

	i := slices.IndexFunc(d.proposalModules, match)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s in DAO %s", ErrProposalModuleNotFound, what, d.core)
	}

	return d.proposalModules[i].module, nil
}

// ResolveProposalID parses a proposal id such as "A12" or "B*3" and returns the proposal module
// owning it.
func (d *DAO) ResolveProposalID(id string) (module.ProposalModule, module.ProposalID, error) {
	pid, err := module.ParseProposalID(id)
	if err != nil {
		return nil, module.ProposalID{}, err
	}

	m, err := d.ProposalModuleByPrefix(pid.Prefix)
	if err != nil {
		return nil, module.ProposalID{}, err
	}

	return m, pid, nil
}
