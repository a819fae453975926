package engine

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/gpt-shim/adapter"
	"github.com/wippyai/gpt-shim/errors"
	"github.com/wippyai/gpt-shim/mangle"
)

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	MemoryLimitPages uint32
}

// Engine owns a wazero runtime and the host modules bound into it.
// Thread-safe.
type Engine struct {
	runtime wazero.Runtime
	hosts   map[string]*HostModule
	table   *mangle.Table
	mu      sync.Mutex
}

// New creates a new wazero-based engine. cfg may be nil.
func New(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	return &Engine{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		hosts:   make(map[string]*HostModule),
		table:   mangle.DefaultTable(),
	}, nil
}

// Runtime returns the wazero runtime.
func (e *Engine) Runtime() wazero.Runtime {
	return e.runtime
}

// Table returns the routine alias table.
func (e *Engine) Table() *mangle.Table {
	return e.table
}

// Close releases the runtime and every module in it.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	e.hosts = make(map[string]*HostModule)
	e.mu.Unlock()
	return e.runtime.Close(ctx)
}

// BindConfig selects the host module name and decoration scheme.
type BindConfig struct {
	Module string
	Scheme mangle.Scheme
}

// HostModule is an instantiated host module exporting the routine set.
type HostModule struct {
	module  api.Module
	engine  *Engine
	Name    string
	Exports []mangle.Export
	Scheme  mangle.Scheme
}

// Close removes the host module from the engine.
func (h *HostModule) Close(ctx context.Context) error {
	h.engine.mu.Lock()
	delete(h.engine.hosts, h.Name)
	h.engine.mu.Unlock()
	return h.module.Close(ctx)
}

// Symbols returns the exported symbol names.
func (h *HostModule) Symbols() []string {
	out := make([]string, len(h.Exports))
	for i, exp := range h.Exports {
		out[i] = exp.Symbol
	}
	return out
}

// Bind instantiates a host module that exports every routine under the
// scheme's spelling and forwards calls through a.
func (e *Engine) Bind(ctx context.Context, a *adapter.Adapter, cfg BindConfig) (*HostModule, error) {
	if cfg.Module == "" {
		cfg.Module = "env"
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.hosts[cfg.Module]; exists || e.runtime.Module(cfg.Module) != nil {
		return nil, errors.New(errors.PhaseBind, errors.KindRegistration).
			Detail("module %q already bound", cfg.Module).
			Build()
	}

	exports := e.table.Exports(cfg.Scheme)
	builder := e.runtime.NewHostModuleBuilder(cfg.Module)
	for _, exp := range exports {
		fn := hostFunc(a, exp.Routine.Name)
		if fn == nil {
			return nil, errors.Registration(cfg.Module, exp.Symbol,
				errors.NotFound(errors.PhaseBind, "handler", exp.Routine.Name))
		}
		fb := builder.NewFunctionBuilder().
			WithGoModuleFunction(fn, exp.Routine.Params, exp.Routine.Results).
			WithName(exp.Routine.Name)
		if len(exp.Routine.ParamNames) > 0 {
			fb = fb.WithParameterNames(exp.Routine.ParamNames...)
		}
		fb.Export(exp.Symbol)
	}

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseBind, errors.KindRegistration, err, "instantiate host module "+cfg.Module)
	}

	h := &HostModule{
		module:  mod,
		engine:  e,
		Name:    cfg.Module,
		Exports: exports,
		Scheme:  cfg.Scheme,
	}
	e.hosts[cfg.Module] = h

	Logger().Debug("host module bound",
		zap.String("module", cfg.Module),
		zap.Stringer("scheme", cfg.Scheme),
		zap.Strings("symbols", h.Symbols()))
	return h, nil
}

// Host returns a bound host module by name.
func (e *Engine) Host(name string) (*HostModule, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	h, ok := e.hosts[name]
	return h, ok
}

// Instantiate compiles and instantiates a caller module. An empty name
// leaves the module anonymous so that several instances may coexist.
func (e *Engine) Instantiate(ctx context.Context, wasm []byte, name string) (api.Module, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidData, err, "compile module")
	}

	mod, err := e.runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		_ = compiled.Close(ctx)
		return nil, errors.Instantiation(err)
	}
	return mod, nil
}
