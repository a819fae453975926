package runtime

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/wippyai/gpt-shim/adapter"
	"github.com/wippyai/gpt-shim/config"
	"github.com/wippyai/gpt-shim/engine"
	"github.com/wippyai/gpt-shim/errors"
	"github.com/wippyai/gpt-shim/gpt"
	"github.com/wippyai/gpt-shim/mangle"
)

type options struct {
	cfg              *config.Config
	logger           *zap.Logger
	module           string
	scheme           mangle.Scheme
	maxChars         int
	memoryLimitPages uint32
	schemeSet        bool
}

// Option configures a Runtime.
type Option func(*options)

// WithConfig applies the bridge and engine sections of cfg. The scheme is
// resolved through cfg.Scheme.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.cfg = &cfg
	}
}

// WithScheme selects the decoration scheme of the host module.
func WithScheme(s mangle.Scheme) Option {
	return func(o *options) {
		o.scheme = s
		o.schemeSet = true
	}
}

// WithModule sets the import module name. Defaults to "env".
func WithModule(name string) Option {
	return func(o *options) {
		o.module = name
	}
}

// WithMaxChars sets the name bound.
func WithMaxChars(n int) Option {
	return func(o *options) {
		o.maxChars = n
	}
}

// WithMemoryLimitPages caps guest memory in 64KB pages.
func WithMemoryLimitPages(pages uint32) Option {
	return func(o *options) {
		o.memoryLimitPages = pages
	}
}

// WithLogger sets the logger used by the runtime and its adapter.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		o.logger = log
	}
}

// Runtime binds a facility into a wasm engine.
type Runtime struct {
	engine  *engine.Engine
	adapter *adapter.Adapter
	host    *engine.HostModule
	log     *zap.Logger
	closed  atomic.Bool
}

// New creates a runtime forwarding every routine to f.
func New(ctx context.Context, f gpt.Facility, opts ...Option) (*Runtime, error) {
	if f == nil {
		return nil, errors.InvalidInput(errors.PhaseRuntime, "facility is nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.resolve(); err != nil {
		return nil, err
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}

	eng, err := engine.New(ctx, &engine.Config{MemoryLimitPages: o.memoryLimitPages})
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInstantiation, err, "create engine")
	}

	adapterOpts := []adapter.Option{adapter.WithLogger(o.logger)}
	if o.maxChars > 0 {
		adapterOpts = append(adapterOpts, adapter.WithMaxChars(o.maxChars))
	}
	a := adapter.New(f, adapterOpts...)

	host, err := eng.Bind(ctx, a, engine.BindConfig{Module: o.module, Scheme: o.scheme})
	if err != nil {
		_ = eng.Close(ctx)
		return nil, err
	}

	o.logger.Info("runtime ready",
		zap.String("module", host.Name),
		zap.Stringer("scheme", host.Scheme),
		zap.Int("max_chars", a.MaxChars()))

	return &Runtime{
		engine:  eng,
		adapter: a,
		host:    host,
		log:     o.logger,
	}, nil
}

// resolve folds the config into the explicit options. Explicit options win.
func (o *options) resolve() error {
	if o.cfg == nil {
		return nil
	}
	if err := o.cfg.Validate(); err != nil {
		return err
	}
	if !o.schemeSet {
		s, err := o.cfg.Scheme()
		if err != nil {
			return err
		}
		o.scheme = s
	}
	if o.module == "" {
		o.module = o.cfg.Bridge.Module
	}
	if o.maxChars == 0 {
		o.maxChars = o.cfg.Bridge.MaxChars
	}
	if o.memoryLimitPages == 0 {
		o.memoryLimitPages = o.cfg.Engine.MemoryLimitPages
	}
	return nil
}

// Close releases the engine with every guest loaded into it. Safe to call
// more than once.
func (r *Runtime) Close(ctx context.Context) error {
	if r.closed.Swap(true) {
		return nil
	}
	return r.engine.Close(ctx)
}

// Scheme returns the active decoration scheme.
func (r *Runtime) Scheme() mangle.Scheme {
	return r.host.Scheme
}

// Module returns the import module name guests link against.
func (r *Runtime) Module() string {
	return r.host.Name
}

// Symbols returns the exported symbol names in routine order.
func (r *Runtime) Symbols() []string {
	return r.host.Symbols()
}

func (r *Runtime) Adapter() *adapter.Adapter {
	return r.adapter
}

func (r *Runtime) Engine() *engine.Engine {
	return r.engine
}

// Load compiles and instantiates a guest module. Its imports must use the
// runtime's module name and scheme.
func (r *Runtime) Load(ctx context.Context, wasm []byte) (*Instance, error) {
	if r.closed.Load() {
		return nil, errors.NotInitialized(errors.PhaseRuntime, "runtime")
	}
	mod, err := r.engine.Instantiate(ctx, wasm, "")
	if err != nil {
		return nil, err
	}
	r.log.Debug("guest loaded", zap.Int("exports", len(mod.ExportedFunctionDefinitions())))
	return &Instance{module: mod}, nil
}
