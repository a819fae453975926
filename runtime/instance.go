package runtime

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	gptshim "github.com/wippyai/gpt-shim"
	"github.com/wippyai/gpt-shim/engine"
	"github.com/wippyai/gpt-shim/errors"
)

// Instance is an instantiated guest module. Not safe for concurrent use.
type Instance struct {
	module api.Module
}

// Call invokes an exported function with raw wasm values.
func (i *Instance) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	fn := i.module.ExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseRuntime, "export", name)
	}
	results, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "call "+name)
	}
	return results, nil
}

// Require checks that every name is exported as a function.
func (i *Instance) Require(names ...string) error {
	defs := i.module.ExportedFunctionDefinitions()
	var missing []string
	for _, name := range names {
		if _, ok := defs[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &errors.MissingExportsError{Module: i.module.Name(), Exports: missing}
	}
	return nil
}

// Memory returns the guest's exported memory. It is zero-sized when the
// guest exports none.
func (i *Instance) Memory() gptshim.Memory {
	return engine.NewMemory(i.module.Memory())
}

// Module returns the underlying wazero module.
func (i *Instance) Module() api.Module {
	return i.module
}

func (i *Instance) Close(ctx context.Context) error {
	return i.module.Close(ctx)
}
