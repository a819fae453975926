package engine

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/gpt-shim/adapter"
	"github.com/wippyai/gpt-shim/mangle"
	"github.com/wippyai/gpt-shim/marshal"
)

// hostFunc returns the wasm handler of a routine, or nil if the routine is
// unknown. Handlers panic with an out_of_bounds error when the caller passes
// an address outside its memory; wazero turns the panic into a call error.
func hostFunc(a *adapter.Adapter, routine string) api.GoModuleFunc {
	switch routine {
	case mangle.Initialize:
		return func(ctx context.Context, _ api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(a.Initializef(ctx))
		}

	case mangle.Pr:
		return func(ctx context.Context, mod api.Module, stack []uint64) {
			mem := callerMemory(mod, routine)
			procid := must(mem.ReadI32(api.DecodeU32(stack[0])))
			stack[0] = api.EncodeI32(a.Prf(ctx, &procid))
		}

	case mangle.Reset:
		return func(ctx context.Context, _ api.Module, _ []uint64) {
			a.Resetf(ctx)
		}

	case mangle.SetOption:
		return func(ctx context.Context, mod api.Module, stack []uint64) {
			mem := callerMemory(mod, routine)
			option := must(mem.ReadI32(api.DecodeU32(stack[0])))
			val := must(mem.ReadI32(api.DecodeU32(stack[1])))
			stack[0] = api.EncodeI32(a.SetOptionf(ctx, &option, &val))
		}

	case mangle.Stamp:
		return func(ctx context.Context, mod api.Module, stack []uint64) {
			mem := callerMemory(mod, routine)
			ptrs := [3]uint32{api.DecodeU32(stack[0]), api.DecodeU32(stack[1]), api.DecodeU32(stack[2])}

			// The facility writes through the addresses; carry the caller's
			// current values so untouched outputs stay as they were.
			var out [3]float64
			for i, p := range ptrs {
				out[i] = must(mem.ReadF64(p))
			}
			status := a.Stampf(ctx, &out[0], &out[1], &out[2])
			for i, p := range ptrs {
				if err := mem.WriteF64(p, out[i]); err != nil {
					panic(err)
				}
			}
			stack[0] = api.EncodeI32(status)
		}

	case mangle.Start, mangle.Stop:
		forward := a.Startf
		if routine == mangle.Stop {
			forward = a.Stopf
		}
		return func(ctx context.Context, mod api.Module, stack []uint64) {
			mem := callerMemory(mod, routine)
			ptr, nc := api.DecodeU32(stack[0]), api.DecodeI32(stack[1])
			name := must(marshal.ReadName(mem, ptr, nc, a.MaxChars()))
			stack[0] = api.EncodeI32(forward(ctx, name.CString(), nc))
		}
	}
	return nil
}

func callerMemory(mod api.Module, routine string) *WazeroMemory {
	var mem api.Memory
	if mod != nil {
		mem = mod.Memory()
	}
	return &WazeroMemory{mem: mem, routine: routine}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
