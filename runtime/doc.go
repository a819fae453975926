// Package runtime provides the high-level API of the shim.
//
// A Runtime owns a wasm engine, one adapter around a [gpt.Facility] and the
// host module exporting the decorated routines. Guest modules loaded into it
// link against that host module.
//
// # Quick Start
//
//	ctx := context.Background()
//	rt, err := runtime.New(ctx, gpt.NewClock(),
//	    runtime.WithScheme(mangle.SchemeUnderscore))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	// Load a guest compiled against the underscore spelling
//	inst, err := rt.Load(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close(ctx)
//
//	results, err := inst.Call(ctx, "main")
//
// # Callers
//
// NewCaller builds a generated stub for the runtime's scheme and wraps it in
// typed methods. The stub plays the foreign caller: names and by-address
// arguments are placed in its memory before each call.
//
//	caller, err := rt.NewCaller(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer caller.Close(ctx)
//
//	caller.Start(ctx, "region_A")
//	wall, usr, sys, _, err := caller.Stamp(ctx)
//	caller.Stop(ctx, "region_A")
//
// # Configuration
//
// WithConfig applies a [config.Config]; individual options given after it
// override its values.
package runtime
