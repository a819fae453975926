// Package gptshim adapts calls made under a foreign calling convention to a Go
// timing facility.
//
// Callers address the timing routines by decorated symbol names, pass text as
// a fixed-width buffer with an out-of-band length and pass scalars by
// address. The shim marshals those arguments and forwards each call to a
// [gpt.Facility], returning the facility's integer status unchanged.
//
// # Architecture Overview
//
//	gptshim/           Root package with the Memory interface and constants
//	├── mangle/        Decoration schemes and the routine alias table
//	├── marshal/       Bounded text handles and option selectors
//	├── gpt/           Downstream timing facility contract and simple facilities
//	├── adapter/       The calling-convention adapter
//	├── engine/        wazero host module exporting the decorated routines
//	├── stubgen/       Caller-side binding stub generator (core wasm)
//	├── runtime/       High-level API tying engine, adapter and guests together
//	├── platform/      Platform capability descriptor
//	├── machine/       Machine handle (node/process/thread identifiers)
//	├── config/        TOML/YAML configuration
//	└── errors/        Structured error types
//
// # Quick Start
//
//	rt, err := runtime.New(ctx, gpt.NewRecorder())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	caller, err := rt.NewCaller(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer caller.Close(ctx)
//
//	status, err := caller.Start(ctx, "region_A")
//
// # Decoration Schemes
//
// Exactly one scheme is active per host module. Under [mangle.SchemeCaps]
// the start routine is exported as T_STARTF, under [mangle.SchemeUnderscore]
// as t_startf_ and under [mangle.SchemeDoubleUnderscore] as t_startf__.
//
// # Truncation
//
// Names longer than MaxChars are silently truncated to MaxChars bytes. This
// is not reported as an error.
package gptshim
