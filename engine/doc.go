// Package engine exports the timing routines to WebAssembly callers.
//
// The caller convention maps directly onto wasm core types:
//
//	Caller argument        Core Representation
//	──────────────────────────────────────────
//	INTEGER (by address)   i32 offset into caller memory
//	REAL*8 (by address)    i32 offset into caller memory
//	CHARACTER*(*)          (ptr, len) as i32×2, len trailing
//	status result          i32
//
// # Binding Flow
//
//  1. Engine.Bind builds a host module (default name "env") whose exports
//     are the routines spelled under one decoration scheme
//  2. Caller modules import those symbols and are instantiated with
//     Engine.Instantiate
//  3. Each host function reads its arguments from the calling module's
//     memory, forwards through the adapter and writes outputs back
//
// Only one scheme is exported per host module. A caller built for another
// toolchain fails to instantiate with an unresolved import, exactly as it
// would fail to link.
//
// # Memory Safety
//
// Names are read with a bounded window of min(len, MaxChars) bytes; nothing
// past that window is touched. An address outside caller memory aborts the
// call with an out_of_bounds error instead of reading stray bytes.
package engine
