// Package gpt defines the downstream timing facility the shim forwards to.
//
// [Facility] mirrors the native timing library: every routine takes
// conventional Go values and returns an integer status code that the shim
// passes back to its caller untouched. Status 0 means success; any other
// value is facility specific.
//
// The package deliberately ships no timer stack. It provides:
//   - [Nop]: returns success for everything
//   - [Clock]: fills timestamps from the process clocks
//   - [Recorder]: records every call, for tests and tracing
//   - [Logged]: decorates a facility with zap logging
package gpt
