// Package stubgen generates caller-side binding stubs.
//
// A stub is a core WebAssembly module that imports the timing routines
// under one decoration scheme and re-exports each of them, under its
// canonical name, through a trampoline. The stub also exports its linear
// memory so that hosts and tests can place names and by-address arguments
// in it, playing the role of foreign caller code:
//
//	(module
//	  (import "env" "t_startf_" (func $imp (param i32 i32) (result i32)))
//	  (memory (export "memory") 1)
//	  (func (export "t_startf") (param i32 i32) (result i32)
//	    local.get 0
//	    local.get 1
//	    call $imp))
package stubgen

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/gpt-shim/errors"
	"github.com/wippyai/gpt-shim/mangle"
	"github.com/wippyai/gpt-shim/stubgen/internal/binary"
)

// Binary format constants.
const (
	magic   uint32 = 0x6d736100 // \0asm
	version uint32 = 1

	sectionType     byte = 1
	sectionImport   byte = 2
	sectionFunction byte = 3
	sectionMemory   byte = 5
	sectionExport   byte = 7
	sectionCode     byte = 10

	kindFunc   byte = 0
	kindMemory byte = 2

	funcTypeByte byte = 0x60
	opLocalGet   byte = 0x20
	opCall       byte = 0x10
	opEnd        byte = 0x0b

	maxPages = 65536
)

// MemoryExport is the export name of the stub's linear memory.
const MemoryExport = "memory"

// Options configures stub generation.
type Options struct {
	// Module is the import module name. Defaults to "env".
	Module string
	// Routines defaults to the full routine set.
	Routines []mangle.Routine
	Scheme   mangle.Scheme
	// MemoryPages is the initial memory size in 64KB pages. Defaults to 1.
	MemoryPages uint32
}

// Generate encodes a stub module.
func Generate(opts Options) ([]byte, error) {
	if opts.Module == "" {
		opts.Module = "env"
	}
	if opts.Routines == nil {
		opts.Routines = mangle.Routines()
	}
	if opts.MemoryPages == 0 {
		opts.MemoryPages = 1
	}
	if opts.MemoryPages > maxPages {
		return nil, errors.New(errors.PhaseGenerate, errors.KindInvalidInput).
			Value(opts.MemoryPages).
			Detail("memory pages %d exceed %d", opts.MemoryPages, maxPages).
			Build()
	}
	if len(opts.Routines) == 0 {
		return nil, errors.InvalidInput(errors.PhaseGenerate, "no routines")
	}

	seen := make(map[string]bool, len(opts.Routines))
	for _, r := range opts.Routines {
		if r.Name == "" || r.Name == MemoryExport || seen[r.Name] {
			return nil, errors.New(errors.PhaseGenerate, errors.KindInvalidInput).
				Routine(r.Name).
				Detail("invalid or duplicate routine name").
				Build()
		}
		seen[r.Name] = true
		if err := checkTypes(r); err != nil {
			return nil, err
		}
	}

	n := uint32(len(opts.Routines))
	w := binary.NewWriter()

	// Magic number and version
	w.WriteU32LE(magic)
	w.WriteU32LE(version)

	// Type section: one signature per routine
	sec := binary.NewWriter()
	sec.WriteU32(n)
	for _, r := range opts.Routines {
		sec.Byte(funcTypeByte)
		writeValTypes(sec, r.Params)
		writeValTypes(sec, r.Results)
	}
	w.Section(sectionType, sec)

	// Import section: decorated symbols, function indices [0, n)
	sec = binary.NewWriter()
	sec.WriteU32(n)
	for i, r := range opts.Routines {
		sec.WriteName(opts.Module)
		sec.WriteName(mangle.Decorate(r.Name, opts.Scheme))
		sec.Byte(kindFunc)
		sec.WriteU32(uint32(i))
	}
	w.Section(sectionImport, sec)

	// Function section: trampolines, function indices [n, 2n)
	sec = binary.NewWriter()
	sec.WriteU32(n)
	for i := range opts.Routines {
		sec.WriteU32(uint32(i))
	}
	w.Section(sectionFunction, sec)

	// Memory section
	sec = binary.NewWriter()
	sec.WriteU32(1)
	sec.Byte(0x00) // no maximum
	sec.WriteU32(opts.MemoryPages)
	w.Section(sectionMemory, sec)

	// Export section
	sec = binary.NewWriter()
	sec.WriteU32(n + 1)
	for i, r := range opts.Routines {
		sec.WriteName(r.Name)
		sec.Byte(kindFunc)
		sec.WriteU32(n + uint32(i))
	}
	sec.WriteName(MemoryExport)
	sec.Byte(kindMemory)
	sec.WriteU32(0)
	w.Section(sectionExport, sec)

	// Code section
	sec = binary.NewWriter()
	sec.WriteU32(n)
	for i, r := range opts.Routines {
		body := binary.NewWriter()
		body.WriteU32(0) // no locals
		for p := range r.Params {
			body.Byte(opLocalGet)
			body.WriteU32(uint32(p))
		}
		body.Byte(opCall)
		body.WriteU32(uint32(i))
		body.Byte(opEnd)

		sec.WriteU32(uint32(len(body.Bytes())))
		sec.WriteBytes(body.Bytes())
	}
	w.Section(sectionCode, sec)

	return w.Bytes(), nil
}

func writeValTypes(w *binary.Writer, types []api.ValueType) {
	w.WriteU32(uint32(len(types)))
	for _, t := range types {
		w.Byte(t)
	}
}

func checkTypes(r mangle.Routine) error {
	if len(r.Results) > 1 {
		return errors.New(errors.PhaseGenerate, errors.KindUnsupported).
			Routine(r.Name).
			Detail("multiple results").
			Build()
	}
	for _, group := range [][]api.ValueType{r.Params, r.Results} {
		for _, t := range group {
			switch t {
			case api.ValueTypeI32, api.ValueTypeI64, api.ValueTypeF32, api.ValueTypeF64:
			default:
				return errors.New(errors.PhaseGenerate, errors.KindUnsupported).
					Routine(r.Name).
					Detail("value type %s", api.ValueTypeName(t)).
					Build()
			}
		}
	}
	return nil
}
