package mangle

import "github.com/tetratelabs/wazero/api"

// Canonical routine names.
const (
	Initialize = "t_initializef"
	Pr         = "t_prf"
	Reset      = "t_resetf"
	SetOption  = "t_setoptionf"
	Stamp      = "t_stampf"
	Start      = "t_startf"
	Stop       = "t_stopf"
)

// Routine describes one routine under the caller convention.
type Routine struct {
	Name       string
	ParamNames []string
	Params     []api.ValueType
	Results    []api.ValueType
}

var (
	i32 = api.ValueTypeI32

	routines = []Routine{
		{Name: Initialize, Results: []api.ValueType{i32}},
		{Name: Pr, ParamNames: []string{"procid"}, Params: []api.ValueType{i32}, Results: []api.ValueType{i32}},
		{Name: Reset},
		{Name: SetOption, ParamNames: []string{"option", "val"}, Params: []api.ValueType{i32, i32}, Results: []api.ValueType{i32}},
		{Name: Stamp, ParamNames: []string{"wall", "usr", "sys"}, Params: []api.ValueType{i32, i32, i32}, Results: []api.ValueType{i32}},
		{Name: Start, ParamNames: []string{"name", "nc"}, Params: []api.ValueType{i32, i32}, Results: []api.ValueType{i32}},
		{Name: Stop, ParamNames: []string{"name", "nc"}, Params: []api.ValueType{i32, i32}, Results: []api.ValueType{i32}},
	}
)

// Routines returns the routine set in a stable order. Every by-address
// argument and every name pointer is an i32 offset into caller memory;
// names carry their length as the trailing i32.
func Routines() []Routine {
	out := make([]Routine, len(routines))
	copy(out, routines)
	return out
}

// Find returns the routine with the canonical name.
func Find(name string) (Routine, bool) {
	for _, r := range routines {
		if r.Name == name {
			return r, true
		}
	}
	return Routine{}, false
}
