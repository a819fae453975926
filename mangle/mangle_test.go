package mangle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero/api"

	shimerrors "github.com/wippyai/gpt-shim/errors"
)

func TestDecorate(t *testing.T) {
	tests := []struct {
		scheme Scheme
		want   string
	}{
		{SchemeNone, "t_startf"},
		{SchemeCaps, "T_STARTF"},
		{SchemeUnderscore, "t_startf_"},
		{SchemeDoubleUnderscore, "t_startf__"},
	}
	for _, tt := range tests {
		t.Run(tt.scheme.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Decorate("t_startf", tt.scheme))
		})
	}
}

func TestParseScheme(t *testing.T) {
	tests := map[string]Scheme{
		"":                        SchemeNone,
		"none":                    SchemeNone,
		"caps":                    SchemeCaps,
		"FORTRANCAPS":             SchemeCaps,
		"underscore":              SchemeUnderscore,
		"FORTRANUNDERSCORE":       SchemeUnderscore,
		" Double-Underscore ":     SchemeDoubleUnderscore,
		"double_underscore":       SchemeDoubleUnderscore,
		"FORTRANDOUBLEUNDERSCORE": SchemeDoubleUnderscore,
	}
	for in, want := range tests {
		got, err := ParseScheme(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseScheme("triple")
	require.Error(t, err)
	assert.True(t, errors.Is(err, &shimerrors.Error{Phase: shimerrors.PhaseConfig, Kind: shimerrors.KindInvalidInput}))
}

func TestScheme_TextRoundTrip(t *testing.T) {
	for _, s := range append([]Scheme{SchemeNone}, Schemes...) {
		text, err := s.MarshalText()
		require.NoError(t, err)
		var back Scheme
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, s, back)
	}
}

func TestScheme_MacroName(t *testing.T) {
	assert.Equal(t, "FORTRANCAPS", SchemeCaps.MacroName())
	assert.Equal(t, "FORTRANUNDERSCORE", SchemeUnderscore.MacroName())
	assert.Equal(t, "FORTRANDOUBLEUNDERSCORE", SchemeDoubleUnderscore.MacroName())
	assert.Empty(t, SchemeNone.MacroName())
	assert.Equal(t, "unknown", Scheme(42).String())
}

func TestRoutines(t *testing.T) {
	rs := Routines()
	require.Len(t, rs, 7)

	start, ok := Find(Start)
	require.True(t, ok)
	assert.Equal(t, []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, start.Params)
	assert.Equal(t, []string{"name", "nc"}, start.ParamNames)

	reset, ok := Find(Reset)
	require.True(t, ok)
	assert.Empty(t, reset.Params)
	assert.Empty(t, reset.Results, "reset returns nothing")

	stamp, _ := Find(Stamp)
	assert.Len(t, stamp.Params, 3)

	_, ok = Find("t_nonexistent")
	assert.False(t, ok)

	rs[0].Name = "mutated"
	assert.Equal(t, Initialize, Routines()[0].Name, "Routines returns a copy")
}

func TestTable_TotalOverRoutines(t *testing.T) {
	table := DefaultTable()

	for _, r := range Routines() {
		set, ok := table.Aliases(r.Name)
		require.True(t, ok, r.Name)
		for _, s := range append([]Scheme{SchemeNone}, Schemes...) {
			alias, ok := table.Alias(r.Name, s)
			require.True(t, ok)
			assert.Equal(t, Decorate(r.Name, s), alias)
			assert.Equal(t, alias, set.For(s))
		}
	}

	_, ok := table.Alias("t_missing", SchemeCaps)
	assert.False(t, ok)
}

func TestTable_LookupInvertsAlias(t *testing.T) {
	table := DefaultTable()

	for _, name := range table.Canonical() {
		for _, s := range append([]Scheme{SchemeNone}, Schemes...) {
			alias, _ := table.Alias(name, s)
			canonical, scheme, ok := table.Lookup(alias)
			require.True(t, ok, alias)
			assert.Equal(t, name, canonical)
			assert.Equal(t, s, scheme)
		}
	}

	_, _, ok := table.Lookup("T_STARTF_")
	assert.False(t, ok)
}

func TestTable_Exports(t *testing.T) {
	table := DefaultTable()

	exports := table.Exports(SchemeCaps)
	require.Len(t, exports, 7)
	assert.Equal(t, "T_INITIALIZEF", exports[0].Symbol)
	assert.Equal(t, Initialize, exports[0].Routine.Name)

	seen := map[string]bool{}
	for _, e := range table.Exports(SchemeDoubleUnderscore) {
		assert.False(t, seen[e.Symbol], "duplicate export %s", e.Symbol)
		seen[e.Symbol] = true
		assert.Regexp(t, `^t_[a-z]+f__$`, e.Symbol)
	}
}

func TestNewTable_Duplicate(t *testing.T) {
	_, err := NewTable([]Routine{{Name: "a"}, {Name: "a"}})
	require.Error(t, err)

	_, err = NewTable([]Routine{{Name: "a"}, {Name: "A"}})
	require.Error(t, err, "caps spelling clash")
	var se *shimerrors.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "A", se.Symbol)
}
