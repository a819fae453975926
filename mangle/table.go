package mangle

import (
	"sort"

	"github.com/wippyai/gpt-shim/errors"
)

// AliasSet holds every decorated spelling of one routine.
type AliasSet struct {
	Canonical        string
	Caps             string
	Underscore       string
	DoubleUnderscore string
}

// For returns the spelling under scheme.
func (a AliasSet) For(scheme Scheme) string {
	switch scheme {
	case SchemeCaps:
		return a.Caps
	case SchemeUnderscore:
		return a.Underscore
	case SchemeDoubleUnderscore:
		return a.DoubleUnderscore
	default:
		return a.Canonical
	}
}

// Export is one exported symbol.
type Export struct {
	Symbol  string
	Routine Routine
}

// Table maps canonical routine names to their alias sets.
// Immutable after construction.
type Table struct {
	aliases map[string]AliasSet
	reverse map[string]reverseEntry
	order   []Routine
}

type reverseEntry struct {
	canonical string
	scheme    Scheme
}

// NewTable builds the alias table for routines. It fails if two routines
// would share a spelling.
func NewTable(routines []Routine) (*Table, error) {
	t := &Table{
		aliases: make(map[string]AliasSet, len(routines)),
		reverse: make(map[string]reverseEntry, len(routines)*4),
		order:   make([]Routine, 0, len(routines)),
	}
	for _, r := range routines {
		if _, dup := t.aliases[r.Name]; dup {
			return nil, errors.New(errors.PhaseBind, errors.KindRegistration).
				Routine(r.Name).
				Detail("duplicate routine").
				Build()
		}
		set := AliasSet{
			Canonical:        r.Name,
			Caps:             Decorate(r.Name, SchemeCaps),
			Underscore:       Decorate(r.Name, SchemeUnderscore),
			DoubleUnderscore: Decorate(r.Name, SchemeDoubleUnderscore),
		}
		for _, s := range append([]Scheme{SchemeNone}, Schemes...) {
			sym := set.For(s)
			if prev, clash := t.reverse[sym]; clash && prev.canonical != r.Name {
				return nil, errors.New(errors.PhaseBind, errors.KindRegistration).
					Routine(r.Name).
					Symbol(sym).
					Detail("spelling already used by %s", prev.canonical).
					Build()
			}
			if _, seen := t.reverse[sym]; !seen {
				t.reverse[sym] = reverseEntry{canonical: r.Name, scheme: s}
			}
		}
		t.aliases[r.Name] = set
		t.order = append(t.order, r)
	}
	return t, nil
}

// DefaultTable is the alias table for the timing routine set.
func DefaultTable() *Table {
	t, err := NewTable(Routines())
	if err != nil {
		panic(err)
	}
	return t
}

// Aliases returns the alias set of a canonical routine name.
func (t *Table) Aliases(canonical string) (AliasSet, bool) {
	a, ok := t.aliases[canonical]
	return a, ok
}

// Alias returns the spelling of canonical under scheme.
func (t *Table) Alias(canonical string, scheme Scheme) (string, bool) {
	a, ok := t.aliases[canonical]
	if !ok {
		return "", false
	}
	return a.For(scheme), true
}

// Lookup resolves a decorated symbol back to its canonical name and the
// scheme that produced it. Undecorated names resolve to SchemeNone.
func (t *Table) Lookup(symbol string) (canonical string, scheme Scheme, ok bool) {
	e, ok := t.reverse[symbol]
	return e.canonical, e.scheme, ok
}

// Exports returns the symbols exported under scheme, one per routine, in
// routine order.
func (t *Table) Exports(scheme Scheme) []Export {
	out := make([]Export, 0, len(t.order))
	for _, r := range t.order {
		out = append(out, Export{Symbol: t.aliases[r.Name].For(scheme), Routine: r})
	}
	return out
}

// Canonical returns the canonical names sorted alphabetically.
func (t *Table) Canonical() []string {
	names := make([]string, 0, len(t.aliases))
	for name := range t.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
