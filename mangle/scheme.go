// Package mangle names the timing routines the way foreign toolchains expect.
//
// A decoration scheme turns a canonical routine name such as t_startf into
// the symbol a caller links against: T_STARTF, t_startf_ or t_startf__.
// One scheme is chosen when a host module is built; the alias [Table] maps
// every routine to all of its spellings so that tools can list and reverse
// them.
package mangle

import (
	"strings"

	"github.com/wippyai/gpt-shim/errors"
)

// Scheme is a symbol decoration convention.
type Scheme int

const (
	// SchemeNone exports routines under their canonical names.
	SchemeNone Scheme = iota
	// SchemeCaps exports verbatim-uppercase names.
	SchemeCaps
	// SchemeUnderscore appends one trailing underscore.
	SchemeUnderscore
	// SchemeDoubleUnderscore appends two trailing underscores.
	SchemeDoubleUnderscore
)

// Schemes lists the decorating schemes in resolution order.
var Schemes = []Scheme{SchemeCaps, SchemeUnderscore, SchemeDoubleUnderscore}

func (s Scheme) String() string {
	switch s {
	case SchemeNone:
		return "none"
	case SchemeCaps:
		return "caps"
	case SchemeUnderscore:
		return "underscore"
	case SchemeDoubleUnderscore:
		return "double-underscore"
	default:
		return "unknown"
	}
}

// MacroName returns the build macro that historically selected s.
func (s Scheme) MacroName() string {
	switch s {
	case SchemeCaps:
		return "FORTRANCAPS"
	case SchemeUnderscore:
		return "FORTRANUNDERSCORE"
	case SchemeDoubleUnderscore:
		return "FORTRANDOUBLEUNDERSCORE"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Scheme) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scheme) UnmarshalText(text []byte) error {
	parsed, err := ParseScheme(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseScheme parses a scheme name. Both the short names and the macro
// names are accepted, case-insensitively. The empty string is SchemeNone.
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return SchemeNone, nil
	case "caps", "upper", "fortrancaps":
		return SchemeCaps, nil
	case "underscore", "fortranunderscore":
		return SchemeUnderscore, nil
	case "double-underscore", "double_underscore", "fortrandoubleunderscore":
		return SchemeDoubleUnderscore, nil
	}
	return SchemeNone, errors.New(errors.PhaseConfig, errors.KindInvalidInput).
		Value(name).
		Detail("unknown decoration scheme %q", name).
		Build()
}

// Decorate returns name spelled under scheme.
func Decorate(name string, scheme Scheme) string {
	switch scheme {
	case SchemeCaps:
		return strings.ToUpper(name)
	case SchemeUnderscore:
		return name + "_"
	case SchemeDoubleUnderscore:
		return name + "__"
	default:
		return name
	}
}
