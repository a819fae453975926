package marshal

import "github.com/wippyai/gpt-shim/gpt"

// Selector is a converted option/flag pair.
type Selector struct {
	Option gpt.OptionName
	Flag   gpt.Boolean
}

// Select maps the raw option code and flag to the facility enumerations.
// Out-of-range values are passed through unchanged.
func Select(option, val int32) Selector {
	return Selector{Option: gpt.OptionName(option), Flag: gpt.Boolean(val)}
}
