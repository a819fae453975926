// Package adapter forwards caller-convention calls to a timing facility.
//
// Each method mirrors one decorated routine: integers arrive by address,
// names arrive as a buffer plus an out-of-band length. The adapter
// dereferences, copies and converts, then returns the facility's status
// unchanged. It never validates, retries or reports errors of its own; an
// over-long name is truncated to MaxChars without notice.
package adapter

import (
	"context"

	"go.uber.org/zap"

	gptshim "github.com/wippyai/gpt-shim"
	"github.com/wippyai/gpt-shim/gpt"
	"github.com/wippyai/gpt-shim/mangle"
	"github.com/wippyai/gpt-shim/marshal"
)

// Adapter is safe for concurrent use if the facility is.
type Adapter struct {
	facility gpt.Facility
	log      *zap.Logger
	maxChars int
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithMaxChars sets the longest name passed downstream. Non-positive
// values keep the default.
func WithMaxChars(n int) Option {
	return func(a *Adapter) {
		if n > 0 {
			a.maxChars = n
		}
	}
}

// WithLogger sets the logger used for truncation notices.
func WithLogger(log *zap.Logger) Option {
	return func(a *Adapter) {
		if log != nil {
			a.log = log
		}
	}
}

// New creates an adapter forwarding to f.
func New(f gpt.Facility, opts ...Option) *Adapter {
	a := &Adapter{
		facility: f,
		log:      zap.NewNop(),
		maxChars: gptshim.DefaultMaxChars,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Facility returns the downstream facility.
func (a *Adapter) Facility() gpt.Facility {
	return a.facility
}

// MaxChars returns the name length ceiling.
func (a *Adapter) MaxChars() int {
	return a.maxChars
}

func (a *Adapter) Initializef(ctx context.Context) int32 {
	return a.facility.Initialize(ctx)
}

func (a *Adapter) Prf(ctx context.Context, procid *int32) int32 {
	return a.facility.Pr(ctx, *procid)
}

func (a *Adapter) Resetf(ctx context.Context) {
	a.facility.Reset(ctx)
}

func (a *Adapter) SetOptionf(ctx context.Context, option, val *int32) int32 {
	sel := marshal.Select(*option, *val)
	return a.facility.SetOption(ctx, sel.Option, sel.Flag)
}

func (a *Adapter) Stampf(ctx context.Context, wall, usr, sys *float64) int32 {
	return a.facility.Stamp(ctx, wall, usr, sys)
}

func (a *Adapter) Startf(ctx context.Context, name []byte, nc int32) int32 {
	return a.facility.Start(ctx, a.name(mangle.Start, name, nc))
}

func (a *Adapter) Stopf(ctx context.Context, name []byte, nc int32) int32 {
	return a.facility.Stop(ctx, a.name(mangle.Stop, name, nc))
}

// Name returns the marshaled form of a caller name as Startf and Stopf
// would pass it downstream.
func (a *Adapter) Name(name []byte, nc int32) string {
	return marshal.Copy(name, nc, a.maxChars).String()
}

func (a *Adapter) name(routine string, buf []byte, nc int32) string {
	n := marshal.Copy(buf, nc, a.maxChars)
	if n.Truncated() {
		a.log.Debug("timer name truncated",
			zap.String("routine", routine),
			zap.Int32("declared", nc),
			zap.Int("max_chars", a.maxChars),
			zap.String("name", n.String()))
	}
	return n.String()
}
