package gpt

import (
	"context"

	"go.uber.org/zap"
)

// Logged decorates a Facility with debug logging of every call and its
// status. Non-zero statuses are logged at warn level.
type Logged struct {
	next Facility
	log  *zap.Logger
}

// WithLogging wraps f. A nil logger disables logging.
func WithLogging(f Facility, log *zap.Logger) *Logged {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logged{next: f, log: log.Named("gpt")}
}

func (l *Logged) done(routine string, status int32, fields ...zap.Field) int32 {
	fields = append(fields, zap.Int32("status", status))
	if status != 0 {
		l.log.Warn(routine+" returned non-zero status", fields...)
	} else {
		l.log.Debug(routine, fields...)
	}
	return status
}

func (l *Logged) Initialize(ctx context.Context) int32 {
	return l.done("initialize", l.next.Initialize(ctx))
}

func (l *Logged) Pr(ctx context.Context, procID int32) int32 {
	return l.done("pr", l.next.Pr(ctx, procID), zap.Int32("procid", procID))
}

func (l *Logged) Reset(ctx context.Context) {
	l.next.Reset(ctx)
	l.log.Debug("reset")
}

func (l *Logged) SetOption(ctx context.Context, option OptionName, val Boolean) int32 {
	return l.done("setoption", l.next.SetOption(ctx, option, val),
		zap.Stringer("option", option), zap.Stringer("val", val))
}

func (l *Logged) Stamp(ctx context.Context, wall, usr, sys *float64) int32 {
	status := l.next.Stamp(ctx, wall, usr, sys)
	return l.done("stamp", status, zap.Float64("wall", *wall), zap.Float64("usr", *usr), zap.Float64("sys", *sys))
}

func (l *Logged) Start(ctx context.Context, name string) int32 {
	return l.done("start", l.next.Start(ctx, name), zap.String("name", name))
}

func (l *Logged) Stop(ctx context.Context, name string) int32 {
	return l.done("stop", l.next.Stop(ctx, name), zap.String("name", name))
}

var _ Facility = (*Logged)(nil)
