package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/gpt-shim/config"
	shimerrors "github.com/wippyai/gpt-shim/errors"
	"github.com/wippyai/gpt-shim/gpt"
	"github.com/wippyai/gpt-shim/mangle"
	"github.com/wippyai/gpt-shim/stubgen"
)

func newRuntime(t *testing.T, f gpt.Facility, opts ...Option) *Runtime {
	t.Helper()
	ctx := context.Background()
	rt, err := New(ctx, f, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { rt.Close(ctx) })
	return rt
}

func newCaller(t *testing.T, rt *Runtime) *Caller {
	t.Helper()
	c, err := rt.NewCaller(context.Background())
	require.NoError(t, err)
	return c
}

func TestNew_Defaults(t *testing.T) {
	rt := newRuntime(t, gpt.Nop{})

	assert.Equal(t, "env", rt.Module())
	assert.Equal(t, mangle.SchemeNone, rt.Scheme())
	assert.Equal(t, 15, rt.Adapter().MaxChars())
	assert.Equal(t, []string{
		"t_initializef", "t_prf", "t_resetf", "t_setoptionf", "t_stampf", "t_startf", "t_stopf",
	}, rt.Symbols())
	assert.NotNil(t, rt.Engine())
}

func TestNew_NilFacility(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.True(t, errors.Is(err, &shimerrors.Error{Phase: shimerrors.PhaseRuntime, Kind: shimerrors.KindInvalidInput}))
}

func TestNew_Options(t *testing.T) {
	rt := newRuntime(t, gpt.Nop{},
		WithScheme(mangle.SchemeCaps),
		WithModule("gpt"),
		WithMaxChars(32),
		WithMemoryLimitPages(4))

	assert.Equal(t, "gpt", rt.Module())
	assert.Equal(t, mangle.SchemeCaps, rt.Scheme())
	assert.Equal(t, 32, rt.Adapter().MaxChars())
	assert.Contains(t, rt.Symbols(), "T_STARTF")
}

func TestNew_Config(t *testing.T) {
	cfg := config.Default()
	cfg.Platform.Preset = "linux_gnupgf90"
	cfg.Bridge.Module = "timing"
	cfg.Bridge.MaxChars = 8

	rt := newRuntime(t, gpt.Nop{}, WithConfig(cfg))
	assert.Equal(t, mangle.SchemeUnderscore, rt.Scheme())
	assert.Equal(t, "timing", rt.Module())
	assert.Equal(t, 8, rt.Adapter().MaxChars())

	// Explicit options override the config.
	rt2 := newRuntime(t, gpt.Nop{}, WithConfig(cfg), WithScheme(mangle.SchemeDoubleUnderscore), WithMaxChars(20))
	assert.Equal(t, mangle.SchemeDoubleUnderscore, rt2.Scheme())
	assert.Equal(t, 20, rt2.Adapter().MaxChars())
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Bridge.Scheme = "pascal"

	_, err := New(context.Background(), gpt.Nop{}, WithConfig(cfg))
	assert.True(t, errors.Is(err, &shimerrors.Error{Phase: shimerrors.PhaseConfig, Kind: shimerrors.KindInvalidInput}), "got %v", err)
}

func TestClose_Idempotent(t *testing.T) {
	ctx := context.Background()
	rt, err := New(ctx, gpt.Nop{})
	require.NoError(t, err)

	require.NoError(t, rt.Close(ctx))
	require.NoError(t, rt.Close(ctx))

	_, err = rt.Load(ctx, nil)
	assert.True(t, errors.Is(err, &shimerrors.Error{Phase: shimerrors.PhaseRuntime, Kind: shimerrors.KindNotInitialized}))
}

func TestCaller_AllRoutines(t *testing.T) {
	ctx := context.Background()

	for _, scheme := range append([]mangle.Scheme{mangle.SchemeNone}, mangle.Schemes...) {
		t.Run(scheme.String(), func(t *testing.T) {
			rec := gpt.NewRecorder()
			rec.SetStamp(10.5, 1.5, 0.5)
			rt := newRuntime(t, rec, WithScheme(scheme))
			c := newCaller(t, rt)
			defer c.Close(ctx)

			st, err := c.Initialize(ctx)
			require.NoError(t, err)
			assert.Zero(t, st)

			_, err = c.Pr(ctx, 5)
			require.NoError(t, err)

			_, err = c.SetOption(ctx, gpt.Wall, gpt.True)
			require.NoError(t, err)

			_, err = c.Start(ctx, "region_A")
			require.NoError(t, err)

			wall, usr, sys, _, err := c.Stamp(ctx)
			require.NoError(t, err)
			assert.Equal(t, [3]float64{10.5, 1.5, 0.5}, [3]float64{wall, usr, sys})

			_, err = c.Stop(ctx, "region_A")
			require.NoError(t, err)

			require.NoError(t, c.Reset(ctx))

			calls := rec.Calls()
			require.Len(t, calls, 7)
			assert.Equal(t, "initialize", calls[0].Routine)
			assert.Equal(t, int32(5), calls[1].ProcID)
			assert.Equal(t, gpt.Wall, calls[2].Option)
			assert.Equal(t, gpt.True, calls[2].Flag)
			assert.Equal(t, "region_A", calls[3].Name)
			assert.Equal(t, "stamp", calls[4].Routine)
			assert.Equal(t, "region_A", calls[5].Name)
			assert.Equal(t, "reset", calls[6].Routine)
		})
	}
}

func TestCaller_StatusVerbatim(t *testing.T) {
	ctx := context.Background()
	rec := gpt.NewRecorder()
	rec.SetStatus("start", -1)
	rec.SetStatus("stop", 7)
	rt := newRuntime(t, rec)
	c := newCaller(t, rt)

	st, err := c.Start(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, int32(-1), st)

	st, err = c.Stop(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, int32(7), st)
}

func TestCaller_Truncation(t *testing.T) {
	ctx := context.Background()
	rec := gpt.NewRecorder()
	core, logs := observer.New(zapcore.DebugLevel)
	rt := newRuntime(t, rec, WithMaxChars(16), WithLogger(zap.New(core)))
	c := newCaller(t, rt)

	st, err := c.Start(ctx, "region_A_very_long_label_exceeding_bound")
	require.NoError(t, err)
	assert.Zero(t, st)

	last, _ := rec.Last()
	assert.Equal(t, "region_A_very_lo", last.Name)
	assert.Equal(t, 1, logs.FilterMessage("timer name truncated").Len())
}

func TestCaller_DeclaredLength(t *testing.T) {
	ctx := context.Background()
	rec := gpt.NewRecorder()
	rt := newRuntime(t, rec)
	c := newCaller(t, rt)

	tests := []struct {
		name     string
		buf      string
		declared int32
		want     string
	}{
		{"shorter than buffer", "region_A", 6, "region"},
		{"zero", "region_A", 0, ""},
		{"negative", "region_A", -3, ""},
		{"embedded nul", "ab\x00cd", 5, "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Text(ctx, mangle.Start, []byte(tt.buf), tt.declared)
			require.NoError(t, err)
			last, _ := rec.Last()
			assert.Equal(t, tt.want, last.Name)
		})
	}

	_, err := c.Text(ctx, mangle.Pr, nil, 0)
	assert.Error(t, err)
}

func TestCaller_OptionPassThrough(t *testing.T) {
	ctx := context.Background()
	rec := gpt.NewRecorder()
	rt := newRuntime(t, rec)
	c := newCaller(t, rt)

	_, err := c.SetOption(ctx, gpt.OptionName(99), gpt.Boolean(2))
	require.NoError(t, err)
	last, _ := rec.Last()
	assert.Equal(t, gpt.OptionName(99), last.Option)
	assert.Equal(t, gpt.Boolean(2), last.Flag)
}

func TestLoad_SchemeMismatch(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t, gpt.Nop{}, WithScheme(mangle.SchemeUnderscore))

	bin, err := stubgen.Generate(stubgen.Options{Scheme: mangle.SchemeCaps})
	require.NoError(t, err)

	_, err = rt.Load(ctx, bin)
	assert.True(t, errors.Is(err, &shimerrors.Error{Phase: shimerrors.PhaseLoad, Kind: shimerrors.KindInstantiation}), "got %v", err)
}

func TestInstance_CallAndRequire(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t, gpt.Nop{})

	initialize, ok := mangle.Find(mangle.Initialize)
	require.True(t, ok)
	bin, err := stubgen.Generate(stubgen.Options{
		Routines: []mangle.Routine{initialize},
	})
	require.NoError(t, err)
	inst, err := rt.Load(ctx, bin)
	require.NoError(t, err)
	defer inst.Close(ctx)

	res, err := inst.Call(ctx, mangle.Initialize)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0}, res)

	_, err = inst.Call(ctx, mangle.Start, 0, 0)
	assert.True(t, errors.Is(err, &shimerrors.Error{Phase: shimerrors.PhaseRuntime, Kind: shimerrors.KindNotFound}))

	err = inst.Require(mangle.Initialize, mangle.Start, mangle.Stop)
	var missing *shimerrors.MissingExportsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{mangle.Start, mangle.Stop}, missing.Exports)

	assert.NotNil(t, inst.Module())
	assert.Equal(t, uint32(65536), inst.Memory().(interface{ Size() uint32 }).Size())
}

func TestInstance_OutOfBoundsSurfaces(t *testing.T) {
	ctx := context.Background()
	rt := newRuntime(t, gpt.Nop{})
	c := newCaller(t, rt)

	_, err := c.Instance().Call(ctx, mangle.Pr, 1<<20)
	assert.True(t, errors.Is(err, &shimerrors.Error{Phase: shimerrors.PhaseMarshal, Kind: shimerrors.KindOutOfBounds}), "got %v", err)
}
