package engine

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/gpt-shim/adapter"
	"github.com/wippyai/gpt-shim/gpt"
	"github.com/wippyai/gpt-shim/mangle"
)

func TestLogger_BindEvent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	ctx := context.Background()
	eng, err := New(ctx, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer eng.Close(ctx)

	if _, err := eng.Bind(ctx, adapter.New(gpt.Nop{}), BindConfig{Scheme: mangle.SchemeCaps}); err != nil {
		t.Fatal(err)
	}

	entries := logs.FilterMessage("host module bound").All()
	if len(entries) != 1 {
		t.Fatalf("got %d bind entries", len(entries))
	}
	if got := entries[0].ContextMap()["scheme"]; got != "caps" {
		t.Errorf("scheme field = %v", got)
	}
}

func TestLogger_DefaultNop(t *testing.T) {
	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("Logger should never be nil")
	}
}
