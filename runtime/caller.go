package runtime

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/gpt-shim/errors"
	"github.com/wippyai/gpt-shim/gpt"
	"github.com/wippyai/gpt-shim/mangle"
	"github.com/wippyai/gpt-shim/stubgen"
)

// Scratch layout in the stub's memory.
const (
	slotProcID = 0
	slotOption = 4
	slotFlag   = 8
	slotWall   = 16
	slotUsr    = 24
	slotSys    = 32
	slotName   = 64
)

// Caller drives the routines through a generated stub, the way foreign code
// compiled against the runtime's scheme would. Not safe for concurrent use.
type Caller struct {
	inst *Instance
}

// NewCaller generates a stub for the runtime's module and scheme and loads it.
func (r *Runtime) NewCaller(ctx context.Context) (*Caller, error) {
	bin, err := stubgen.Generate(stubgen.Options{
		Module: r.Module(),
		Scheme: r.Scheme(),
	})
	if err != nil {
		return nil, err
	}
	inst, err := r.Load(ctx, bin)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(mangle.Routines()))
	for _, rt := range mangle.Routines() {
		names = append(names, rt.Name)
	}
	if err := inst.Require(names...); err != nil {
		_ = inst.Close(ctx)
		return nil, err
	}
	return &Caller{inst: inst}, nil
}

// Instance returns the stub instance.
func (c *Caller) Instance() *Instance {
	return c.inst
}

func (c *Caller) Close(ctx context.Context) error {
	return c.inst.Close(ctx)
}

func (c *Caller) status(ctx context.Context, routine string, params ...uint64) (int32, error) {
	res, err := c.inst.Call(ctx, routine, params...)
	if err != nil {
		return 0, err
	}
	return api.DecodeI32(res[0]), nil
}

func (c *Caller) Initialize(ctx context.Context) (int32, error) {
	return c.status(ctx, mangle.Initialize)
}

// Pr passes procID by address.
func (c *Caller) Pr(ctx context.Context, procID int32) (int32, error) {
	if err := c.inst.Memory().WriteI32(slotProcID, procID); err != nil {
		return 0, err
	}
	return c.status(ctx, mangle.Pr, slotProcID)
}

func (c *Caller) Reset(ctx context.Context) error {
	_, err := c.inst.Call(ctx, mangle.Reset)
	return err
}

// SetOption passes option and flag by address.
func (c *Caller) SetOption(ctx context.Context, option gpt.OptionName, flag gpt.Boolean) (int32, error) {
	mem := c.inst.Memory()
	if err := mem.WriteI32(slotOption, int32(option)); err != nil {
		return 0, err
	}
	if err := mem.WriteI32(slotFlag, int32(flag)); err != nil {
		return 0, err
	}
	return c.status(ctx, mangle.SetOption, slotOption, slotFlag)
}

// Stamp returns the values the facility wrote through the three output
// addresses. Outputs start at zero.
func (c *Caller) Stamp(ctx context.Context) (wall, usr, sys float64, status int32, err error) {
	mem := c.inst.Memory()
	for _, slot := range []uint32{slotWall, slotUsr, slotSys} {
		if err = mem.WriteF64(slot, 0); err != nil {
			return
		}
	}
	if status, err = c.status(ctx, mangle.Stamp, slotWall, slotUsr, slotSys); err != nil {
		return
	}
	if wall, err = mem.ReadF64(slotWall); err != nil {
		return
	}
	if usr, err = mem.ReadF64(slotUsr); err != nil {
		return
	}
	sys, err = mem.ReadF64(slotSys)
	return
}

// Start declares the full length of name.
func (c *Caller) Start(ctx context.Context, name string) (int32, error) {
	return c.Text(ctx, mangle.Start, []byte(name), int32(len(name)))
}

// Stop declares the full length of name.
func (c *Caller) Stop(ctx context.Context, name string) (int32, error) {
	return c.Text(ctx, mangle.Stop, []byte(name), int32(len(name)))
}

// Text calls a name-taking routine with buf as the fixed-width buffer and
// declared as its out-of-band length. The two may disagree.
func (c *Caller) Text(ctx context.Context, routine string, buf []byte, declared int32) (int32, error) {
	if routine != mangle.Start && routine != mangle.Stop {
		return 0, errors.InvalidInput(errors.PhaseRuntime, routine+" does not take a name")
	}
	mem := c.inst.Memory()
	if err := mem.Write(slotName, buf); err != nil {
		return 0, err
	}
	return c.status(ctx, routine, slotName, api.EncodeI32(declared))
}
