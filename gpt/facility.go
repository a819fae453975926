package gpt

import (
	"context"
	"fmt"
)

// OptionName selects a facility option.
type OptionName int32

const (
	Usrsys OptionName = iota + 1
	Wall
	PCLStart
	PCLL1DCacheMiss
	PCLL2CacheHit
	PCLCycles
	PCLElapsedCycles
	PCLFPInstr
	PCLLoadStoreInstr
	PCLInstr
	PCLStall
	PCLEnd
)

var optionNames = map[OptionName]string{
	Usrsys:            "usrsys",
	Wall:              "wall",
	PCLStart:          "pcl_start",
	PCLL1DCacheMiss:   "pcl_l1dcache_miss",
	PCLL2CacheHit:     "pcl_l2cache_hit",
	PCLCycles:         "pcl_cycles",
	PCLElapsedCycles:  "pcl_elapsed_cycles",
	PCLFPInstr:        "pcl_fp_instr",
	PCLLoadStoreInstr: "pcl_loadstore_instr",
	PCLInstr:          "pcl_instr",
	PCLStall:          "pcl_stall",
	PCLEnd:            "pcl_end",
}

// Valid reports whether o is a member of the enumeration.
func (o OptionName) Valid() bool {
	_, ok := optionNames[o]
	return ok
}

func (o OptionName) String() string {
	if s, ok := optionNames[o]; ok {
		return s
	}
	return fmt.Sprintf("OptionName(%d)", int32(o))
}

// Boolean is the facility's integer flag. Values other than False and True
// are carried as is.
type Boolean int32

const (
	False Boolean = 0
	True  Boolean = 1
)

// Bool reports whether the flag is set.
func (b Boolean) Bool() bool {
	return b != False
}

func (b Boolean) String() string {
	switch b {
	case False:
		return "false"
	case True:
		return "true"
	default:
		return fmt.Sprintf("Boolean(%d)", int32(b))
	}
}

// Facility is the native timing library.
type Facility interface {
	Initialize(ctx context.Context) int32
	Pr(ctx context.Context, procID int32) int32
	Reset(ctx context.Context)
	SetOption(ctx context.Context, option OptionName, val Boolean) int32
	// Stamp writes wall clock, user and system seconds through the given
	// addresses.
	Stamp(ctx context.Context, wall, usr, sys *float64) int32
	Start(ctx context.Context, name string) int32
	Stop(ctx context.Context, name string) int32
}

// Nop is a Facility that accepts every call and returns status 0.
type Nop struct{}

func (Nop) Initialize(context.Context) int32                          { return 0 }
func (Nop) Pr(context.Context, int32) int32                           { return 0 }
func (Nop) Reset(context.Context)                                     {}
func (Nop) SetOption(context.Context, OptionName, Boolean) int32      { return 0 }
func (Nop) Stamp(context.Context, *float64, *float64, *float64) int32 { return 0 }
func (Nop) Start(context.Context, string) int32                       { return 0 }
func (Nop) Stop(context.Context, string) int32                        { return 0 }

var _ Facility = Nop{}
