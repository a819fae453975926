// Package platform describes the capabilities of a build target.
//
// Capabilities replaces the historical HAVE_* preprocessor flags with a
// value that is populated once, at configuration or start time, and handed
// to the components that need it.
package platform

import (
	"fmt"
	"os"
	goruntime "runtime"
	"unsafe"

	"github.com/wippyai/gpt-shim/errors"
	"github.com/wippyai/gpt-shim/mangle"
)

// Capabilities is a platform capability descriptor.
type Capabilities struct {
	ArchName string `toml:"arch_name" yaml:"arch_name"`

	HaveLimitsH       bool `toml:"have_limits_h" yaml:"have_limits_h"`
	HavePwdH          bool `toml:"have_pwd_h" yaml:"have_pwd_h"`
	HaveMallocH       bool `toml:"have_malloc_h" yaml:"have_malloc_h"`
	HaveStringH       bool `toml:"have_string_h" yaml:"have_string_h"`
	HaveUnistdH       bool `toml:"have_unistd_h" yaml:"have_unistd_h"`
	HaveSysTimeH      bool `toml:"have_sys_time_h" yaml:"have_sys_time_h"`
	HaveStdlibH       bool `toml:"have_stdlib_h" yaml:"have_stdlib_h"`
	HaveSysResourceH  bool `toml:"have_sys_resource_h" yaml:"have_sys_resource_h"`
	HaveSysUtsnameH   bool `toml:"have_sys_utsname_h" yaml:"have_sys_utsname_h"`
	HaveGetDomainName bool `toml:"have_getdomainname" yaml:"have_getdomainname"`
	HaveDrand48       bool `toml:"have_drand48" yaml:"have_drand48"`
	HaveUname         bool `toml:"have_uname" yaml:"have_uname"`
	HaveReadlink      bool `toml:"have_readlink" yaml:"have_readlink"`
	HaveMemmove       bool `toml:"have_memmove" yaml:"have_memmove"`
	HaveMemalign      bool `toml:"have_memalign" yaml:"have_memalign"`

	HaveDoubleAlignMalloc bool `toml:"have_double_align_malloc" yaml:"have_double_align_malloc"`
	HaveTemplatedComplex  bool `toml:"have_templated_complex" yaml:"have_templated_complex"`

	HaveMPI        bool `toml:"have_mpi" yaml:"have_mpi"`
	HaveOMPThreads bool `toml:"have_omp_threads" yaml:"have_omp_threads"`

	FortranCaps             bool `toml:"fortran_caps" yaml:"fortran_caps"`
	FortranUnderscore       bool `toml:"fortran_underscore" yaml:"fortran_underscore"`
	FortranDoubleUnderscore bool `toml:"fortran_double_underscore" yaml:"fortran_double_underscore"`

	PointerSize  int `toml:"pointer_size" yaml:"pointer_size"`
	SizeofInt    int `toml:"sizeof_int" yaml:"sizeof_int"`
	SizeofDouble int `toml:"sizeof_double" yaml:"sizeof_double"`
}

// LinuxGNUPGF90 returns the descriptor of the linux_gnupgf90 build target.
func LinuxGNUPGF90() Capabilities {
	return Capabilities{
		ArchName:                "linux_gnupgf90",
		HaveLimitsH:             true,
		HavePwdH:                true,
		HaveMallocH:             true,
		HaveStringH:             true,
		HaveUnistdH:             true,
		HaveSysTimeH:            true,
		HaveStdlibH:             true,
		HaveSysResourceH:        true,
		HaveSysUtsnameH:         true,
		HaveGetDomainName:       true,
		HaveDrand48:             true,
		HaveUname:               true,
		HaveReadlink:            true,
		HaveMemmove:             true,
		HaveMemalign:            true,
		HaveDoubleAlignMalloc:   true,
		HaveTemplatedComplex:    true,
		FortranUnderscore:       true,
		FortranDoubleUnderscore: true,
		PointerSize:             4,
		SizeofInt:               4,
		SizeofDouble:            8,
	}
}

// Detect returns a descriptor for the running process. Fortran decoration
// flags are left unset; they describe the caller's toolchain, not the host.
func Detect() Capabilities {
	unix := goruntime.GOOS != "windows" && goruntime.GOOS != "plan9" && goruntime.GOOS != "js" && goruntime.GOOS != "wasip1"
	linux := goruntime.GOOS == "linux"

	return Capabilities{
		ArchName:          goruntime.GOOS + "_" + goruntime.GOARCH,
		HaveLimitsH:       unix,
		HavePwdH:          unix,
		HaveMallocH:       linux,
		HaveStringH:       true,
		HaveUnistdH:       unix,
		HaveSysTimeH:      unix,
		HaveStdlibH:       true,
		HaveSysResourceH:  unix,
		HaveSysUtsnameH:   unix,
		HaveGetDomainName: linux,
		HaveDrand48:       unix,
		HaveUname:         unix,
		HaveReadlink:      unix,
		HaveMemmove:       true,
		HaveMemalign:      linux,
		PointerSize:       int(unsafe.Sizeof(uintptr(0))),
		SizeofInt:         int(unsafe.Sizeof(int32(0))),
		SizeofDouble:      int(unsafe.Sizeof(float64(0))),
	}
}

// Scheme resolves the decoration scheme. Flags are checked in the order
// caps, underscore, double underscore and the first set flag wins; with no
// flag set the routines stay undecorated.
func (c Capabilities) Scheme() mangle.Scheme {
	switch {
	case c.FortranCaps:
		return mangle.SchemeCaps
	case c.FortranUnderscore:
		return mangle.SchemeUnderscore
	case c.FortranDoubleUnderscore:
		return mangle.SchemeDoubleUnderscore
	default:
		return mangle.SchemeNone
	}
}

// Ambiguous reports whether more than one decoration flag is set.
func (c Capabilities) Ambiguous() bool {
	n := 0
	for _, f := range []bool{c.FortranCaps, c.FortranUnderscore, c.FortranDoubleUnderscore} {
		if f {
			n++
		}
	}
	return n > 1
}

// WithScheme returns a copy of c with exactly the flag for s set.
func (c Capabilities) WithScheme(s mangle.Scheme) Capabilities {
	c.FortranCaps = s == mangle.SchemeCaps
	c.FortranUnderscore = s == mangle.SchemeUnderscore
	c.FortranDoubleUnderscore = s == mangle.SchemeDoubleUnderscore
	return c
}

// Validate checks sizes for plausibility.
func (c Capabilities) Validate() error {
	for _, f := range []struct {
		name string
		v    int
	}{
		{"pointer_size", c.PointerSize},
		{"sizeof_int", c.SizeofInt},
		{"sizeof_double", c.SizeofDouble},
	} {
		switch f.v {
		case 0, 1, 2, 4, 8, 16:
		default:
			return errors.New(errors.PhasePlatform, errors.KindInvalidData).
				Value(f.v).
				Detail("%s: %d is not a power-of-two size", f.name, f.v).
				Build()
		}
	}
	return nil
}

// Hostname returns the host name when uname is available.
func (c Capabilities) Hostname() (string, error) {
	if !c.HaveUname {
		return "", errors.Unsupported(errors.PhasePlatform, "uname")
	}
	name, err := os.Hostname()
	if err != nil {
		return "", errors.Wrap(errors.PhasePlatform, errors.KindNotFound, err, "hostname")
	}
	return name, nil
}

// String returns a one-line summary.
func (c Capabilities) String() string {
	return fmt.Sprintf("%s (ptr=%d int=%d double=%d scheme=%s mpi=%t omp=%t)",
		c.ArchName, c.PointerSize, c.SizeofInt, c.SizeofDouble, c.Scheme(), c.HaveMPI, c.HaveOMPThreads)
}
