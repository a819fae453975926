package marshal

import (
	"bytes"

	gptshim "github.com/wippyai/gpt-shim"
)

// BoundedText is a caller string: a raw buffer plus its declared length.
type BoundedText struct {
	Buf      []byte
	Declared int32
}

// Limit returns the number of bytes that may be read from the caller:
// min(declared, max), never negative.
func Limit(declared int32, max int) int {
	n := int(declared)
	if n > max {
		n = max
	}
	if n < 0 {
		n = 0
	}
	return n
}

// Name is a marshaled timer name: a NUL-terminated copy of caller text.
type Name struct {
	c         []byte
	truncated bool
}

// Bounded copies t into a NUL-terminated name of at most max bytes. Bytes
// beyond the declared length, or beyond the end of Buf, are never read.
func Bounded(t BoundedText, max int) Name {
	n := Limit(t.Declared, max)
	if n > len(t.Buf) {
		n = len(t.Buf)
	}
	c := make([]byte, n+1)
	copy(c, t.Buf[:n])
	return Name{c: c, truncated: int(t.Declared) > max}
}

// Copy is Bounded for a (buffer, length) pair.
func Copy(buf []byte, declared int32, max int) Name {
	return Bounded(BoundedText{Buf: buf, Declared: declared}, max)
}

// CString returns the NUL-terminated bytes.
func (n Name) CString() []byte {
	return n.c
}

// String returns the name as a downstream C consumer sees it: the copied
// bytes up to the first NUL.
func (n Name) String() string {
	if i := bytes.IndexByte(n.c, 0); i >= 0 {
		return string(n.c[:i])
	}
	return string(n.c)
}

// Len returns the number of copied bytes, excluding the terminator.
func (n Name) Len() int {
	if len(n.c) == 0 {
		return 0
	}
	return len(n.c) - 1
}

// Truncated reports whether the declared length exceeded the maximum.
func (n Name) Truncated() bool {
	return n.truncated
}

// ReadName reads a bounded name directly from caller memory. Only the first
// min(declared, max) bytes at ptr are touched.
func ReadName(mem gptshim.Memory, ptr uint32, declared int32, max int) (Name, error) {
	n := Limit(declared, max)
	if n == 0 {
		return Name{c: []byte{0}, truncated: int(declared) > max}, nil
	}
	data, err := mem.Read(ptr, uint32(n))
	if err != nil {
		return Name{}, err
	}
	return Bounded(BoundedText{Buf: data, Declared: declared}, max), nil
}
