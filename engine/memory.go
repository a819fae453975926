package engine

import (
	"github.com/tetratelabs/wazero/api"

	gptshim "github.com/wippyai/gpt-shim"
	"github.com/wippyai/gpt-shim/errors"
)

// WazeroMemory wraps wazero memory to implement gptshim.Memory
type WazeroMemory struct {
	mem     api.Memory
	routine string
}

// NewMemory wraps mem. A nil mem behaves as zero-sized memory.
func NewMemory(mem api.Memory) *WazeroMemory {
	return &WazeroMemory{mem: mem}
}

func (m *WazeroMemory) oob(offset, length uint32) error {
	return errors.OutOfBounds(errors.PhaseMarshal, m.routine, offset, length, m.Size())
}

func (m *WazeroMemory) Read(offset uint32, length uint32) ([]byte, error) {
	if m.mem == nil {
		return nil, m.oob(offset, length)
	}
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, m.oob(offset, length)
	}
	return data, nil
}

func (m *WazeroMemory) Write(offset uint32, data []byte) error {
	if m.mem == nil || !m.mem.Write(offset, data) {
		return m.oob(offset, uint32(len(data)))
	}
	return nil
}

func (m *WazeroMemory) ReadI32(offset uint32) (int32, error) {
	if m.mem == nil {
		return 0, m.oob(offset, 4)
	}
	val, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, m.oob(offset, 4)
	}
	return int32(val), nil
}

func (m *WazeroMemory) WriteI32(offset uint32, value int32) error {
	if m.mem == nil || !m.mem.WriteUint32Le(offset, uint32(value)) {
		return m.oob(offset, 4)
	}
	return nil
}

func (m *WazeroMemory) ReadF64(offset uint32) (float64, error) {
	if m.mem == nil {
		return 0, m.oob(offset, 8)
	}
	val, ok := m.mem.ReadFloat64Le(offset)
	if !ok {
		return 0, m.oob(offset, 8)
	}
	return val, nil
}

func (m *WazeroMemory) WriteF64(offset uint32, value float64) error {
	if m.mem == nil || !m.mem.WriteFloat64Le(offset, value) {
		return m.oob(offset, 8)
	}
	return nil
}

func (m *WazeroMemory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

// Compile-time check that WazeroMemory implements gptshim.Memory and MemorySizer
var _ gptshim.Memory = (*WazeroMemory)(nil)
var _ gptshim.MemorySizer = (*WazeroMemory)(nil)
