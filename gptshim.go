package gptshim

// Numeric constants shared by the timing utilities.
const (
	// EPS is the floating point error bound.
	EPS = 1.e-12

	// SecondsPerDay is the number of seconds in a day.
	SecondsPerDay = 86400

	// DefaultMaxChars is the longest timer name passed downstream.
	DefaultMaxChars = 15
)

// Memory represents caller-side linear memory
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	ReadI32(offset uint32) (int32, error)
	WriteI32(offset uint32, value int32) error
	ReadF64(offset uint32) (float64, error)
	WriteF64(offset uint32, value float64) error
}

// MemorySizer provides the current size of linear memory in bytes.
type MemorySizer interface {
	Size() uint32
}
