package common

import (
	"encoding/binary"
	"math"
)

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// AlignTo rounds val up to the next multiple of align.
//
// Parameters:
//   - val: the value to align
//   - align: the alignment (must be > 0)
//
// Returns:
//   - uint64: the aligned value
func AlignTo(val, align uint64) uint64 {
	return (val + align - 1) / align * align
}

// Float32sToBytes packs float32 values little-endian into a new byte slice.
// The slice length is padded up to a multiple of 4 bytes.
//
// Parameters:
//   - data: the values to pack
//
// Returns:
//   - []byte: the packed bytes
func Float32sToBytes(data []float32) []byte {
	buf := make([]byte, AlignTo(uint64(len(data))*4, 4))
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// Uint32sToBytes packs uint32 values little-endian into a new byte slice.
func Uint32sToBytes(data []uint32) []byte {
	buf := make([]byte, len(data)*4)
	for i, v := range data {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return buf
}

// BytesToFloat32s unpacks little-endian float32 values. Trailing bytes that do not
// form a full value are ignored.
func BytesToFloat32s(data []byte) []float32 {
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return out
}
