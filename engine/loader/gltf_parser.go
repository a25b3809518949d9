package loader

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// Errors returned while parsing a GLB container or reading its accessors.
var (
	ErrTruncated                = errors.New("GLB data is truncated")
	ErrInvalidMagic             = errors.New("invalid GLB magic number")
	ErrInvalidVersion           = errors.New("invalid GLB version: must be 2")
	ErrFirstChunkNotJSON        = errors.New("first GLB chunk is not a JSON chunk")
	ErrSecondChunkNotBinary     = errors.New("second GLB chunk is not a binary chunk")
	ErrUnsupportedPrimitiveMode = errors.New("unsupported primitive mode")
	ErrMissingPositions         = errors.New("primitive has no POSITION attribute")
	ErrMissingIndices           = errors.New("primitive has no indices")
	ErrAccessorOutOfRange       = errors.New("accessor index out of range")
	ErrAccessorBounds           = errors.New("accessor reads past the end of its buffer view")
	ErrAccessorType             = errors.New("unexpected accessor type")
)

// ParseGLB validates a GLB container and decodes its JSON chunk.
// The header is checked in order: magic, version, then the first chunk's type, so a file with
// a foreign header is rejected before any chunk contents are read. Every mesh primitive is
// validated before the document is returned.
//
// Parameters:
//   - data: the complete GLB file
//
// Returns:
//   - *Document: the decoded document with its binary chunk
//   - error: a wrapped parse or validation error
func ParseGLB(data []byte) (*Document, error) {
	if len(data) < 4 || binary.LittleEndian.Uint32(data[0:4]) != glbMagic {
		return nil, ErrInvalidMagic
	}
	if len(data) < glbHeaderSize+glbChunkHeaderSize {
		return nil, ErrTruncated
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != glbVersion {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidVersion, v)
	}
	if binary.LittleEndian.Uint32(data[16:20]) != glbChunkJSON {
		return nil, ErrFirstChunkNotJSON
	}

	jsonLen := int(binary.LittleEndian.Uint32(data[12:16]))
	jsonEnd := glbHeaderSize + glbChunkHeaderSize + jsonLen
	if jsonEnd+glbChunkHeaderSize > len(data) {
		return nil, fmt.Errorf("JSON chunk of %d bytes: %w", jsonLen, ErrTruncated)
	}

	binHeader := data[jsonEnd : jsonEnd+glbChunkHeaderSize]
	if binary.LittleEndian.Uint32(binHeader[4:8]) != glbChunkBIN {
		return nil, ErrSecondChunkNotBinary
	}
	binLen := int(binary.LittleEndian.Uint32(binHeader[0:4]))
	binStart := jsonEnd + glbChunkHeaderSize
	if binStart+binLen > len(data) {
		return nil, fmt.Errorf("binary chunk of %d bytes: %w", binLen, ErrTruncated)
	}

	var doc Document
	if err := json.Unmarshal(data[glbHeaderSize+glbChunkHeaderSize:jsonEnd], &doc); err != nil {
		return nil, fmt.Errorf("failed to parse glTF JSON: %w", err)
	}
	doc.Binary = data[binStart : binStart+binLen]

	if err := doc.validateMeshes(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// validateMeshes checks every primitive's mode and required accessors.
func (d *Document) validateMeshes() error {
	for mi, mesh := range d.Meshes {
		for pi, prim := range mesh.Primitives {
			mode := prim.ModeOrDefault()
			if mode != primitiveModeTriangles && mode != primitiveModeTriangleStrip {
				return fmt.Errorf("mesh %d primitive %d: %w: %d", mi, pi, ErrUnsupportedPrimitiveMode, mode)
			}
			pos, ok := prim.Attributes[attributePosition]
			if !ok {
				return fmt.Errorf("mesh %d primitive %d: %w", mi, pi, ErrMissingPositions)
			}
			if pos < 0 || pos >= len(d.Accessors) {
				return fmt.Errorf("mesh %d primitive %d POSITION %d: %w", mi, pi, pos, ErrAccessorOutOfRange)
			}
			if prim.Indices == nil {
				return fmt.Errorf("mesh %d primitive %d: %w", mi, pi, ErrMissingIndices)
			}
			if *prim.Indices < 0 || *prim.Indices >= len(d.Accessors) {
				return fmt.Errorf("mesh %d primitive %d indices %d: %w", mi, pi, *prim.Indices, ErrAccessorOutOfRange)
			}
			for _, acc := range []int{pos, *prim.Indices} {
				if _, _, _, err := d.accessorRange(acc); err != nil {
					return fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
				}
			}
		}
	}
	return nil
}

// --- Accessor Data Reading ---

// ByteStride returns the distance between consecutive elements of an accessor:
// the element size, or the buffer view stride when that is larger.
//
// Parameters:
//   - accessorIndex: the index of the accessor
//
// Returns:
//   - int: the stride in bytes
func (d *Document) ByteStride(accessorIndex int) int {
	if accessorIndex < 0 || accessorIndex >= len(d.Accessors) {
		return 0
	}
	acc := d.Accessors[accessorIndex]
	stride := acc.ElementSize()
	if acc.BufferView != nil && *acc.BufferView >= 0 && *acc.BufferView < len(d.BufferViews) {
		stride = max(stride, d.BufferViews[*acc.BufferView].ByteStride)
	}
	return stride
}

// accessorRange locates an accessor's elements in the binary chunk.
// Every offset, length and count comes from the JSON chunk and is checked before use,
// so the last element's end is compared without multiplying an unchecked count.
//
// Parameters:
//   - accessorIndex: the index of the accessor
//
// Returns:
//   - start: byte offset of the first element in Binary
//   - stride: distance between consecutive elements
//   - elementSize: size of one element
//   - err: ErrAccessorOutOfRange, ErrAccessorType or ErrAccessorBounds
func (d *Document) accessorRange(accessorIndex int) (start, stride, elementSize int, err error) {
	if accessorIndex < 0 || accessorIndex >= len(d.Accessors) {
		return 0, 0, 0, fmt.Errorf("accessor %d: %w", accessorIndex, ErrAccessorOutOfRange)
	}
	acc := d.Accessors[accessorIndex]
	if acc.BufferView == nil || *acc.BufferView < 0 || *acc.BufferView >= len(d.BufferViews) {
		return 0, 0, 0, fmt.Errorf("accessor %d has no valid bufferView: %w", accessorIndex, ErrAccessorOutOfRange)
	}
	bv := d.BufferViews[*acc.BufferView]

	elementSize = acc.ElementSize()
	if elementSize == 0 {
		return 0, 0, 0, fmt.Errorf("accessor %d: %w: %s/%d", accessorIndex, ErrAccessorType, acc.Type, acc.ComponentType)
	}
	if acc.Count < 0 || acc.ByteOffset < 0 || bv.ByteOffset < 0 || bv.ByteLength < 0 || bv.ByteStride < 0 {
		return 0, 0, 0, fmt.Errorf("accessor %d: negative count, offset, length or stride: %w", accessorIndex, ErrAccessorBounds)
	}
	if bv.ByteOffset > len(d.Binary) || bv.ByteLength > len(d.Binary)-bv.ByteOffset {
		return 0, 0, 0, fmt.Errorf("accessor %d: bufferView exceeds binary chunk: %w", accessorIndex, ErrAccessorBounds)
	}
	if acc.ByteOffset > bv.ByteLength {
		return 0, 0, 0, fmt.Errorf("accessor %d: offset %d past bufferView end: %w", accessorIndex, acc.ByteOffset, ErrAccessorBounds)
	}

	stride = max(elementSize, bv.ByteStride)
	start = bv.ByteOffset + acc.ByteOffset
	if acc.Count > 0 {
		avail := bv.ByteLength - acc.ByteOffset
		if avail < elementSize || acc.Count-1 > (avail-elementSize)/stride {
			return 0, 0, 0, fmt.Errorf("accessor %d: %d elements exceed bufferView: %w", accessorIndex, acc.Count, ErrAccessorBounds)
		}
	}
	return start, stride, elementSize, nil
}

// ReadAccessorData reads an accessor's elements, tightly packed.
//
// Parameters:
//   - accessorIndex: the index of the accessor
//
// Returns:
//   - []byte: Count * ElementSize bytes
//   - error: if the accessor or its view is out of range
func (d *Document) ReadAccessorData(accessorIndex int) ([]byte, error) {
	start, stride, elementSize, err := d.accessorRange(accessorIndex)
	if err != nil {
		return nil, err
	}
	count := d.Accessors[accessorIndex].Count

	result := make([]byte, count*elementSize)
	for i := 0; i < count; i++ {
		src := start + i*stride
		copy(result[i*elementSize:(i+1)*elementSize], d.Binary[src:src+elementSize])
	}
	return result, nil
}

// ReadVec3Accessor reads a VEC3 FLOAT accessor as a flat float slice.
//
// Parameters:
//   - accessorIndex: the index of the accessor
//
// Returns:
//   - []float32: 3 * Count floats
//   - error: if the accessor is not VEC3 FLOAT or cannot be read
func (d *Document) ReadVec3Accessor(accessorIndex int) ([]float32, error) {
	if accessorIndex < 0 || accessorIndex >= len(d.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", accessorIndex, ErrAccessorOutOfRange)
	}
	acc := d.Accessors[accessorIndex]
	if acc.Type != accessorTypeVec3 || acc.ComponentType != componentTypeFloat {
		return nil, fmt.Errorf("accessor %d is not VEC3 FLOAT: %w: type=%s, componentType=%d", accessorIndex, ErrAccessorType, acc.Type, acc.ComponentType)
	}

	data, err := d.ReadAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}
	result := make([]float32, len(data)/4)
	for i := range result {
		result[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return result, nil
}

// ReadIndicesAccessor reads an accessor as index data (uint32).
// Handles UNSIGNED_BYTE, UNSIGNED_SHORT, and UNSIGNED_INT component types.
//
// Parameters:
//   - accessorIndex: the index of the accessor
//
// Returns:
//   - []uint32: the index data (converted to uint32)
//   - error: error if reading fails
func (d *Document) ReadIndicesAccessor(accessorIndex int) ([]uint32, error) {
	if accessorIndex < 0 || accessorIndex >= len(d.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", accessorIndex, ErrAccessorOutOfRange)
	}
	acc := d.Accessors[accessorIndex]
	if acc.Type != accessorTypeScalar {
		return nil, fmt.Errorf("index accessor %d is not SCALAR: %w: type=%s", accessorIndex, ErrAccessorType, acc.Type)
	}

	data, err := d.ReadAccessorData(accessorIndex)
	if err != nil {
		return nil, err
	}

	result := make([]uint32, acc.Count)
	switch acc.ComponentType {
	case componentTypeUnsignedByte:
		for i := range result {
			result[i] = uint32(data[i])
		}
	case componentTypeUnsignedShort:
		for i := range result {
			result[i] = uint32(binary.LittleEndian.Uint16(data[i*2:]))
		}
	case componentTypeUnsignedInt:
		for i := range result {
			result[i] = binary.LittleEndian.Uint32(data[i*4:])
		}
	default:
		return nil, fmt.Errorf("index accessor %d: %w: componentType=%d", accessorIndex, ErrAccessorType, acc.ComponentType)
	}
	return result, nil
}
