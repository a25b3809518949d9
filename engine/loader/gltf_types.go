// gltf_types.go contains the subset of the glTF 2.0 JSON schema the loader reads.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html
package loader

// --- glTF Root Structure ---

// Document is the decoded JSON chunk of a GLB file together with its binary chunk.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-gltf
type Document struct {
	// Asset contains metadata about the glTF asset.
	Asset Asset `json:"asset"`

	// Scene is the index of the default scene.
	Scene *int `json:"scene,omitempty"`

	// Scenes is an array of scenes.
	Scenes []Scene `json:"scenes,omitempty"`

	// Nodes is an array of nodes (transform hierarchy).
	Nodes []Node `json:"nodes,omitempty"`

	// Meshes is an array of meshes.
	Meshes []Mesh `json:"meshes,omitempty"`

	// Accessors define how to interpret buffer data.
	Accessors []Accessor `json:"accessors,omitempty"`

	// BufferViews define portions of the binary chunk.
	BufferViews []BufferView `json:"bufferViews,omitempty"`

	// Binary is the GLB BIN chunk. Every buffer view indexes into it.
	Binary []byte `json:"-"`
}

// Asset contains metadata about the glTF asset.
type Asset struct {
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

// --- Scene Graph ---

// Scene is a set of root nodes.
type Scene struct {
	Name  string `json:"name,omitempty"`
	Nodes []int  `json:"nodes,omitempty"`
}

// Node is a node in the transform hierarchy.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-node
type Node struct {
	Name     string `json:"name,omitempty"`
	Children []int  `json:"children,omitempty"`
	Mesh     *int   `json:"mesh,omitempty"`

	// Matrix is a 4x4 transformation matrix (column-major). It takes precedence over TRS.
	Matrix *[16]float32 `json:"matrix,omitempty"`

	// Translation is the node's translation (x, y, z).
	Translation *[3]float32 `json:"translation,omitempty"`

	// Rotation is the node's rotation as a quaternion (x, y, z, w).
	Rotation *[4]float32 `json:"rotation,omitempty"`

	// Scale is the node's scale (x, y, z).
	Scale *[3]float32 `json:"scale,omitempty"`
}

// --- Mesh Data ---

// Mesh is a set of primitives to be rendered.
type Mesh struct {
	Name       string      `json:"name,omitempty"`
	Primitives []Primitive `json:"primitives"`
}

// Primitive defines geometry for rendering.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-mesh-primitive
type Primitive struct {
	// Attributes maps an attribute semantic to an accessor index. Only POSITION is read.
	Attributes map[string]int `json:"attributes"`

	// Indices is the accessor index for the index buffer.
	Indices *int `json:"indices,omitempty"`

	// Mode is the primitive topology.
	// 0=POINTS, 1=LINES, 2=LINE_LOOP, 3=LINE_STRIP, 4=TRIANGLES (default), 5=TRIANGLE_STRIP, 6=TRIANGLE_FAN
	Mode *int `json:"mode,omitempty"`
}

// ModeOrDefault returns the primitive mode, TRIANGLES when unset.
func (p Primitive) ModeOrDefault() int {
	if p.Mode == nil {
		return primitiveModeTriangles
	}
	return *p.Mode
}

const (
	primitiveModeTriangles     = 4
	primitiveModeTriangleStrip = 5

	attributePosition = "POSITION"
)

// --- Buffer Data ---

// Accessor defines how to interpret buffer view data.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-accessor
type Accessor struct {
	BufferView *int `json:"bufferView,omitempty"`

	// ByteOffset is the offset within the bufferView.
	ByteOffset int `json:"byteOffset,omitempty"`

	// ComponentType is the data type of components.
	// 5120=BYTE, 5121=UNSIGNED_BYTE, 5122=SHORT, 5123=UNSIGNED_SHORT, 5125=UNSIGNED_INT, 5126=FLOAT
	ComponentType int `json:"componentType"`

	// Count is the number of elements.
	Count int `json:"count"`

	// Type is the element type (SCALAR, VEC2, VEC3, VEC4, MAT2, MAT3, MAT4).
	Type string `json:"type"`
}

// ElementSize returns the byte size of one element.
func (a Accessor) ElementSize() int {
	return componentTypeSize(a.ComponentType) * accessorTypeComponentCount(a.Type)
}

// ComponentType constants
const (
	componentTypeByte          = 5120
	componentTypeUnsignedByte  = 5121
	componentTypeShort         = 5122
	componentTypeUnsignedShort = 5123
	componentTypeUnsignedInt   = 5125
	componentTypeFloat         = 5126
)

// AccessorType constants
const (
	accessorTypeScalar = "SCALAR"
	accessorTypeVec2   = "VEC2"
	accessorTypeVec3   = "VEC3"
	accessorTypeVec4   = "VEC4"
	accessorTypeMat2   = "MAT2"
	accessorTypeMat3   = "MAT3"
	accessorTypeMat4   = "MAT4"
)

// BufferView is a subset of the binary chunk.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#reference-bufferview
type BufferView struct {
	Buffer     int `json:"buffer"`
	ByteOffset int `json:"byteOffset,omitempty"`
	ByteLength int `json:"byteLength"`

	// ByteStride is the distance between interleaved elements. Zero means tightly packed.
	ByteStride int `json:"byteStride,omitempty"`
}

// --- GLB Binary Format ---

// GLB magic number and chunk type constants
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
const (
	glbMagic     = 0x46546C67 // "glTF" in little-endian ASCII
	glbVersion   = 2
	glbChunkJSON = 0x4E4F534A // "JSON" in little-endian ASCII
	glbChunkBIN  = 0x004E4942 // "BIN\0" in little-endian ASCII

	glbHeaderSize      = 12
	glbChunkHeaderSize = 8
)

// componentTypeSize returns the byte size of a component type.
func componentTypeSize(componentType int) int {
	switch componentType {
	case componentTypeByte, componentTypeUnsignedByte:
		return 1
	case componentTypeShort, componentTypeUnsignedShort:
		return 2
	case componentTypeUnsignedInt, componentTypeFloat:
		return 4
	default:
		return 0
	}
}

// accessorTypeComponentCount returns the number of components for an accessor type.
func accessorTypeComponentCount(accessorType string) int {
	switch accessorType {
	case accessorTypeScalar:
		return 1
	case accessorTypeVec2:
		return 2
	case accessorTypeVec3:
		return 3
	case accessorTypeVec4, accessorTypeMat2:
		return 4
	case accessorTypeMat3:
		return 9
	case accessorTypeMat4:
		return 16
	default:
		return 0
	}
}
