package gpu

// ResourceType is the semantic kind of a resource; it selects the primary buffer usage.
type ResourceType int

const (
	ResourceTypeUniform ResourceType = iota + 1
	ResourceTypePoints
	ResourceTypeLines
	ResourceTypeTriangles
)

// SlotType classifies a shader slot.
type SlotType int

const (
	// SlotTypeBinding is a uniform binding, applied as a bind group at Position.
	SlotTypeBinding SlotType = iota
	// SlotTypePosition is a vertex attribute; it appears in VertexInput and VertexOutput.
	SlotTypePosition
	// SlotTypePositionIn is a vertex attribute consumed only by the layout.
	SlotTypePositionIn
	// SlotTypePositionOut is a derived output; it appears only in VertexOutput and never in the stride.
	SlotTypePositionOut
)

// ShaderDataFormat is the WGSL type of a slot. The zero value means "derive from Size".
type ShaderDataFormat int

const (
	ShaderDataFormatAuto ShaderDataFormat = iota
	ShaderDataFormatFloat32
	ShaderDataFormatVec2F32
	ShaderDataFormatVec3F32
	ShaderDataFormatVec4F32
	ShaderDataFormatMat4F32
)

// String returns the WGSL alias used by the generated shader header.
func (f ShaderDataFormat) String() string {
	switch f {
	case ShaderDataFormatFloat32:
		return "f32"
	case ShaderDataFormatVec2F32:
		return "vec2f32"
	case ShaderDataFormatVec3F32:
		return "vec3f32"
	case ShaderDataFormatVec4F32:
		return "vec4f32"
	case ShaderDataFormatMat4F32:
		return "mat4f32"
	default:
		return "auto"
	}
}

// DataFormatForSize returns the format implied by a component count.
// Unknown sizes return ShaderDataFormatAuto.
func DataFormatForSize(size int) ShaderDataFormat {
	switch size {
	case 1:
		return ShaderDataFormatFloat32
	case 2:
		return ShaderDataFormatVec2F32
	case 3:
		return ShaderDataFormatVec3F32
	case 4:
		return ShaderDataFormatVec4F32
	case 16:
		return ShaderDataFormatMat4F32
	default:
		return ShaderDataFormatAuto
	}
}

// ShaderSlot declares one vertex attribute or uniform binding of a resource.
type ShaderSlot struct {
	// Name is the slot name; the shader header uses its lower-cased form.
	Name string
	Type SlotType
	// Position is the shader location for vertex slots and the bind group index for bindings.
	Position int
	// Size is the number of float32 components.
	Size int
	// DataType is the WGSL type; left unset it is derived from Size.
	DataType ShaderDataFormat
	// Binding is the binding index inside the bind group.
	Binding int
	// CreateNewBuffer requests a dedicated uniform buffer for a binding slot.
	CreateNewBuffer bool
	// Data is the initial contents of a dedicated buffer. Nil means zero-filled.
	Data []float32
}

// Format returns the slot's data type, deriving it from Size when unset.
func (s ShaderSlot) Format() ShaderDataFormat {
	if s.DataType != ShaderDataFormatAuto {
		return s.DataType
	}
	return DataFormatForSize(s.Size)
}

// IsVertexAttribute reports whether the slot belongs to the vertex-attribute partition.
func (s ShaderSlot) IsVertexAttribute() bool {
	return s.Type == SlotTypePosition || s.Type == SlotTypePositionIn || s.Type == SlotTypePositionOut
}

// ContributesToStride reports whether the slot occupies space in the interleaved vertex buffer.
func (s ShaderSlot) ContributesToStride() bool {
	return s.Type == SlotTypePosition || s.Type == SlotTypePositionIn
}

// ResourceData is the declarative description of a block of data destined for the GPU.
type ResourceData struct {
	Type        ResourceType
	Name        string
	Data        []float32
	ShaderSlots []ShaderSlot
	DataFormat  ShaderDataFormat
	// VertexCount overrides the count derived from the data length and stride.
	VertexCount int
	// Indices, when set, are uploaded to an index buffer.
	Indices []uint32
	// Topology of the pipeline drawing this resource.
	Topology PrimitiveTopology
}

// SlotBinding records the GPU objects created for one binding slot.
type SlotBinding struct {
	Slot      ShaderSlot
	Buffer    Buffer
	BindGroup BindGroup
	// Layout is set for dedicated buffers; it is also recorded by the resource module.
	Layout BindGroupLayout
}

// ResourceBuffer pairs a device buffer with its derived vertex layout and bind groups.
type ResourceBuffer struct {
	Data   Buffer
	Layout VertexBufferLayout
	// BindGroup is the bind group of the binding slot that targets Data, if any.
	BindGroup  BindGroup
	Bindings   []SlotBinding
	Index      Buffer
	IndexCount uint32
	Topology   PrimitiveTopology
}

// ApplyBindGroups sets every binding slot's bind group at its declared position.
//
// Parameters:
//   - pass: the active render pass
func (b *ResourceBuffer) ApplyBindGroups(pass RenderPass) {
	for _, sb := range b.Bindings {
		pass.SetBindGroup(uint32(sb.Slot.Position), sb.BindGroup)
	}
}

// Binding returns the binding record of the named slot.
func (b *ResourceBuffer) Binding(name string) (SlotBinding, bool) {
	for _, sb := range b.Bindings {
		if sb.Slot.Name == name {
			return sb, true
		}
	}
	return SlotBinding{}, false
}
