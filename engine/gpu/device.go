// Package gpu describes the graphics device capability the framework consumes and
// implements the GPU Resource Module on top of it. The concrete wgpu implementation
// lives in engine/backend; tests use engine/gpu/gputest.
package gpu

// BufferUsage is a bit set of buffer usages. Bit values match WebGPU.
type BufferUsage uint32

const (
	BufferUsageMapRead BufferUsage = 1 << iota
	BufferUsageMapWrite
	BufferUsageCopySrc
	BufferUsageCopyDst
	BufferUsageIndex
	BufferUsageVertex
	BufferUsageUniform
	BufferUsageStorage
)

// ShaderStage is a bit set of shader stages a binding is visible to.
type ShaderStage uint32

const (
	ShaderStageVertex ShaderStage = 1 << iota
	ShaderStageFragment
)

// VertexFormat identifies the layout of a single vertex attribute.
type VertexFormat int

const (
	VertexFormatFloat32 VertexFormat = iota + 1
	VertexFormatFloat32x2
	VertexFormatFloat32x3
	VertexFormatFloat32x4
)

// Float32VertexFormat returns the float32 vertex format with the given component count.
// Counts outside 1..4 return 0.
//
// Parameters:
//   - components: number of float32 components (1-4)
//
// Returns:
//   - VertexFormat: the matching format, or 0 if unsupported
func Float32VertexFormat(components int) VertexFormat {
	switch components {
	case 1:
		return VertexFormatFloat32
	case 2:
		return VertexFormatFloat32x2
	case 3:
		return VertexFormatFloat32x3
	case 4:
		return VertexFormatFloat32x4
	default:
		return 0
	}
}

// TextureFormat identifies a texture format used for render targets.
type TextureFormat int

const (
	TextureFormatUndefined TextureFormat = iota
	TextureFormatBGRA8Unorm
	TextureFormatBGRA8UnormSrgb
	TextureFormatRGBA8Unorm
	TextureFormatRGBA8UnormSrgb
	TextureFormatDepth24Plus
	TextureFormatDepth24PlusStencil8
)

// PrimitiveTopology selects how vertices are assembled into primitives.
type PrimitiveTopology int

const (
	PrimitiveTopologyTriangleList PrimitiveTopology = iota
	PrimitiveTopologyTriangleStrip
	PrimitiveTopologyLineList
	PrimitiveTopologyPointList
)

// IndexFormat is the element type of an index buffer.
type IndexFormat int

const (
	IndexFormatUndefined IndexFormat = iota
	IndexFormatUint16
	IndexFormatUint32
)

// CompareFunction is the depth comparison used by a pipeline.
type CompareFunction int

const (
	CompareFunctionLess CompareFunction = iota
	CompareFunctionLessEqual
	CompareFunctionAlways
)

// WholeSize binds or draws the remainder of a buffer from the given offset.
const WholeSize = ^uint64(0)

// Color is an RGBA clear color.
type Color struct {
	R, G, B, A float64
}

// BufferDescriptor describes a device buffer. When MappedAtCreation is set, Contents are
// copied into the mapped range before the buffer is unmapped.
type BufferDescriptor struct {
	Label            string
	Size             uint64
	Usage            BufferUsage
	MappedAtCreation bool
	Contents         []byte
}

// VertexAttribute describes one attribute inside an interleaved vertex buffer.
type VertexAttribute struct {
	Format         VertexFormat
	Offset         uint64
	ShaderLocation uint32
}

// VertexBufferLayout describes the stride and attributes of one vertex buffer.
type VertexBufferLayout struct {
	ArrayStride uint64
	Attributes  []VertexAttribute
}

// BindGroupLayoutEntry describes a uniform buffer binding.
type BindGroupLayoutEntry struct {
	Binding    uint32
	Visibility ShaderStage
}

// BindGroupEntry binds a buffer range to a binding index.
type BindGroupEntry struct {
	Binding uint32
	Buffer  Buffer
	Offset  uint64
	Size    uint64
}

// RenderPipelineDescriptor describes a render pipeline with a single vertex buffer.
type RenderPipelineDescriptor struct {
	Label              string
	BindGroupLayouts   []BindGroupLayout
	Module             ShaderModule
	VertexEntryPoint   string
	FragmentEntryPoint string
	Buffers            []VertexBufferLayout
	Topology           PrimitiveTopology
	StripIndexFormat   IndexFormat
	ColorFormat        TextureFormat
	DepthFormat        TextureFormat
	DepthWriteEnabled  bool
	DepthCompare       CompareFunction
}

// Buffer is a device-resident buffer.
type Buffer interface {
	Label() string
	Size() uint64
	Usage() BufferUsage
	Release()
}

// BindGroupLayout is an opaque bind group layout handle.
type BindGroupLayout interface {
	Release()
}

// BindGroup is an opaque bind group handle.
type BindGroup interface {
	Release()
}

// ShaderModule is a compiled shader module handle.
type ShaderModule interface {
	Label() string
	Release()
}

// RenderPipeline is a compiled render pipeline handle.
type RenderPipeline interface {
	Label() string
	Release()
}

// TextureView is an opaque texture view handle, used for the depth attachment.
type TextureView interface {
	Release()
}

// RenderPass records draw commands for the current frame.
type RenderPass interface {
	SetPipeline(p RenderPipeline)
	SetBindGroup(index uint32, bg BindGroup)
	SetVertexBuffer(slot uint32, buf Buffer, offset, size uint64)
	SetIndexBuffer(buf Buffer, format IndexFormat, offset, size uint64)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, baseVertex int32, firstInstance uint32)
}

// Device creates GPU objects and uploads data.
type Device interface {
	// CreateBuffer allocates a device buffer.
	//
	// Parameters:
	//   - desc: the buffer descriptor
	//
	// Returns:
	//   - Buffer: the created buffer
	//   - error: if allocation fails
	CreateBuffer(desc BufferDescriptor) (Buffer, error)

	// WriteBuffer enqueues a write of data into buf at offset.
	//
	// Parameters:
	//   - buf: the destination buffer
	//   - offset: byte offset into buf
	//   - data: bytes to write (length must be a multiple of 4)
	//
	// Returns:
	//   - error: if the write could not be queued
	WriteBuffer(buf Buffer, offset uint64, data []byte) error

	CreateBindGroupLayout(label string, entries []BindGroupLayoutEntry) (BindGroupLayout, error)

	CreateBindGroup(label string, layout BindGroupLayout, entries []BindGroupEntry) (BindGroup, error)

	// CreateShaderModule compiles WGSL source. Compilation errors are returned.
	//
	// Parameters:
	//   - label: debug label
	//   - code: full WGSL source
	//
	// Returns:
	//   - ShaderModule: the compiled module
	//   - error: the compilation error, if any
	CreateShaderModule(label, code string) (ShaderModule, error)

	CreateRenderPipeline(desc RenderPipelineDescriptor) (RenderPipeline, error)

	// CreateDepthTexture allocates a depth attachment of the given size.
	//
	// Parameters:
	//   - label: debug label
	//   - width, height: size in pixels
	//   - format: a depth texture format
	//
	// Returns:
	//   - TextureView: view of the new texture
	//   - error: if allocation fails
	CreateDepthTexture(label string, width, height int, format TextureFormat) (TextureView, error)

	// PreferredFormat returns the color format of the presentation surface.
	PreferredFormat() TextureFormat
}

// Surface presents frames. BeginFrame acquires the current surface texture, creates a
// command encoder and opens the single render pass of the frame.
type Surface interface {
	Configure(width, height int) error
	BeginFrame(depth TextureView, clear Color) (RenderPass, error)
	EndFrame() error
	Present()
}

// Backend is a device together with its presentation surface.
type Backend interface {
	Device
	Surface
	Release()
}
