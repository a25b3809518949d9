package gpu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sort"

	"github.com/Carmen-Shannon/oxy-scene/common"
	"github.com/cespare/xxhash/v2"
)

var (
	ErrEmptyResource      = errors.New("resource has no data")
	ErrMultipleBindings   = errors.New("only one binding per buffer is allowed")
	ErrReservedGroup      = errors.New("bind group 0 is reserved for the view uniform")
	ErrBindGroupGap       = errors.New("dedicated bind group layouts must be contiguous")
	ErrUnsupportedSlot    = errors.New("unsupported slot size")
	ErrUnknownSlot        = errors.New("unknown binding slot")
	ErrNilMaterial        = errors.New("material is nil")
	ErrSlotDataSize       = errors.New("slot data does not match slot size")
	ErrMissingShaderStage = errors.New("material has no shader module")
)

// FrameHooks receives per-frame callbacks that run against the active render pass
// before any actor draws. The Renderer implements it.
type FrameHooks interface {
	OnUpdate(hook func(pass RenderPass))
}

// PipelineMaterial is the part of a material the pipeline builder needs.
type PipelineMaterial interface {
	Name() string
	ShaderModule() (ShaderModule, error)
}

type cachedPipeline struct {
	module   ShaderModule
	pipeline RenderPipeline
}

type resourceModule struct {
	device Device
	hooks  FrameHooks

	vertexEntryPoint   string
	fragmentEntryPoint string
	depthFormat        TextureFormat

	viewLayout       BindGroupLayout
	dedicatedLayouts map[int]BindGroupLayout
	pipelines        map[uint64]cachedPipeline
}

// ResourceModule translates declarative resource descriptions into device buffers,
// vertex layouts and bind groups, and builds render pipelines for materials.
type ResourceModule interface {
	// Device returns the device the module allocates on.
	//
	// Returns:
	//   - Device: the bound device
	Device() Device

	// CreateBuffer allocates the primary buffer for data, derives its vertex layout from the
	// vertex-attribute slots and creates a bind group for every binding slot. A single per-frame
	// hook is registered that applies those bind groups at their declared positions.
	//
	// Parameters:
	//   - data: the resource description
	//
	// Returns:
	//   - *ResourceBuffer: the GPU-resident buffer, layout and bindings
	//   - error: ErrEmptyResource, ErrMultipleBindings, ErrReservedGroup, ErrUnsupportedSlot or a device error
	CreateBuffer(data ResourceData) (*ResourceBuffer, error)

	// WriteSlot uploads new contents into the buffer backing a binding slot.
	//
	// Parameters:
	//   - buf: the resource buffer owning the slot
	//   - slot: the binding slot name
	//   - data: the new contents (length must equal the slot size)
	//
	// Returns:
	//   - error: ErrUnknownSlot, ErrSlotDataSize or a device error
	WriteSlot(buf *ResourceBuffer, slot string, data []float32) error

	// CreateRenderPipeline builds (or returns the cached) pipeline pairing layout with the
	// material's shader module. The pipeline layout is the view uniform layout followed by every
	// dedicated layout recorded so far.
	//
	// Parameters:
	//   - layout: the vertex buffer layout
	//   - material: the material providing the shader module
	//   - options: pipeline options such as WithTopology
	//
	// Returns:
	//   - RenderPipeline: the pipeline
	//   - error: if the material is not ready or pipeline creation fails
	CreateRenderPipeline(layout VertexBufferLayout, material PipelineMaterial, options ...PipelineOption) (RenderPipeline, error)

	// VertexStride returns the byte stride of the interleaved vertex data described by slots.
	VertexStride(slots []ShaderSlot) uint64

	// VertexLayout derives the vertex buffer layout of slots: attributes in declaration order,
	// offsets as the running sum of slot sizes, output-only slots skipped.
	//
	// Parameters:
	//   - slots: the resource's slots
	//
	// Returns:
	//   - VertexBufferLayout: the derived layout
	//   - error: ErrUnsupportedSlot for a slot size with no float32 vertex format
	VertexLayout(slots []ShaderSlot) (VertexBufferLayout, error)

	// ViewBindGroupLayout returns the fixed layout of the view uniform at group 0.
	ViewBindGroupLayout() BindGroupLayout

	// BindGroupLayouts returns the pipeline bind group layouts in group order.
	//
	// Returns:
	//   - []BindGroupLayout: view layout followed by dedicated layouts
	//   - error: ErrBindGroupGap if dedicated groups are not contiguous
	BindGroupLayouts() ([]BindGroupLayout, error)
}

var _ ResourceModule = &resourceModule{}

// NewResourceModule creates the resource module bound to device. hooks receives the bind
// group callbacks registered by CreateBuffer.
//
// Parameters:
//   - device: the device to allocate on
//   - hooks: the per-frame hook registrar
//   - options: functional options
//
// Returns:
//   - ResourceModule: the module
//   - error: if the view bind group layout cannot be created
func NewResourceModule(device Device, hooks FrameHooks, options ...ResourceModuleBuilderOption) (ResourceModule, error) {
	m := &resourceModule{
		device:             device,
		hooks:              hooks,
		vertexEntryPoint:   "vertexMain",
		fragmentEntryPoint: "fragmentMain",
		depthFormat:        TextureFormatDepth24Plus,
		dedicatedLayouts:   make(map[int]BindGroupLayout),
		pipelines:          make(map[uint64]cachedPipeline),
	}
	for _, opt := range options {
		opt(m)
	}

	viewLayout, err := device.CreateBindGroupLayout("View Uniform Layout", uniformLayoutEntries(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create view bind group layout: %w", err)
	}
	m.viewLayout = viewLayout
	return m, nil
}

func (m *resourceModule) Device() Device {
	return m.device
}

func (m *resourceModule) ViewBindGroupLayout() BindGroupLayout {
	return m.viewLayout
}

func (m *resourceModule) CreateBuffer(data ResourceData) (*ResourceBuffer, error) {
	if len(data.Data) == 0 {
		return nil, fmt.Errorf("%s: %w", data.Name, ErrEmptyResource)
	}

	var vertexSlots, bindingSlots []ShaderSlot
	shared := 0
	for _, slot := range data.ShaderSlots {
		switch {
		case slot.IsVertexAttribute():
			vertexSlots = append(vertexSlots, slot)
		case slot.Type == SlotTypeBinding:
			if slot.CreateNewBuffer && slot.Position == 0 {
				return nil, fmt.Errorf("%s slot %q: %w", data.Name, slot.Name, ErrReservedGroup)
			}
			if !slot.CreateNewBuffer {
				shared++
			}
			bindingSlots = append(bindingSlots, slot)
		}
	}
	if shared > 1 {
		return nil, fmt.Errorf("%s: %w", data.Name, ErrMultipleBindings)
	}

	layout, err := m.VertexLayout(vertexSlots)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", data.Name, err)
	}

	contents := common.Float32sToBytes(data.Data)
	primary, err := m.device.CreateBuffer(BufferDescriptor{
		Label:            data.Name,
		Size:             uint64(len(contents)),
		Usage:            usageFor(data.Type),
		MappedAtCreation: true,
		Contents:         contents,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create buffer %s: %w", data.Name, err)
	}
	if err := m.device.WriteBuffer(primary, 0, contents); err != nil {
		return nil, fmt.Errorf("failed to upload buffer %s: %w", data.Name, err)
	}

	rb := &ResourceBuffer{
		Data:     primary,
		Layout:   layout,
		Topology: data.Topology,
	}

	for _, slot := range bindingSlots {
		sb, err := m.createBinding(data.Name, slot, primary)
		if err != nil {
			return nil, err
		}
		if !slot.CreateNewBuffer {
			rb.BindGroup = sb.BindGroup
		}
		rb.Bindings = append(rb.Bindings, sb)
	}

	if len(data.Indices) > 0 {
		indexBytes := common.Uint32sToBytes(data.Indices)
		index, err := m.device.CreateBuffer(BufferDescriptor{
			Label:            data.Name + " Indices",
			Size:             common.AlignTo(uint64(len(indexBytes)), 4),
			Usage:            BufferUsageIndex | BufferUsageCopyDst,
			MappedAtCreation: true,
			Contents:         indexBytes,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create index buffer %s: %w", data.Name, err)
		}
		rb.Index = index
		rb.IndexCount = uint32(len(data.Indices))
	}

	if len(rb.Bindings) > 0 {
		m.hooks.OnUpdate(rb.ApplyBindGroups)
	}

	common.LogDebug("created buffer %s: %d bytes, stride %d, %d binding(s)", data.Name, len(contents), layout.ArrayStride, len(rb.Bindings))
	return rb, nil
}

// createBinding builds the bind group for a binding slot, allocating a dedicated uniform
// buffer when the slot asks for one.
func (m *resourceModule) createBinding(name string, slot ShaderSlot, primary Buffer) (SlotBinding, error) {
	sb := SlotBinding{Slot: slot, Buffer: primary}
	label := fmt.Sprintf("%s %s", name, slot.Name)

	bgLayout, err := m.device.CreateBindGroupLayout(label+" Layout", uniformLayoutEntries(uint32(slot.Binding)))
	if err != nil {
		return sb, fmt.Errorf("failed to create bind group layout %s: %w", label, err)
	}

	if slot.CreateNewBuffer {
		values := slot.Data
		if values == nil {
			values = make([]float32, slot.Size)
		}
		if len(values) != slot.Size {
			return sb, fmt.Errorf("%s: %w", label, ErrSlotDataSize)
		}
		contents := common.Float32sToBytes(values)
		buf, err := m.device.CreateBuffer(BufferDescriptor{
			Label:            label,
			Size:             uint64(len(contents)),
			Usage:            BufferUsageUniform | BufferUsageCopyDst,
			MappedAtCreation: true,
			Contents:         contents,
		})
		if err != nil {
			return sb, fmt.Errorf("failed to create dedicated buffer %s: %w", label, err)
		}
		sb.Buffer = buf
		sb.Layout = bgLayout
		m.dedicatedLayouts[slot.Position] = bgLayout
	}

	bg, err := m.device.CreateBindGroup(label, bgLayout, []BindGroupEntry{{
		Binding: uint32(slot.Binding),
		Buffer:  sb.Buffer,
		Offset:  0,
		Size:    WholeSize,
	}})
	if err != nil {
		return sb, fmt.Errorf("failed to create bind group %s: %w", label, err)
	}
	sb.BindGroup = bg
	return sb, nil
}

func (m *resourceModule) WriteSlot(buf *ResourceBuffer, slot string, data []float32) error {
	sb, ok := buf.Binding(slot)
	if !ok {
		return fmt.Errorf("%q: %w", slot, ErrUnknownSlot)
	}
	if len(data) != sb.Slot.Size {
		return fmt.Errorf("%q: %w", slot, ErrSlotDataSize)
	}
	return m.device.WriteBuffer(sb.Buffer, 0, common.Float32sToBytes(data))
}

func (m *resourceModule) VertexStride(slots []ShaderSlot) uint64 {
	var stride uint64
	for _, slot := range slots {
		if slot.ContributesToStride() {
			stride += uint64(slot.Size)
		}
	}
	return stride * 4
}

func (m *resourceModule) VertexLayout(slots []ShaderSlot) (VertexBufferLayout, error) {
	var layout VertexBufferLayout
	var offset uint64
	for _, slot := range slots {
		if !slot.ContributesToStride() {
			continue
		}
		format := Float32VertexFormat(slot.Size)
		if format == 0 {
			return VertexBufferLayout{}, fmt.Errorf("slot %q size %d: %w", slot.Name, slot.Size, ErrUnsupportedSlot)
		}
		layout.Attributes = append(layout.Attributes, VertexAttribute{
			Format:         format,
			Offset:         offset,
			ShaderLocation: uint32(slot.Position),
		})
		offset += uint64(slot.Size) * 4
	}
	layout.ArrayStride = offset
	return layout, nil
}

func (m *resourceModule) BindGroupLayouts() ([]BindGroupLayout, error) {
	groups := make([]int, 0, len(m.dedicatedLayouts))
	for g := range m.dedicatedLayouts {
		groups = append(groups, g)
	}
	sort.Ints(groups)

	layouts := []BindGroupLayout{m.viewLayout}
	for i, g := range groups {
		if g != i+1 {
			return nil, fmt.Errorf("group %d: %w", g, ErrBindGroupGap)
		}
		layouts = append(layouts, m.dedicatedLayouts[g])
	}
	return layouts, nil
}

func (m *resourceModule) CreateRenderPipeline(layout VertexBufferLayout, material PipelineMaterial, options ...PipelineOption) (RenderPipeline, error) {
	if material == nil {
		return nil, ErrNilMaterial
	}
	cfg := pipelineConfig{topology: PrimitiveTopologyTriangleList}
	for _, opt := range options {
		opt(&cfg)
	}

	module, err := material.ShaderModule()
	if err != nil {
		return nil, fmt.Errorf("material %s: %w", material.Name(), err)
	}
	if module == nil {
		return nil, fmt.Errorf("material %s: %w", material.Name(), ErrMissingShaderStage)
	}

	layouts, err := m.BindGroupLayouts()
	if err != nil {
		return nil, err
	}

	key := pipelineKey(material.Name(), module.Label(), layout, cfg, len(layouts))
	if cached, ok := m.pipelines[key]; ok && cached.module == module {
		return cached.pipeline, nil
	}

	stripFormat := IndexFormatUndefined
	if cfg.topology == PrimitiveTopologyTriangleStrip {
		stripFormat = cfg.stripIndexFormat
	}

	pipeline, err := m.device.CreateRenderPipeline(RenderPipelineDescriptor{
		Label:              material.Name(),
		BindGroupLayouts:   layouts,
		Module:             module,
		VertexEntryPoint:   m.vertexEntryPoint,
		FragmentEntryPoint: m.fragmentEntryPoint,
		Buffers:            []VertexBufferLayout{layout},
		Topology:           cfg.topology,
		StripIndexFormat:   stripFormat,
		ColorFormat:        m.device.PreferredFormat(),
		DepthFormat:        m.depthFormat,
		DepthWriteEnabled:  true,
		DepthCompare:       CompareFunctionLess,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create render pipeline %s: %w", material.Name(), err)
	}

	m.pipelines[key] = cachedPipeline{module: module, pipeline: pipeline}
	common.LogDebug("created render pipeline %s (%d bind group layouts)", material.Name(), len(layouts))
	return pipeline, nil
}

// pipelineKey hashes everything that shapes a pipeline.
func pipelineKey(material, module string, layout VertexBufferLayout, cfg pipelineConfig, layoutCount int) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(material)
	_, _ = d.WriteString(module)

	var scratch [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(scratch[:], v)
		_, _ = d.Write(scratch[:])
	}
	put(layout.ArrayStride)
	for _, a := range layout.Attributes {
		put(uint64(a.Format))
		put(a.Offset)
		put(uint64(a.ShaderLocation))
	}
	put(uint64(cfg.topology))
	put(uint64(cfg.stripIndexFormat))
	put(uint64(layoutCount))
	return d.Sum64()
}

// usageFor maps a resource type to its primary buffer usage.
func usageFor(t ResourceType) BufferUsage {
	if t == ResourceTypeTriangles {
		return BufferUsageVertex | BufferUsageCopyDst
	}
	return BufferUsageVertex | BufferUsageUniform | BufferUsageCopySrc | BufferUsageCopyDst
}

func uniformLayoutEntries(binding uint32) []BindGroupLayoutEntry {
	return []BindGroupLayoutEntry{{
		Binding:    binding,
		Visibility: ShaderStageVertex,
	}}
}
