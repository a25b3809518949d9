package resource

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
)

type resource struct {
	data   gpu.ResourceData
	buffer *gpu.ResourceBuffer
	stride uint64
}

// Resource binds a declarative data description to the GPU buffer created for it.
// The buffer exists from construction on.
type Resource interface {
	// Name returns the resource name, which also names its buffer and cached shader.
	Name() string

	// Slots returns the declared shader slots in declaration order.
	Slots() []gpu.ShaderSlot

	// Buffer returns the GPU-resident buffer, layout and bindings.
	Buffer() *gpu.ResourceBuffer

	// Data returns the description the resource was created from.
	Data() gpu.ResourceData

	// VertexCount returns the explicit vertex count when one was given, otherwise the number of
	// interleaved records in the data.
	//
	// Returns:
	//   - int: the number of vertices to draw
	VertexCount() int

	// IndexCount returns the number of indices uploaded, or 0 for non-indexed resources.
	IndexCount() int
}

var _ Resource = &resource{}

// New creates the GPU buffer for data through module and returns the bound resource.
//
// Parameters:
//   - module: the resource module that allocates the buffer
//   - data: the resource description
//
// Returns:
//   - Resource: the resource
//   - error: if the buffer cannot be created
func New(module gpu.ResourceModule, data gpu.ResourceData) (Resource, error) {
	buf, err := module.CreateBuffer(data)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource %s: %w", data.Name, err)
	}
	return &resource{
		data:   data,
		buffer: buf,
		stride: module.VertexStride(data.ShaderSlots),
	}, nil
}

func (r *resource) Name() string {
	return r.data.Name
}

func (r *resource) Slots() []gpu.ShaderSlot {
	return r.data.ShaderSlots
}

func (r *resource) Buffer() *gpu.ResourceBuffer {
	return r.buffer
}

func (r *resource) Data() gpu.ResourceData {
	return r.data
}

func (r *resource) VertexCount() int {
	if r.data.VertexCount > 0 {
		return r.data.VertexCount
	}
	if r.stride == 0 {
		return 0
	}
	return len(r.data.Data) / int(r.stride/4)
}

func (r *resource) IndexCount() int {
	return len(r.data.Indices)
}
