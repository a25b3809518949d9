package components

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/engine/actor"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
	"github.com/Carmen-Shannon/oxy-scene/engine/resource"
)

// MeshRenderer draws a resource with the material attached to the same actor.
// It provides "mesh" and depends on "material".
type MeshRenderer struct {
	*actor.BaseComponent

	module   gpu.ResourceModule
	res      resource.Resource
	material *Material
}

var _ actor.Component = &MeshRenderer{}

// NewMeshRenderer creates a mesh renderer for res.
//
// Parameters:
//   - module: the resource module that builds the draw pipeline
//   - res: the mesh data
//
// Returns:
//   - *MeshRenderer: the component
func NewMeshRenderer(module gpu.ResourceModule, res resource.Resource) *MeshRenderer {
	m := &MeshRenderer{
		module: module,
		res:    res,
	}
	m.BaseComponent = actor.NewBaseComponent("MeshRenderer", m.onInit, CapabilityMaterial)
	return m
}

func (m *MeshRenderer) Provides() []actor.Capability {
	return []actor.Capability{CapabilityMesh}
}

// Resource returns the mesh data.
func (m *MeshRenderer) Resource() resource.Resource {
	return m.res
}

// Material returns the resolved material.
//
// Returns:
//   - *Material: the sibling material
//   - error: ErrNotInitialized before the material resolves
func (m *MeshRenderer) Material() (*Material, error) {
	if m.material == nil {
		return nil, fmt.Errorf("%s material: %w", m.res.Name(), actor.ErrNotInitialized)
	}
	return m.material, nil
}

func (m *MeshRenderer) onInit() error {
	a, err := m.Actor()
	if err != nil {
		return err
	}
	mat, err := actor.Get[*Material](a, CapabilityMaterial)
	if err != nil {
		return err
	}
	m.material = mat
	return nil
}

// Update binds the pipeline, this mesh's bind groups and vertex buffer, then draws. Nothing is
// recorded until the material has resolved.
func (m *MeshRenderer) Update(pass gpu.RenderPass) error {
	if !m.Initialized() {
		return nil
	}
	buf := m.res.Buffer()

	pipeline, err := m.module.CreateRenderPipeline(buf.Layout, m.material, gpu.WithTopology(buf.Topology, gpu.IndexFormatUint32))
	if err != nil {
		return fmt.Errorf("mesh %s: %w", m.res.Name(), err)
	}
	pass.SetPipeline(pipeline)
	buf.ApplyBindGroups(pass)
	pass.SetVertexBuffer(0, buf.Data, 0, buf.Data.Size())

	if buf.Index != nil {
		pass.SetIndexBuffer(buf.Index, gpu.IndexFormatUint32, 0, buf.Index.Size())
		pass.DrawIndexed(buf.IndexCount, 1, 0, 0, 0)
		return nil
	}
	pass.Draw(uint32(m.res.VertexCount()), 1, 0, 0)
	return nil
}
