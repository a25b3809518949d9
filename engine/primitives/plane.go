package primitives

import (
	"github.com/Carmen-Shannon/oxy-scene/engine/components"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
)

var planeVertices = []float32{
	// position       color
	1, -1, 0, 1, 1, 0, 0, 1,
	-1, -1, 0, 1, 0, 1, 0, 1,
	0, 1, 0, 1, 0, 0, 1, 1,
}

// NewPlane creates a mesh renderer for a single red/green/blue triangle using DefaultSlots.
//
// Parameters:
//   - module: the resource module that uploads the vertices
//
// Returns:
//   - *components.MeshRenderer: the mesh component
//   - error: if the buffer cannot be created
func NewPlane(module gpu.ResourceModule) (*components.MeshRenderer, error) {
	return newMesh(module, gpu.ResourceData{
		Type:        gpu.ResourceTypeTriangles,
		Name:        "Plane",
		Data:        append([]float32(nil), planeVertices...),
		ShaderSlots: DefaultSlots(),
	})
}
