package primitives

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-scene/engine/components"
	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
	"github.com/Carmen-Shannon/oxy-scene/engine/resource"
)

// DefaultSlots returns the interleaved vec4 Position (location 0) and vec4 Color (location 1) slots.
//
// Returns:
//   - []gpu.ShaderSlot: a fresh slice the caller may extend
func DefaultSlots() []gpu.ShaderSlot {
	return []gpu.ShaderSlot{
		{Name: "Position", Type: gpu.SlotTypePosition, Position: 0, Size: 4},
		{Name: "Color", Type: gpu.SlotTypePosition, Position: 1, Size: 4},
	}
}

func newMesh(module gpu.ResourceModule, data gpu.ResourceData) (*components.MeshRenderer, error) {
	res, err := resource.New(module, data)
	if err != nil {
		return nil, fmt.Errorf("primitive %s: %w", data.Name, err)
	}
	return components.NewMeshRenderer(module, res), nil
}
