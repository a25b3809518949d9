package shader

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-scene/engine/gpu"
)

// typeAliases are emitted at the top of every generated header.
const typeAliases = `alias vec3f32 = vec3<f32>;
alias vec4f32 = vec4<f32>;
alias vec2f32 = vec2<f32>;
alias mat4f32 = mat4x4<f32>;
`

// GenerateHeader builds the WGSL preamble for a set of shader slots: the vecN/mat4 type aliases,
// a VertexInput struct with one field per position slot and a VertexOutput struct holding the
// clip-space position plus one frag_ field per position or positionOut slot. Field names are the
// lower-cased slot names and locations are the slot positions.
//
// Parameters:
//   - slots: the resource's declared slots, in declaration order
//
// Returns:
//   - string: the generated WGSL header
func GenerateHeader(slots []gpu.ShaderSlot) string {
	var sb strings.Builder
	sb.WriteString(typeAliases)

	sb.WriteString("\nstruct VertexInput {\n")
	for _, slot := range slots {
		if slot.Type != gpu.SlotTypePosition {
			continue
		}
		fmt.Fprintf(&sb, "    @location(%d) %s: %s,\n", slot.Position, strings.ToLower(slot.Name), slot.Format())
	}
	sb.WriteString("};\n")

	sb.WriteString("\nstruct VertexOutput {\n")
	sb.WriteString("    @builtin(position) position: vec4f32,\n")
	for _, slot := range slots {
		if slot.Type != gpu.SlotTypePosition && slot.Type != gpu.SlotTypePositionOut {
			continue
		}
		fmt.Fprintf(&sb, "    @location(%d) frag_%s: %s,\n", slot.Position, strings.ToLower(slot.Name), slot.Format())
	}
	sb.WriteString("};\n\n")

	return sb.String()
}
