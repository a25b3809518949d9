package components

import "github.com/Carmen-Shannon/oxy-scene/engine/actor"

const (
	CapabilityMesh     actor.Capability = "mesh"
	CapabilityMaterial actor.Capability = "material"
	CapabilityCamera   actor.Capability = "camera"
)
