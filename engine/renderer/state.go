package renderer

// State is the last completed startup phase of a Renderer.
type State int

const (
	// StateCreated is the state of a renderer that has not started.
	StateCreated State = iota

	// StateDeviceAcquired means the backend is acquired, the surface configured and the depth
	// texture allocated.
	StateDeviceAcquired

	// StateServicesReady means the resource module and shader cache exist.
	StateServicesReady

	// StateEntitiesReady means the default camera actor is built.
	StateEntitiesReady

	// StateReady means every ready callback has run and frames can be rendered.
	StateReady
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateDeviceAcquired:
		return "DeviceAcquired"
	case StateServicesReady:
		return "ServicesReady"
	case StateEntitiesReady:
		return "EntitiesReady"
	case StateReady:
		return "Ready"
	default:
		return "Unknown"
	}
}
