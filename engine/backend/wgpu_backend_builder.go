package backend

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency. This is the default.
	PresentModeUncapped PresentMode = iota

	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate.
	PresentModeVSync
)

// ParsePresentMode maps a configuration name ("vsync" or "uncapped") to a PresentMode.
// Unknown names select PresentModeUncapped.
//
// Parameters:
//   - name: the mode name
//
// Returns:
//   - PresentMode: the matching mode
func ParsePresentMode(name string) PresentMode {
	if name == "vsync" {
		return PresentModeVSync
	}
	return PresentModeUncapped
}

// WGPUBackendBuilderOption is a functional option applied to the wgpu backend during construction.
type WGPUBackendBuilderOption func(*wgpuBackend)

// WithPresentMode sets the surface present mode.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - WGPUBackendBuilderOption: a function that applies the present mode to the backend
func WithPresentMode(mode PresentMode) WGPUBackendBuilderOption {
	return func(b *wgpuBackend) {
		b.presentMode = toPresentMode(mode)
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter
//
// Returns:
//   - WGPUBackendBuilderOption: a function that applies the option to the backend
func WithForceSoftwareRenderer(force bool) WGPUBackendBuilderOption {
	return func(b *wgpuBackend) {
		b.forceFallbackAdapter = force
	}
}
